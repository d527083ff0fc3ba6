package scoring

import "github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/models"

// Support penalties. The score starts at 100 and only ever goes down; a
// customer with no tickets keeps the full score.
const (
	openTicketPenalty    = 15.0
	openTicketPenaltyCap = 50.0

	severityPenaltyCap = 30.0

	// SLA knee for average resolution time, in hours.
	slaHours         = 24.0
	slaPenalty       = 10.0
	slaSeverePenalty = 20.0
	slaSevereHours   = 72.0

	negativeSentimentPenalty = 10.0
	negativeSentimentCap     = 20.0
)

// Severity surcharge per open ticket, on top of the flat open penalty.
var priorityPenalty = map[models.TicketPriority]float64{
	models.PriorityLowTicket:      0,
	models.PriorityMediumTicket:   3,
	models.PriorityHighTicket:     7,
	models.PriorityCriticalTicket: 12,
}

// SupportScore rates support health 0-100: 100 minus penalties for open
// ticket load, priority-weighted severity, SLA breaches on resolution time,
// and negative ticket sentiment. Floored at 0, never negative.
func SupportScore(tickets []models.SupportTicket) int {
	if len(tickets) == 0 {
		return 100
	}

	var openCount int
	var severity float64
	var resolutionSum float64
	var resolvedCount int
	var negatives int

	for _, t := range tickets {
		if t.Status == models.TicketOpen || t.Status == models.TicketPending {
			openCount++
			severity += priorityPenalty[t.Priority]
		}
		if t.Status == models.TicketClosed && t.ResolutionTimeHours > 0 {
			resolutionSum += t.ResolutionTimeHours
			resolvedCount++
		}
		if t.Sentiment == "negative" {
			negatives++
		}
	}

	score := 100.0
	score -= capAt(float64(openCount)*openTicketPenalty, openTicketPenaltyCap)
	score -= capAt(severity, severityPenaltyCap)
	score -= resolutionPenalty(resolutionSum, resolvedCount)
	score -= capAt(float64(negatives)*negativeSentimentPenalty, negativeSentimentCap)

	return clampF(score)
}

func resolutionPenalty(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	switch avg := sum / float64(count); {
	case avg > slaSevereHours:
		return slaSeverePenalty
	case avg > slaHours:
		return slaPenalty
	default:
		return 0
	}
}

func capAt(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}
