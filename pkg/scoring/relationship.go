package scoring

import (
	"time"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/models"
)

// Relationship component weights (sum to 100).
const (
	recencyPoints  = 40.0
	outcomePoints  = 40.0
	contractPoints = 20.0

	// A renewal inside this horizon with no recent positive contact is the
	// classic silent-churn setup and zeroes the contract component.
	renewalSoonDays     = 30
	recentContactDays   = 14
	outcomeScaleDivisor = 100.0
)

// Fixed outcome sentiment table. Unknown sits between neutral and negative:
// no signal is worse than a neutral touch but better than silence.
var outcomeTable = map[models.ContactOutcome]float64{
	models.OutcomePositive:   100,
	models.OutcomeNeutral:    60,
	models.OutcomeNegative:   20,
	models.OutcomeNoResponse: 0,
	models.OutcomeUnknown:    40,
}

// RelationshipScore rates the CRM relationship 0-100 from contact recency,
// last contact outcome, and contract renewal posture.
func RelationshipScore(c models.Customer, now time.Time) int {
	score := recencyScore(c.LastContactDate, now)
	score += outcomePoints * outcomeTable[normalizeOutcome(c.ContactOutcome)] / outcomeScaleDivisor
	score += contractScore(c, now)
	return clampF(score)
}

func normalizeOutcome(o models.ContactOutcome) models.ContactOutcome {
	if _, ok := outcomeTable[o]; ok {
		return o
	}
	return models.OutcomeUnknown
}

// recencyScore decays linearly: full points on the day of contact, minus
// one per day since, floored at zero. A missing date scores zero.
func recencyScore(lastContact time.Time, now time.Time) float64 {
	if lastContact.IsZero() {
		return 0
	}
	days := daysBetween(lastContact, now)
	if days < 0 {
		days = 0
	}
	pts := recencyPoints - float64(days)
	if pts < 0 {
		return 0
	}
	return pts
}

// contractScore bands time-to-renewal. Expired contracts and imminent
// renewals without a recent positive touch score zero.
func contractScore(c models.Customer, now time.Time) float64 {
	if c.ContractEndDate.IsZero() {
		return contractPoints / 2 // no renewal pressure either way
	}
	daysToRenewal := daysBetween(now, c.ContractEndDate)
	switch {
	case daysToRenewal < 0:
		return 0
	case daysToRenewal > 180:
		return contractPoints
	case daysToRenewal > 90:
		return contractPoints * 0.75
	case daysToRenewal > renewalSoonDays:
		return contractPoints / 2
	default:
		if c.ContactOutcome == models.OutcomePositive &&
			!c.LastContactDate.IsZero() &&
			daysBetween(c.LastContactDate, now) <= recentContactDays {
			return contractPoints / 2
		}
		return 0
	}
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
