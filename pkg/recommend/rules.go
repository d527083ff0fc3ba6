// Package recommend derives prioritized follow-up actions from a health
// score. The rule table is the system of record; an optional generative
// rewrite of reasoning text never changes which actions exist.
package recommend

import (
	"fmt"
	"sort"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/models"
)

// A dimension scoring at or above this never produces a recommendation,
// so a healthy customer gets an empty plan rather than filler advice.
const actionThreshold = 70

// MaxRecommendations caps the plan per customer; highest priority wins.
const MaxRecommendations = 3

// Band edges inside the actionable range. Below highBandCeiling the
// dimension is in free fall and the action is high priority.
const (
	highBandCeiling   = 40
	mediumBandCeiling = 60
)

type band struct {
	priority  models.RecommendationPriority
	timeline  string
	reasoning string
}

type rule struct {
	dimension models.ScoreDimension
	action    string
	pick      func(models.HealthScore) int
	bands     [3]band
}

// Evaluated in fixed order. Each reasoning template takes the sub-score
// and the customer subject, in that order.
var rules = []rule{
	{
		dimension: models.DimensionUsage,
		action:    "Schedule product training and onboarding session",
		pick:      func(s models.HealthScore) int { return s.UsageScore },
		bands: [3]band{
			{models.PriorityHigh, "within 1 week", "Usage score of %d indicates %s needs better product understanding and onboarding"},
			{models.PriorityMedium, "within 2 weeks", "Usage score of %d shows %s is not yet adopting core features"},
			{models.PriorityLow, "within 1 month", "Usage score of %d suggests %s has room to deepen product adoption"},
		},
	},
	{
		dimension: models.DimensionRelationship,
		action:    "Increase CSM touchpoints and schedule check-in call",
		pick:      func(s models.HealthScore) int { return s.RelationshipScore },
		bands: [3]band{
			{models.PriorityHigh, "within 3 days", "Relationship score of %d requires immediate attention to prevent churn at %s"},
			{models.PriorityMedium, "within 2 weeks", "Relationship score of %d shows engagement with %s is slipping"},
			{models.PriorityLow, "within 1 month", "Relationship score of %d suggests %s is due for a routine check-in"},
		},
	},
	{
		dimension: models.DimensionSupport,
		action:    "Review and prioritize resolution of open support tickets",
		pick:      func(s models.HealthScore) int { return s.SupportScore },
		bands: [3]band{
			{models.PriorityHigh, "within 1 day", "Support score of %d means support issues are significantly impacting %s's experience"},
			{models.PriorityMedium, "within 1 week", "Support score of %d shows the ticket load is weighing on %s"},
			{models.PriorityLow, "within 1 month", "Support score of %d suggests minor support friction at %s"},
		},
	},
}

var priorityRank = map[models.RecommendationPriority]int{
	models.PriorityHigh:   0,
	models.PriorityMedium: 1,
	models.PriorityLow:    2,
}

// Plan evaluates the rule table against a health score and returns a
// prioritized action list. Pure and deterministic; identical inputs always
// yield an identical plan. An empty plan means the customer is healthy.
func Plan(score models.HealthScore, customer models.Customer) []models.Recommendation {
	subject := subjectName(customer)

	recs := make([]models.Recommendation, 0, len(rules))
	for _, r := range rules {
		s := r.pick(score)
		if s >= actionThreshold {
			continue
		}
		b := r.bands[bandIndex(s)]
		recs = append(recs, models.Recommendation{
			Action:    r.action,
			Priority:  b.priority,
			Timeline:  b.timeline,
			Reasoning: fmt.Sprintf(b.reasoning, s, subject),
			Dimension: r.dimension,
		})
	}

	// Stable sort keeps the usage, relationship, support evaluation order
	// within each priority tier.
	sort.SliceStable(recs, func(i, j int) bool {
		return priorityRank[recs[i].Priority] < priorityRank[recs[j].Priority]
	})
	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs
}

func bandIndex(score int) int {
	switch {
	case score < highBandCeiling:
		return 0
	case score < mediumBandCeiling:
		return 1
	default:
		return 2
	}
}

func subjectName(c models.Customer) string {
	switch {
	case c.Company != "":
		return c.Company
	case c.Name != "":
		return c.Name
	default:
		return "this customer"
	}
}
