// Package scoring computes customer health scores. Every function here is
// pure: identical inputs at the same instant yield identical scores, and no
// input combination is an error. Missing data degrades a score toward 0.
package scoring

import (
	"math"
	"time"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/models"
)

// Composite sub-score weights. Usage dominates because product abandonment
// is the strongest churn predictor in this model.
const (
	usageWeight        = 0.40
	relationshipWeight = 0.30
	supportWeight      = 0.30
)

// Inputs bundles the normalized records for one customer.
type Inputs struct {
	Customer models.Customer
	Usage    []models.UsageRecord
	Tickets  []models.SupportTicket
}

// Compute derives the full HealthScore for one customer at the given
// instant. now is explicit so callers and tests control time.
func Compute(in Inputs, now time.Time) models.HealthScore {
	var flags []string

	usage := UsageScore(in.Usage, now)
	if len(in.Usage) == 0 {
		flags = append(flags, models.FlagNoUsageData)
	}
	relationship := RelationshipScore(in.Customer, now)
	support := SupportScore(in.Tickets)

	composite := Composite(usage, relationship, support)

	return models.HealthScore{
		CustomerID:        in.Customer.CustomerID,
		CompanyName:       in.Customer.Company,
		UsageScore:        usage,
		RelationshipScore: relationship,
		SupportScore:      support,
		Composite:         composite,
		Status:            models.StatusForComposite(composite),
		Flags:             flags,
		ComputedAt:        now,
	}
}

// Composite combines clamped sub-scores into the rounded 0-100 composite.
// Status thresholds are evaluated on this rounded value, never the float.
func Composite(usage, relationship, support int) int {
	u := float64(clamp(usage))
	r := float64(clamp(relationship))
	s := float64(clamp(support))
	return int(math.Round(usageWeight*u + relationshipWeight*r + supportWeight*s))
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func clampF(score float64) int {
	return clamp(int(math.Round(score)))
}
