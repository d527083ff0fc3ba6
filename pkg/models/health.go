package models

import "time"

// HealthStatus buckets a composite score. Thresholds are fixed: a rounded
// composite >= 80 is healthy, 60-79 at risk, below 60 critical.
type HealthStatus string

const (
	StatusHealthy  HealthStatus = "healthy"
	StatusAtRisk   HealthStatus = "at_risk"
	StatusCritical HealthStatus = "critical"
)

// StatusForComposite buckets a rounded composite score.
func StatusForComposite(composite int) HealthStatus {
	switch {
	case composite >= 80:
		return StatusHealthy
	case composite >= 60:
		return StatusAtRisk
	default:
		return StatusCritical
	}
}

// FlagNoUsageData marks a score computed without any usage records.
const FlagNoUsageData = "no usage data"

// HealthScore is an immutable assessment of one customer. Recomputation
// produces a new instance; instances are never mutated in place.
type HealthScore struct {
	CustomerID        string       `json:"customer_id"`
	CompanyName       string       `json:"company_name,omitempty"`
	UsageScore        int          `json:"usage_score"`
	RelationshipScore int          `json:"relationship_score"`
	SupportScore      int          `json:"support_score"`
	Composite         int          `json:"composite"`
	Status            HealthStatus `json:"status"`
	Flags             []string     `json:"flags,omitempty"`
	ComputedAt        time.Time    `json:"computed_at"`
}

// RecommendationPriority orders recommended actions.
type RecommendationPriority string

const (
	PriorityHigh   RecommendationPriority = "high"
	PriorityMedium RecommendationPriority = "medium"
	PriorityLow    RecommendationPriority = "low"
)

// ScoreDimension names the sub-score that triggered a recommendation.
type ScoreDimension string

const (
	DimensionUsage        ScoreDimension = "usage"
	DimensionRelationship ScoreDimension = "relationship"
	DimensionSupport      ScoreDimension = "support"
)

// Recommendation is one deterministic action derived from a HealthScore.
// An optional text-generation pass may rewrite Reasoning after the fact;
// Action, Priority and Timeline never change.
type Recommendation struct {
	Action    string                 `json:"action"`
	Priority  RecommendationPriority `json:"priority"`
	Timeline  string                 `json:"timeline"`
	Reasoning string                 `json:"reasoning"`
	Dimension ScoreDimension         `json:"dimension"`
}
