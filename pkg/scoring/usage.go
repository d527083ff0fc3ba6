package scoring

import (
	"time"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/models"
)

// Usage component weights (sum to 100) and normalization baselines.
const (
	loginPoints   = 35.0
	sessionPoints = 25.0
	featurePoints = 25.0
	trendPoints   = 15.0

	// Expected healthy activity over the trailing 30-day window.
	baselineLogins        = 20.0
	baselineSessionMins   = 30.0
	baselineFeatureCount  = 5.0
	trailingWindow        = 30 * 24 * time.Hour
	loginFeature          = "login"
	trendGrowthThreshold  = 1.1
	trendDeclineThreshold = 0.9
)

// UsageScore rates product usage 0-100 from four signals: login frequency
// against the baseline, average session duration, distinct feature
// adoption, and the recent-vs-prior activity trend. No records yield 0;
// the caller flags that separately.
func UsageScore(records []models.UsageRecord, now time.Time) int {
	if len(records) == 0 {
		return 0
	}

	windowStart := now.Add(-trailingWindow)
	priorStart := now.Add(-2 * trailingWindow)

	var logins float64
	var sessionSum float64
	var sessionCount int
	features := make(map[string]bool)
	var recentActivity, priorActivity float64

	for _, rec := range records {
		if rec.Feature == loginFeature && !rec.Date.Before(windowStart) {
			logins += float64(rec.UsageCount)
		}
		if rec.SessionDurationMinutes > 0 {
			sessionSum += rec.SessionDurationMinutes
			sessionCount++
		}
		if rec.Feature != "" {
			features[rec.Feature] = true
		}
		switch {
		case !rec.Date.Before(windowStart):
			recentActivity += float64(rec.UsageCount)
		case !rec.Date.Before(priorStart):
			priorActivity += float64(rec.UsageCount)
		}
	}

	score := loginPoints * ratio(logins, baselineLogins)
	if sessionCount > 0 {
		score += sessionPoints * ratio(sessionSum/float64(sessionCount), baselineSessionMins)
	}
	score += featurePoints * ratio(float64(len(features)), baselineFeatureCount)
	score += trendScore(recentActivity, priorActivity)

	return clampF(score)
}

// ratio normalizes a value against its baseline, capped at 1 so overuse
// never inflates the score past its component weight.
func ratio(value, baseline float64) float64 {
	if baseline <= 0 {
		return 0
	}
	r := value / baseline
	if r > 1 {
		return 1
	}
	return r
}

// trendScore rewards growth and penalizes decline between the recent and
// prior 30-day windows. A customer with no prior activity is treated as
// stable: there is nothing to decline from.
func trendScore(recent, prior float64) float64 {
	if prior == 0 {
		return trendPoints / 2
	}
	switch r := recent / prior; {
	case r >= trendGrowthThreshold:
		return trendPoints
	case r >= trendDeclineThreshold:
		return trendPoints / 2
	default:
		return 0
	}
}
