package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/models"
)

func usageRec(daysAgo int, feature string, session float64, count int) models.UsageRecord {
	return models.UsageRecord{
		Date:                   testNow.AddDate(0, 0, -daysAgo),
		Feature:                feature,
		SessionDurationMinutes: session,
		UsageCount:             count,
	}
}

func TestUsageScore_EmptyIsZero(t *testing.T) {
	assert.Equal(t, 0, UsageScore(nil, testNow))
}

func TestUsageScore_FullMarks(t *testing.T) {
	records := []models.UsageRecord{
		usageRec(2, "login", 45, 25),
		usageRec(5, "dashboards", 40, 10),
		usageRec(9, "reports", 35, 5),
		usageRec(12, "api", 30, 40),
		usageRec(20, "exports", 30, 8),
		// Prior window activity low enough that recent counts as growth.
		usageRec(45, "login", 30, 10),
	}
	// logins 25 >= baseline, avg session > 30, 5 features, growing trend.
	assert.Equal(t, 100, UsageScore(records, testNow))
}

func TestUsageScore_PartialCreditScalesLinearly(t *testing.T) {
	half := []models.UsageRecord{
		usageRec(3, "login", 15, 10), // half the login baseline, half session
	}
	full := []models.UsageRecord{
		usageRec(3, "login", 30, 20),
	}
	assert.Less(t, UsageScore(half, testNow), UsageScore(full, testNow))
}

func TestUsageScore_DecliningTrendDropsPoints(t *testing.T) {
	declining := []models.UsageRecord{
		usageRec(5, "login", 20, 3),
		usageRec(40, "login", 20, 30),
	}
	stable := []models.UsageRecord{
		usageRec(5, "login", 20, 30),
		usageRec(40, "login", 20, 30),
	}
	assert.Less(t, UsageScore(declining, testNow), UsageScore(stable, testNow))
}

func TestUsageScore_OldLoginsOutsideWindowIgnored(t *testing.T) {
	old := []models.UsageRecord{
		usageRec(60, "login", 30, 50),
	}
	score := UsageScore(old, testNow)
	// Session and feature credit still apply, but zero window logins.
	recent := []models.UsageRecord{
		usageRec(2, "login", 30, 50),
	}
	assert.Less(t, score, UsageScore(recent, testNow))
}

func TestUsageScore_OverusageDoesNotExceedComponentCap(t *testing.T) {
	records := []models.UsageRecord{
		usageRec(1, "login", 600, 10000),
	}
	score := UsageScore(records, testNow)
	assert.LessOrEqual(t, score, 100)
	// One feature only: the feature component is far from full, so the
	// total must sit well under 100 despite extreme login volume.
	assert.Less(t, score, 85)
}

func TestUsageScore_TimeIsExplicit(t *testing.T) {
	records := []models.UsageRecord{usageRec(5, "login", 30, 20)}
	later := testNow.Add(90 * 24 * time.Hour)
	assert.Greater(t, UsageScore(records, testNow), UsageScore(records, later))
}
