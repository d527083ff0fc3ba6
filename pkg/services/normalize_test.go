package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/models"
)

func TestCustomerFromRecord_MappedColumns(t *testing.T) {
	mapping := models.FieldMapping{
		models.AttrCustomerID:   "Customer ID",
		models.AttrEmail:        "E-Mail",
		models.AttrName:         "Full Name",
		models.AttrCompany:      "Company Name",
		models.AttrAccountValue: "ARR",
		models.AttrLastContact:  "Last Touch",
	}
	rec := models.RawRecord{
		"Customer ID":       "CUST042",
		"E-Mail":            "  ada@example.com ",
		"Full Name":         "Ada Lovelace",
		"Company Name":      "Analytical Engines",
		"ARR":               75000.0,
		"Last Touch":        "2026-08-01",
		"Contract End Date": "2027-01-31",
		"contact_outcome":   "Positive",
		"csm_name":          "Derek Okafor",
	}

	c := CustomerFromRecord(rec, mapping)
	assert.Equal(t, "CUST042", c.CustomerID)
	assert.Equal(t, "ada@example.com", c.Email)
	assert.Equal(t, "Ada Lovelace", c.Name)
	assert.Equal(t, "Analytical Engines", c.Company)
	assert.Equal(t, 75000.0, c.AccountValue)
	assert.Equal(t, "2026-08-01", c.LastContactDate.Format("2006-01-02"))
	assert.Equal(t, "2027-01-31", c.ContractEndDate.Format("2006-01-02"))
	assert.Equal(t, models.OutcomePositive, c.ContactOutcome)
	assert.Equal(t, "Derek Okafor", c.CSMName)
}

func TestCustomerFromRecord_IdentityFallsBackToRecordID(t *testing.T) {
	mapping := models.FieldMapping{models.AttrEmail: "Email"}
	rec := models.RawRecord{"record_id": "recXYZ", "Email": ""}

	c := CustomerFromRecord(rec, mapping)
	assert.Equal(t, "recXYZ", c.CustomerID)
}

func TestCustomerFromRecord_IdentityFallsBackToEmail(t *testing.T) {
	mapping := models.FieldMapping{models.AttrEmail: "Email"}
	rec := models.RawRecord{"Email": "solo@example.com"}

	c := CustomerFromRecord(rec, mapping)
	assert.Equal(t, "solo@example.com", c.CustomerID)
}

func TestCustomerFromRecord_ComputedWrapperUnwrapped(t *testing.T) {
	mapping := models.FieldMapping{
		models.AttrCustomerID:   "id",
		models.AttrAccountValue: "value_rollup",
	}
	rec := models.RawRecord{
		"id":           "CUST001",
		"value_rollup": map[string]any{"value": 12500.0},
	}

	c := CustomerFromRecord(rec, mapping)
	assert.Equal(t, 12500.0, c.AccountValue)
}

func TestUsageFromRecord(t *testing.T) {
	rec := models.RawRecord{
		"customer_id":              "CUST001",
		"date":                     "2026-08-17",
		"feature_used":             "login",
		"session_duration_minutes": 45.0,
		"usage_count":              22,
	}

	u := UsageFromRecord(rec)
	assert.Equal(t, "CUST001", u.CustomerID)
	assert.Equal(t, "login", u.Feature)
	assert.Equal(t, 45.0, u.SessionDurationMinutes)
	assert.Equal(t, 22, u.UsageCount)
	assert.Equal(t, "2026-08-17", u.Date.Format("2006-01-02"))
}

func TestTicketFromRecord_NormalizesEnums(t *testing.T) {
	rec := models.RawRecord{
		"ticket_id":             "TICK-9",
		"Status":                "Open",
		"Priority":              "Critical",
		"resolution_time_hours": 0,
		"sentiment":             "Negative",
	}

	tk := TicketFromRecord(rec)
	assert.Equal(t, "TICK-9", tk.TicketID)
	assert.Equal(t, models.TicketOpen, tk.Status)
	assert.Equal(t, models.PriorityCriticalTicket, tk.Priority)
	assert.Equal(t, "negative", tk.Sentiment)
}

func TestBelongsTo(t *testing.T) {
	customer := models.Customer{CustomerID: "CUST001", Email: "john@techcorp.com"}

	assert.True(t, belongsTo(models.RawRecord{"customer_id": "CUST001"}, customer))
	assert.True(t, belongsTo(models.RawRecord{"email": "John@TechCorp.com"}, customer))
	assert.False(t, belongsTo(models.RawRecord{"customer_id": "CUST002"}, customer))
	assert.False(t, belongsTo(models.RawRecord{}, customer))
}

func TestParseDate_Layouts(t *testing.T) {
	assert.Equal(t, "2026-08-17", parseDate("2026-08-17").Format("2006-01-02"))
	assert.Equal(t, "2026-08-17", parseDate("2026-08-17T09:30:00Z").Format("2006-01-02"))
	assert.Equal(t, time.Time{}, parseDate("not a date"))
	assert.True(t, parseDate("").IsZero())
}
