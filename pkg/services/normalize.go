package services

import (
	"strings"
	"time"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/models"
)

// Date layouts seen across the supported providers, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
}

// CustomerFromRecord normalizes one raw row into the canonical customer
// model using the connection's field mapping. Attributes outside the
// discovery catalog (CSM, contract end, contact outcome) ride along under
// their conventional column names when the table carries them.
func CustomerFromRecord(rec models.RawRecord, mapping models.FieldMapping) models.Customer {
	c := models.Customer{
		Name:            mappedString(rec, mapping, models.AttrName),
		Email:           mappedString(rec, mapping, models.AttrEmail),
		Company:         mappedString(rec, mapping, models.AttrCompany),
		Phone:           mappedString(rec, mapping, models.AttrPhone),
		CustomerType:    mappedString(rec, mapping, models.AttrCustomerType),
		AccountValue:    mappedNumber(rec, mapping, models.AttrAccountValue),
		EngagementScore: mappedNumber(rec, mapping, models.AttrEngagementScore),
		CreatedDate:     parseDate(mappedString(rec, mapping, models.AttrCreatedDate)),
		LastContactDate: parseDate(mappedString(rec, mapping, models.AttrLastContact)),
	}

	// Identity falls back from the mapped id to the provider record id to
	// the email address, so every returned customer is addressable.
	c.CustomerID = firstNonEmpty(
		mappedString(rec, mapping, models.AttrCustomerID),
		rec.StringValue("record_id"),
		c.Email,
	)

	c.CSMName = rawField(rec, "csm_name", "csm")
	c.ContractEndDate = parseDate(rawField(rec, "contract_end_date", "renewal_date"))
	c.ContactOutcome = models.ParseContactOutcome(
		strings.ToLower(rawField(rec, "contact_outcome", "last_contact_outcome")))
	return c
}

// UsageFromRecord parses one companion usage row. Column names follow the
// canonical schema; provider-styled variants resolve through rawField.
func UsageFromRecord(rec models.RawRecord) models.UsageRecord {
	count, _ := numberField(rec, "usage_count", "count")
	session, _ := numberField(rec, "session_duration_minutes", "session_duration")
	return models.UsageRecord{
		CustomerID:             rawField(rec, "customer_id"),
		Date:                   parseDate(rawField(rec, "date", "usage_date")),
		Feature:                rawField(rec, "feature_used", "feature"),
		SessionDurationMinutes: session,
		UsageCount:             int(count),
	}
}

// TicketFromRecord parses one companion support row.
func TicketFromRecord(rec models.RawRecord) models.SupportTicket {
	hours, _ := numberField(rec, "resolution_time_hours", "resolution_hours")
	return models.SupportTicket{
		CustomerID:          rawField(rec, "customer_id"),
		TicketID:            rawField(rec, "ticket_id", "id"),
		Status:              models.TicketStatus(strings.ToLower(rawField(rec, "status"))),
		Priority:            models.TicketPriority(strings.ToLower(rawField(rec, "priority"))),
		ResolutionTimeHours: hours,
		CreatedDate:         parseDate(rawField(rec, "created_date", "created")),
		Sentiment:           strings.ToLower(rawField(rec, "sentiment")),
	}
}

// belongsTo reports whether a companion row references the customer, by id
// first and case-folded email second.
func belongsTo(rec models.RawRecord, c models.Customer) bool {
	if id := rawField(rec, "customer_id"); id != "" && id == c.CustomerID {
		return true
	}
	if c.Email == "" {
		return false
	}
	email := rawField(rec, "email", "customer_email")
	return email != "" && strings.EqualFold(email, c.Email)
}

func mappedString(rec models.RawRecord, mapping models.FieldMapping, attr models.LogicalAttribute) string {
	col, ok := mapping.Column(attr)
	if !ok {
		return ""
	}
	return strings.TrimSpace(rec.StringValue(col))
}

func mappedNumber(rec models.RawRecord, mapping models.FieldMapping, attr models.LogicalAttribute) float64 {
	col, ok := mapping.Column(attr)
	if !ok {
		return 0
	}
	n, _ := rec.NumberValue(col)
	return n
}

// rawField reads the first present column among canonical names, matching
// case-insensitively with spaces and hyphens treated as underscores.
func rawField(rec models.RawRecord, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(rec.StringValue(name)); v != "" {
			return v
		}
	}
	for _, col := range rec.Columns() {
		folded := normalizeColumn(col)
		for _, name := range names {
			if folded == name {
				return strings.TrimSpace(rec.StringValue(col))
			}
		}
	}
	return ""
}

func numberField(rec models.RawRecord, names ...string) (float64, bool) {
	for _, name := range names {
		if n, ok := rec.NumberValue(name); ok {
			return n, true
		}
	}
	for _, col := range rec.Columns() {
		folded := normalizeColumn(col)
		for _, name := range names {
			if folded == name {
				return rec.NumberValue(col)
			}
		}
	}
	return 0, false
}

func normalizeColumn(col string) string {
	col = strings.ToLower(strings.TrimSpace(col))
	col = strings.ReplaceAll(col, " ", "_")
	return strings.ReplaceAll(col, "-", "_")
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
