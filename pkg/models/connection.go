package models

import (
	"time"

	"github.com/google/uuid"
)

// SourceKind identifies a customer data source.
type SourceKind string

const (
	SourceStatic   SourceKind = "static"
	SourceAirtable SourceKind = "airtable"
	SourceHubSpot  SourceKind = "hubspot"
	SourceZapier   SourceKind = "zapier"
)

// ParseSourceKind validates a source kind string.
func ParseSourceKind(s string) (SourceKind, bool) {
	switch SourceKind(s) {
	case SourceStatic, SourceAirtable, SourceHubSpot, SourceZapier:
		return SourceKind(s), true
	default:
		return "", false
	}
}

// TableBacked reports whether this source requires schema discovery before
// customer records can be read. The static source ships the canonical
// schema directly.
func (k SourceKind) TableBacked() bool {
	return k != SourceStatic
}

// LogicalAttribute is a canonical field in the internal customer schema.
type LogicalAttribute string

const (
	AttrEmail           LogicalAttribute = "email"
	AttrName            LogicalAttribute = "name"
	AttrCompany         LogicalAttribute = "company"
	AttrAccountValue    LogicalAttribute = "account_value"
	AttrCustomerID      LogicalAttribute = "customer_id"
	AttrPhone           LogicalAttribute = "phone"
	AttrEngagementScore LogicalAttribute = "engagement_score"
	AttrCustomerType    LogicalAttribute = "customer_type"
	AttrSentiment       LogicalAttribute = "sentiment"
	AttrCreatedDate     LogicalAttribute = "created_date"
	AttrLastContact     LogicalAttribute = "last_contact"
)

// FieldMapping binds logical attributes to observed raw column names for one
// connected table. Unmatched attributes are simply absent. The mapping is
// injective: no raw column is bound to two attributes.
type FieldMapping map[LogicalAttribute]string

// Column returns the raw column bound to attr, if any.
func (m FieldMapping) Column(attr LogicalAttribute) (string, bool) {
	col, ok := m[attr]
	return col, ok
}

// Clone returns a copy so a stored Connection never aliases a caller's map.
func (m FieldMapping) Clone() FieldMapping {
	if m == nil {
		return nil
	}
	out := make(FieldMapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// TableCandidate is a table evaluated during discovery: its identifier, the
// bounded record sample, the suitability score and the resolved mapping.
// Candidates are transient; only the winner's mapping survives into the
// Connection.
type TableCandidate struct {
	Table     string       `json:"table"`
	Sample    []RawRecord  `json:"-"`
	SampleLen int          `json:"sample_records"`
	Columns   []string     `json:"columns"`
	Score     float64      `json:"score"`
	NameBonus float64      `json:"name_bonus"`
	Mapping   FieldMapping `json:"field_mapping"`
}

// Viable reports whether the candidate binds at least one of the fields
// required for customer resolution.
func (c TableCandidate) Viable() bool {
	_, hasEmail := c.Mapping[AttrEmail]
	_, hasID := c.Mapping[AttrCustomerID]
	return hasEmail || hasID
}

// BaseSummary describes one discoverable base on a provider.
type BaseSummary struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	PermissionLevel string `json:"permission_level,omitempty"`
}

// Connection is the process-wide active source state. It is built complete
// and installed atomically; readers take it by pointer snapshot and never
// observe partial updates.
type Connection struct {
	ID          uuid.UUID    `json:"id"`
	Source      SourceKind   `json:"source"`
	BaseID      string       `json:"base_id,omitempty"`
	Table       string       `json:"table,omitempty"`
	Mapping     FieldMapping `json:"field_mapping,omitempty"`
	ConnectedAt time.Time    `json:"connected_at"`
}
