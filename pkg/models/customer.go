package models

import "time"

// ContactOutcome classifies the result of the most recent CRM touchpoint.
type ContactOutcome string

const (
	OutcomePositive   ContactOutcome = "positive"
	OutcomeNegative   ContactOutcome = "negative"
	OutcomeNeutral    ContactOutcome = "neutral"
	OutcomeNoResponse ContactOutcome = "no_response"
	OutcomeUnknown    ContactOutcome = "unknown"
)

// ParseContactOutcome maps free-form source values onto the outcome enum.
// Unrecognized values become OutcomeUnknown rather than an error.
func ParseContactOutcome(s string) ContactOutcome {
	switch ContactOutcome(s) {
	case OutcomePositive, OutcomeNegative, OutcomeNeutral, OutcomeNoResponse:
		return ContactOutcome(s)
	default:
		return OutcomeUnknown
	}
}

// Customer is the canonical customer model every source is normalized into.
// CustomerID is always non-empty and unique within a source.
type Customer struct {
	CustomerID      string         `json:"customer_id"`
	Name            string         `json:"name,omitempty"`
	Email           string         `json:"email,omitempty"`
	Company         string         `json:"company,omitempty"`
	AccountValue    float64        `json:"account_value"`
	CustomerType    string         `json:"customer_type,omitempty"`
	Phone           string         `json:"phone,omitempty"`
	CSMName         string         `json:"csm_name,omitempty"`
	EngagementScore float64        `json:"engagement_score,omitempty"`
	ContractEndDate time.Time      `json:"contract_end_date,omitempty"`
	LastContactDate time.Time      `json:"last_contact_date,omitempty"`
	CreatedDate     time.Time      `json:"created_date,omitempty"`
	ContactOutcome  ContactOutcome `json:"contact_outcome"`
}

// UsageRecord is one product-usage observation for a customer.
type UsageRecord struct {
	CustomerID             string    `json:"customer_id"`
	Date                   time.Time `json:"date"`
	Feature                string    `json:"feature"`
	SessionDurationMinutes float64   `json:"session_duration_minutes"`
	UsageCount             int       `json:"usage_count"`
}

// TicketStatus is the lifecycle state of a support ticket.
type TicketStatus string

const (
	TicketOpen    TicketStatus = "open"
	TicketClosed  TicketStatus = "closed"
	TicketPending TicketStatus = "pending"
)

// TicketPriority is the severity assigned to a support ticket.
type TicketPriority string

const (
	PriorityLowTicket      TicketPriority = "low"
	PriorityMediumTicket   TicketPriority = "medium"
	PriorityHighTicket     TicketPriority = "high"
	PriorityCriticalTicket TicketPriority = "critical"
)

// SupportTicket is one support interaction for a customer.
// ResolutionTimeHours is meaningful only when Status is closed.
type SupportTicket struct {
	CustomerID          string         `json:"customer_id"`
	TicketID            string         `json:"ticket_id"`
	Status              TicketStatus   `json:"status"`
	Priority            TicketPriority `json:"priority"`
	ResolutionTimeHours float64        `json:"resolution_time_hours,omitempty"`
	CreatedDate         time.Time      `json:"created_date"`
	Sentiment           string         `json:"sentiment,omitempty"`
}
