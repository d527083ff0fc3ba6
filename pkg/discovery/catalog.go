// Package discovery resolves unknown tabular schemas onto the canonical
// customer model: it probes tables, maps observed columns to logical
// attributes and picks the most customer-like table deterministically.
package discovery

import "github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/models"

// CatalogEntry binds one logical attribute to its ordered name patterns.
// Pattern order is a priority: earlier patterns claim columns first.
type CatalogEntry struct {
	Attr     models.LogicalAttribute
	Patterns []string
}

// Catalog returns the field pattern catalog in priority order. Entry order
// matters as much as pattern order: when two attributes could claim the same
// column, the earlier entry wins and the mapping stays injective.
func Catalog() []CatalogEntry {
	return []CatalogEntry{
		{models.AttrEmail, []string{
			"email_address", "email", "e-mail", "e_mail", "contact_email",
			"customer_email", "user_email", "primary_email",
		}},
		{models.AttrName, []string{
			"name", "full_name", "customer_name", "client_name", "contact_name",
			"first_name", "last_name", "display_name", "person_name",
		}},
		{models.AttrCompany, []string{
			"company", "company_name", "organization", "org", "business",
			"account", "account_name", "client", "customer_company",
		}},
		{models.AttrAccountValue, []string{
			"account_value", "value", "revenue", "contract_value", "deal_value",
			"ticket_size", "ticket size", "annual_revenue", "mrr", "arr", "amount",
			"price", "deal_amount", "contract_amount", "purchase_amount", "order_value",
		}},
		{models.AttrCustomerID, []string{
			"customer_id", "client_id", "account_id", "user_id",
			"contact_id", "record_id", "reference", "id",
		}},
		{models.AttrPhone, []string{
			"phone", "phone_number", "telephone", "mobile", "cell",
			"contact_phone", "primary_phone",
		}},
		{models.AttrCreatedDate, []string{
			"created", "created_date", "date_created", "signup_date",
			"registration_date", "start_date", "onboarding_date",
		}},
		{models.AttrLastContact, []string{
			"last_contact", "last_contact_date", "last_interaction",
			"last_touch", "last_activity", "recent_contact",
		}},
		{models.AttrEngagementScore, []string{
			"engagement", "engagement_score", "customer_engagement",
			"engagement_rating", "activity_score", "involvement_score",
		}},
		{models.AttrCustomerType, []string{
			"type", "customer_type", "client_type", "tier", "segment",
			"category", "classification", "status",
		}},
		{models.AttrSentiment, []string{
			"sentiment", "email_sentiment", "mood", "satisfaction",
			"feedback", "rating", "score",
		}},
	}
}
