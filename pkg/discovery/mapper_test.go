package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/models"
)

func TestResolveMapping_ExactBeatsSubstring(t *testing.T) {
	// "contact_email" matches "email" by substring, but "Email" is an exact
	// hit and must win even though it appears later in the observed order.
	observed := []string{"contact_email_notes", "Email", "Name"}
	m := ResolveMapping(observed, Catalog())

	assert.Equal(t, "Email", m[models.AttrEmail])
}

func TestResolveMapping_NormalizationFoldsSeparators(t *testing.T) {
	observed := []string{"Customer ID", "E-Mail", "Full Name"}
	m := ResolveMapping(observed, Catalog())

	assert.Equal(t, "Customer ID", m[models.AttrCustomerID])
	assert.Equal(t, "E-Mail", m[models.AttrEmail])
	assert.Equal(t, "Full Name", m[models.AttrName])
}

func TestResolveMapping_EarlierAttributeSubstringOutranksLaterExact(t *testing.T) {
	// "company_name" is an exact pattern for company, but name precedes it in
	// the catalog and its "name" pattern substring-matches the same column.
	// The earlier attribute resolves first and wins the column.
	m := ResolveMapping([]string{"company_name"}, Catalog())

	assert.Equal(t, "company_name", m[models.AttrName])
	_, companyBound := m[models.AttrCompany]
	assert.False(t, companyBound)
}

func TestResolveMapping_Injective(t *testing.T) {
	// "status" is an exact pattern for customer_type; sentiment's "score"
	// pattern could substring-match "engagement_score", but engagement has
	// already claimed it.
	observed := []string{"email", "status", "engagement_score"}
	m := ResolveMapping(observed, Catalog())

	assert.Equal(t, "status", m[models.AttrCustomerType])
	assert.Equal(t, "engagement_score", m[models.AttrEngagementScore])
	_, sentimentBound := m[models.AttrSentiment]
	assert.False(t, sentimentBound)

	seen := map[string]models.LogicalAttribute{}
	for attr, col := range m {
		prev, dup := seen[col]
		require.False(t, dup, "column %s claimed by both %s and %s", col, prev, attr)
		seen[col] = attr
	}
}

func TestResolveMapping_CatalogOrderResolvesContention(t *testing.T) {
	// A lone "name" column: the name attribute precedes company in the
	// catalog, so it wins the column.
	m := ResolveMapping([]string{"name"}, Catalog())
	assert.Equal(t, "name", m[models.AttrName])
	_, companyBound := m[models.AttrCompany]
	assert.False(t, companyBound)
}

func TestResolveMapping_RecordIDBindsCustomerIDLast(t *testing.T) {
	// With a real customer_id present, the injected record_id column must
	// not steal the binding.
	m := ResolveMapping([]string{"record_id", "customer_id", "email"}, Catalog())
	assert.Equal(t, "customer_id", m[models.AttrCustomerID])

	// Without one, record_id is an acceptable exact fallback.
	m = ResolveMapping([]string{"record_id", "email"}, Catalog())
	assert.Equal(t, "record_id", m[models.AttrCustomerID])
}

func TestResolveMapping_DeterministicForObservedOrder(t *testing.T) {
	observed := []string{"primary_email", "backup_email", "full_name", "org"}
	first := ResolveMapping(observed, Catalog())
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, ResolveMapping(observed, Catalog()))
	}
	assert.Equal(t, "primary_email", first[models.AttrEmail])
}

func TestResolveMapping_NoMatches(t *testing.T) {
	m := ResolveMapping([]string{"widget_count", "warehouse"}, Catalog())
	assert.Empty(t, m)
}

func TestObservedColumns_UnionFirstSeen(t *testing.T) {
	sample := []models.RawRecord{
		{"email": "a@b.c", "name": "A"},
		{"email": "d@e.f", "phone": "555"},
	}
	cols := ObservedColumns(sample)
	assert.ElementsMatch(t, []string{"email", "name", "phone"}, cols)
}
