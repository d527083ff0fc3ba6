package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/models"
)

func TestScoreMapping_FullCatalogIs100(t *testing.T) {
	catalog := Catalog()
	full := models.FieldMapping{}
	for _, entry := range catalog {
		full[entry.Attr] = string(entry.Attr)
	}
	assert.InDelta(t, 100.0, ScoreMapping(full, catalog), 1e-9)
}

func TestScoreMapping_EmptyIsZero(t *testing.T) {
	assert.Equal(t, 0.0, ScoreMapping(models.FieldMapping{}, Catalog()))
}

func TestScoreMapping_KeyAttributesWeighDouble(t *testing.T) {
	catalog := Catalog()

	// 11 attributes, email and customer_id at weight 2: total weight 13.
	emailOnly := models.FieldMapping{models.AttrEmail: "email"}
	phoneOnly := models.FieldMapping{models.AttrPhone: "phone"}

	assert.InDelta(t, 100.0*2/13, ScoreMapping(emailOnly, catalog), 1e-9)
	assert.InDelta(t, 100.0*1/13, ScoreMapping(phoneOnly, catalog), 1e-9)
	assert.Greater(t, ScoreMapping(emailOnly, catalog), ScoreMapping(phoneOnly, catalog))
}

func TestScoreMapping_MoreBindingsScoreHigher(t *testing.T) {
	catalog := Catalog()
	small := models.FieldMapping{
		models.AttrEmail: "email",
		models.AttrName:  "name",
	}
	big := models.FieldMapping{
		models.AttrEmail:   "email",
		models.AttrName:    "name",
		models.AttrCompany: "company",
		models.AttrPhone:   "phone",
	}
	assert.Greater(t, ScoreMapping(big, catalog), ScoreMapping(small, catalog))
}

func TestNameBonus(t *testing.T) {
	tests := []struct {
		table string
		want  float64
	}{
		{"Customers", MaxNameBonus},
		{"client_list", MaxNameBonus},
		{"CONTACTS", MaxNameBonus},
		{"Leads", MaxNameBonus / 2},
		{"People", MaxNameBonus / 2},
		{"Orders", 0},
		{"Table 1", 0},
	}
	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			assert.Equal(t, tt.want, NameBonus(tt.table))
		})
	}
}

func TestProbeNames_PluralsFirstAndDeduplicated(t *testing.T) {
	names := ProbeNames()

	assert.Equal(t, "Customers", names[0])
	assert.Equal(t, "Customer", names[1])
	assert.Contains(t, names, "People") // inflection: Person -> People
	assert.Contains(t, names, "Sheet1")

	seen := map[string]bool{}
	for _, n := range names {
		assert.False(t, seen[n], "duplicate probe name %s", n)
		seen[n] = true
	}
}
