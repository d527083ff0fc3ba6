package discovery

import (
	"strings"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/models"
)

// Resolution keys count double: a table that binds email or customer_id is
// worth far more than one that merely looks customer-shaped.
const keyAttributeWeight = 2.0

// MaxNameBonus caps the table-name bonus so it can only break ties between
// equally-scored candidates, never outrank a better mapping.
const MaxNameBonus = 10.0

func attributeWeight(attr models.LogicalAttribute) float64 {
	if attr == models.AttrEmail || attr == models.AttrCustomerID {
		return keyAttributeWeight
	}
	return 1.0
}

// ScoreMapping rates a resolved mapping 0-100 as the weighted share of
// catalog attributes it binds.
func ScoreMapping(mapping models.FieldMapping, catalog []CatalogEntry) float64 {
	var total, bound float64
	for _, entry := range catalog {
		w := attributeWeight(entry.Attr)
		total += w
		if _, ok := mapping[entry.Attr]; ok {
			bound += w
		}
	}
	if total == 0 {
		return 0
	}
	return 100 * bound / total
}

// Keywords that mark a table name as customer-bearing. Primary keywords
// earn the full bonus; secondary ones half.
var (
	primaryNameKeywords   = []string{"customer", "client", "contact", "account", "user", "member"}
	secondaryNameKeywords = []string{"lead", "prospect", "people", "person", "crm"}
)

// NameBonus rates how customer-like a table name is, 0 to MaxNameBonus.
// The bonus is kept separate from the mapping score and consulted only for
// tie-breaks.
func NameBonus(table string) float64 {
	name := strings.ToLower(table)
	for _, kw := range primaryNameKeywords {
		if strings.Contains(name, kw) {
			return MaxNameBonus
		}
	}
	for _, kw := range secondaryNameKeywords {
		if strings.Contains(name, kw) {
			return MaxNameBonus / 2
		}
	}
	return 0
}
