package discovery

import (
	"strings"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/models"
)

// ResolveMapping maps observed column names onto logical attributes using
// the pattern catalog. Attributes are resolved one at a time in catalog
// order, and each attribute scans its own pattern list twice: exact
// normalized equality first, then case-insensitive substring. An earlier
// attribute's substring hit therefore outranks a later attribute's exact
// hit on the same column. Within a pass, pattern order, then observed
// column order decide; a claimed column is never reused, so the result is
// injective and deterministic for a given observed sequence.
func ResolveMapping(observed []string, catalog []CatalogEntry) models.FieldMapping {
	mapping := make(models.FieldMapping)
	claimed := make(map[string]bool, len(observed))

	for _, entry := range catalog {
		col, ok := matchEntry(observed, claimed, entry)
		if !ok {
			continue
		}
		mapping[entry.Attr] = col
		claimed[col] = true
	}
	return mapping
}

func matchEntry(observed []string, claimed map[string]bool, entry CatalogEntry) (string, bool) {
	for _, pattern := range entry.Patterns {
		if col, ok := findExact(observed, claimed, pattern); ok {
			return col, true
		}
	}
	for _, pattern := range entry.Patterns {
		if col, ok := findSubstring(observed, claimed, pattern); ok {
			return col, true
		}
	}
	return "", false
}

func findExact(observed []string, claimed map[string]bool, pattern string) (string, bool) {
	want := normalize(pattern)
	for _, col := range observed {
		if !claimed[col] && normalize(col) == want {
			return col, true
		}
	}
	return "", false
}

func findSubstring(observed []string, claimed map[string]bool, pattern string) (string, bool) {
	want := normalize(pattern)
	for _, col := range observed {
		if !claimed[col] && strings.Contains(normalize(col), want) {
			return col, true
		}
	}
	return "", false
}

// normalize folds case and treats spaces and hyphens as underscores, so
// "Customer ID", "customer-id" and "customer_id" all compare equal.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// ObservedColumns collects the union of column names across a record
// sample, in first-seen order so mapping stays deterministic.
func ObservedColumns(sample []models.RawRecord) []string {
	var columns []string
	seen := make(map[string]bool)
	for _, rec := range sample {
		for _, col := range rec.Columns() {
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}
	}
	return columns
}
