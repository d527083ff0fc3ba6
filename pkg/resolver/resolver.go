// Package resolver finds a single customer record by key using a strict
// strategy ladder: exact email, exact customer_id, then a broad substring
// scan over all mapped columns.
package resolver

import (
	"fmt"
	"strings"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/apperrors"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/models"
)

// Resolve runs the strategy ladder in order and stops at the first strategy
// that yields exactly one record. The exact strategies fall through on
// multiple hits (duplicate rows); only the broad scan refuses to guess and
// fails with ErrAmbiguousMatch.
func Resolve(records []models.RawRecord, mapping models.FieldMapping, key string) (models.RawRecord, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("empty customer key: %w", apperrors.ErrCustomerNotFound)
	}

	if col, ok := mapping.Column(models.AttrEmail); ok {
		if rec, ok := exactMatch(records, col, key, true); ok {
			return rec, nil
		}
	}
	if col, ok := mapping.Column(models.AttrCustomerID); ok {
		if rec, ok := exactMatch(records, col, key, false); ok {
			return rec, nil
		}
	}

	return broadScan(records, mapping, key)
}

// exactMatch returns the record whose cell equals key, only when the match
// is unique. Computed wrappers are unwrapped by StringValue; unwrap failure
// reads as empty and never matches.
func exactMatch(records []models.RawRecord, column, key string, foldCase bool) (models.RawRecord, bool) {
	want := key
	if foldCase {
		want = strings.ToLower(key)
	}

	var hit models.RawRecord
	hits := 0
	for _, rec := range records {
		got := strings.TrimSpace(rec.StringValue(column))
		if foldCase {
			got = strings.ToLower(got)
		}
		if got != "" && got == want {
			hit = rec
			if hits++; hits > 1 {
				return nil, false
			}
		}
	}
	return hit, hits == 1
}

// broadScan matches key as a case-folded substring of any mapped column.
func broadScan(records []models.RawRecord, mapping models.FieldMapping, key string) (models.RawRecord, error) {
	want := strings.ToLower(key)

	var hit models.RawRecord
	hits := 0
	for _, rec := range records {
		if recordContains(rec, mapping, want) {
			hit = rec
			hits++
		}
	}

	switch hits {
	case 1:
		return hit, nil
	case 0:
		return nil, fmt.Errorf("no record matches %q: %w", key, apperrors.ErrCustomerNotFound)
	default:
		return nil, fmt.Errorf("%d records match %q: %w", hits, key, apperrors.ErrAmbiguousMatch)
	}
}

func recordContains(rec models.RawRecord, mapping models.FieldMapping, want string) bool {
	for _, col := range mapping {
		val := rec.StringValue(col)
		if val != "" && strings.Contains(strings.ToLower(val), want) {
			return true
		}
	}
	return false
}
