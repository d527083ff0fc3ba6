package models

import (
	"sort"
	"strconv"
)

// RawRecord is a single row fetched from a remote table before any schema
// interpretation. Keys are raw column names as the provider reports them;
// values are untyped JSON-ish scalars, or {"value": x} wrapper objects for
// computed columns (Airtable formula/rollup fields arrive in that shape).
type RawRecord map[string]any

// Unwrap resolves a raw cell value to its underlying scalar. Computed
// wrappers ({"value": x}) are unwrapped one level; a wrapper without a
// usable value is treated as null, not an error.
func Unwrap(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	inner, ok := m["value"]
	if !ok {
		return nil
	}
	return inner
}

// StringValue returns the cell under the given raw column as a string.
// Non-string scalars are formatted; null and unusable values yield "".
func (r RawRecord) StringValue(column string) string {
	v := Unwrap(r[column])
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

// NumberValue returns the cell under the given raw column as a float64.
// Numeric strings are parsed; anything else yields (0, false).
func (r RawRecord) NumberValue(column string) (float64, bool) {
	v := Unwrap(r[column])
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Columns returns the raw column names present in this record, sorted so
// downstream mapping stays deterministic regardless of map iteration order.
func (r RawRecord) Columns() []string {
	cols := make([]string, 0, len(r))
	for k := range r {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}
