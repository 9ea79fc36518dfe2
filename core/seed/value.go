package seed

import (
	"strconv"
	"time"
)

// Snapshot files come straight from a mongoexport dump: unique identifiers
// and timestamps are encoded as single-key tagged mappings.
const (
	oidKey        = "$oid"
	dateKey       = "$date"
	numberLongKey = "$numberLong"
)

// NormalizeValue unwraps export-encoded values anywhere in v:
//   {"$oid": "<hex>"}           -> "<hex>"
//   {"$date": "<RFC3339>"}      -> time.Time (UTC)
//   {"$date": {"$numberLong": "<ms>"}} -> time.Time (UTC)
// Everything else is preserved structurally. A mapping carrying a wrapper
// key alongside sibling keys is NOT unwrapped; it is recursed field-by-field
// like any other mapping, so hand-edited snapshots never lose data silently.
// Normalizing an already-clean value returns it unchanged.
func NormalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		if len(val) == 1 {
			if oid, ok := val[oidKey].(string); ok {
				return oid
			}
			if raw, ok := val[dateKey]; ok {
				if t, ok := parseDate(raw); ok {
					return t
				}
			}
		}
		m := make(map[string]interface{}, len(val))
		for k, elem := range val {
			m[k] = NormalizeValue(elem)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(val))
		for i, elem := range val {
			s[i] = NormalizeValue(elem)
		}
		return s
	default:
		return v
	}
}

// NormalizeRecord applies NormalizeValue to every field of rec.
func NormalizeRecord(rec Record) Record {
	m := make(Record, len(rec))
	for k, v := range rec {
		m[k] = NormalizeValue(v)
	}
	return m
}

func parseDate(v interface{}) (time.Time, bool) {
	switch raw := v.(type) {
	case string:
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			return t.UTC(), true
		}
	case map[string]interface{}:
		if len(raw) == 1 {
			if ms, ok := raw[numberLongKey].(string); ok {
				if n, err := strconv.ParseInt(ms, 10, 64); err == nil {
					return time.Unix(0, n*int64(time.Millisecond)).UTC(), true
				}
			}
		}
	case float64: // {"$date": 1704067200000}
		return time.Unix(0, int64(raw)*int64(time.Millisecond)).UTC(), true
	}
	return time.Time{}, false
}
