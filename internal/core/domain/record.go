package domain

import (
	"fmt"
	"strconv"
)

// Record is one raw metadata record as returned by a repository API.
// Values are JSON-compatible (strings, numbers, booleans, nested maps
// and slices).
type Record map[string]any

// Clone returns a shallow copy of the record. Nested values are
// shared; collectors treat records as append-only after creation.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// MergeKeyValue returns the record's value for the given merge key as
// a comparable string. Numeric JSON values are normalised so that an
// id decoded as float64 matches the same id decoded as a string.
func (r Record) MergeKeyValue(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, val != ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	default:
		return fmt.Sprintf("%v", val), true
	}
}

// QueryResult holds the ordered records collected for one combination.
// The sequence is finite and not restartable; a fresh search re-queries
// from scratch.
type QueryResult struct {
	// Query is the combination these records belong to.
	Query Query

	// Records is the ordered aggregation across all pages.
	Records []Record

	// Pages is the number of pages fetched to assemble the result.
	Pages int
}

// Empty reports whether the result carries no records.
func (qr *QueryResult) Empty() bool {
	return qr == nil || len(qr.Records) == 0
}

// Flatten converts a nested record into a flat mapping with dotted
// keys. Slices are indexed numerically. Scalar values pass through
// unchanged.
func Flatten(record Record) Record {
	out := make(Record)
	flattenInto(out, "", record)
	return out
}

func flattenInto(out Record, prefix string, v any) {
	switch val := v.(type) {
	case Record:
		flattenInto(out, prefix, map[string]any(val))
	case map[string]any:
		for k, child := range val {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flattenInto(out, key, child)
		}
	case []any:
		for i, child := range val {
			key := strconv.Itoa(i)
			if prefix != "" {
				key = prefix + "." + key
			}
			flattenInto(out, key, child)
		}
	default:
		if prefix == "" {
			return
		}
		out[prefix] = v
	}
}
