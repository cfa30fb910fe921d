package domain

// MergeRecords left-merges per-record detail metadata into search
// records, matched by the merge key. Metadata fields take precedence
// on key collision. Search records with no matching metadata pass
// through unchanged; unmatched metadata records are dropped. Merging
// with empty metadata is a no-op. Partial coverage is expected and
// never an error.
func MergeRecords(search, metadata []Record, key string) []Record {
	if len(metadata) == 0 {
		return search
	}

	byKey := make(map[string]Record, len(metadata))
	for _, meta := range metadata {
		if id, ok := meta.MergeKeyValue(key); ok {
			byKey[id] = meta
		}
	}

	merged := make([]Record, 0, len(search))
	for _, rec := range search {
		id, ok := rec.MergeKeyValue(key)
		if !ok {
			merged = append(merged, rec)
			continue
		}
		meta, ok := byKey[id]
		if !ok {
			merged = append(merged, rec)
			continue
		}

		out := rec.Clone()
		for field, value := range meta {
			out[field] = value
		}
		merged = append(merged, out)
	}

	return merged
}
