package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRecord_MergeKeyValue tests merge key extraction across value types
func TestRecord_MergeKeyValue(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		key    string
		want   string
		wantOK bool
	}{
		{name: "string id", record: Record{"id": "abc"}, key: "id", want: "abc", wantOK: true},
		{name: "float id from JSON", record: Record{"id": float64(42)}, key: "id", want: "42", wantOK: true},
		{name: "int id", record: Record{"id": 7}, key: "id", want: "7", wantOK: true},
		{name: "missing key", record: Record{"name": "x"}, key: "id", want: "", wantOK: false},
		{name: "nil value", record: Record{"id": nil}, key: "id", want: "", wantOK: false},
		{name: "empty string", record: Record{"id": ""}, key: "id", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.record.MergeKeyValue(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestFlatten tests nested structure flattening into dotted keys
func TestFlatten(t *testing.T) {
	record := Record{
		"id":    "r1",
		"stats": map[string]any{"views": float64(10), "downloads": float64(3)},
		"tags":  []any{"ml", "vision"},
		"owner": map[string]any{"name": "ada", "org": map[string]any{"id": "o1"}},
	}

	flat := Flatten(record)

	assert.Equal(t, "r1", flat["id"])
	assert.Equal(t, float64(10), flat["stats.views"])
	assert.Equal(t, float64(3), flat["stats.downloads"])
	assert.Equal(t, "ml", flat["tags.0"])
	assert.Equal(t, "vision", flat["tags.1"])
	assert.Equal(t, "ada", flat["owner.name"])
	assert.Equal(t, "o1", flat["owner.org.id"])
}

// TestFlatten_FlatRecordUnchanged tests that flattening an already
// flat record preserves every field
func TestFlatten_FlatRecordUnchanged(t *testing.T) {
	record := Record{"id": "r1", "title": "cats", "count": float64(2)}

	flat := Flatten(record)

	require.Len(t, flat, 3)
	assert.Equal(t, record["id"], flat["id"])
	assert.Equal(t, record["title"], flat["title"])
	assert.Equal(t, record["count"], flat["count"])
}

// TestQueryResult_Empty tests the empty check including nil receiver
func TestQueryResult_Empty(t *testing.T) {
	var nilResult *QueryResult
	assert.True(t, nilResult.Empty())
	assert.True(t, (&QueryResult{}).Empty())
	assert.False(t, (&QueryResult{Records: []Record{{"id": "1"}}}).Empty())
}

// TestRunState_Counters tests record and failure aggregation
func TestRunState_Counters(t *testing.T) {
	state := RunState{
		Outcomes: []CombinationOutcome{
			{Query: Query{Term: "cats"}, Records: 5},
			{Query: Query{Term: "dogs"}, Records: 0, Err: "rate limited"},
			{Query: Query{Term: "birds"}, Records: 2},
		},
	}

	assert.Equal(t, 7, state.RecordsCollected())
	assert.Equal(t, 1, state.FailureCount())
}

// TestCredentials_Token tests token field probing
func TestCredentials_Token(t *testing.T) {
	assert.Equal(t, "t1", Credentials{"token": "t1"}.Token())
	assert.Equal(t, "k1", Credentials{"api_key": "k1"}.Token())
	assert.Equal(t, "t1", Credentials{"token": "t1", "api_key": "k1"}.Token())
	assert.Empty(t, Credentials{"other": "x"}.Token())
	assert.True(t, Credentials{}.Empty())
	assert.True(t, Credentials{"token": ""}.Empty())
	assert.False(t, Credentials{"token": "x"}.Empty())
}
