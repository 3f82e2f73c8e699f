package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmbeddingMissing(t *testing.T) {
	tests := []struct {
		name    string
		raw     json.RawMessage
		missing bool
	}{
		{name: "nil raw value", raw: nil, missing: true},
		{name: "json null", raw: json.RawMessage(`null`), missing: true},
		{name: "whitespace only", raw: json.RawMessage("  "), missing: true},
		{name: "structured array", raw: json.RawMessage(`[0.1, 0.2]`), missing: false},
		{name: "string value", raw: json.RawMessage(`"[0.1, 0.2]"`), missing: false},
		{name: "empty array", raw: json.RawMessage(`[]`), missing: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.missing, IsEmbeddingMissing(tt.raw))
		})
	}
}

func TestParseEmbedding_StructuredArray(t *testing.T) {
	vec, err := ParseEmbedding(json.RawMessage(`[0.1, 0.2, 0.3]`))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vec)
}

func TestParseEmbedding_TextSerializedArray(t *testing.T) {
	vec, err := ParseEmbedding(json.RawMessage(`"[0.1, 0.2, 0.3]"`))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vec)
}

func TestParseEmbedding_EmptyTextArray(t *testing.T) {
	vec, err := ParseEmbedding(json.RawMessage(`"[]"`))
	require.NoError(t, err)
	assert.Empty(t, vec)
}

func TestParseEmbedding_NaNTokenInText(t *testing.T) {
	// Serialized vectors from the source system may carry Python-style NaN
	// tokens. Those must parse into NaN elements, not crash the scan.
	vec, err := ParseEmbedding(json.RawMessage(`"[1.0, NaN]"`))
	require.NoError(t, err)
	require.Len(t, vec, 2)
	assert.Equal(t, 1.0, vec[0])
	assert.True(t, math.IsNaN(vec[1]))
}

func TestParseEmbedding_InfinityTokenInText(t *testing.T) {
	vec, err := ParseEmbedding(json.RawMessage(`"[Infinity, -Inf]"`))
	require.NoError(t, err)
	require.Len(t, vec, 2)
	assert.True(t, math.IsInf(vec[0], 1))
	assert.True(t, math.IsInf(vec[1], -1))
}

func TestParseEmbedding_NonNumericElementsBecomeNaN(t *testing.T) {
	vec, err := ParseEmbedding(json.RawMessage(`[0.5, "abc", true, null]`))
	require.NoError(t, err)
	require.Len(t, vec, 4)
	assert.Equal(t, 0.5, vec[0])
	assert.True(t, math.IsNaN(vec[1]))
	assert.True(t, math.IsNaN(vec[2]))
	assert.True(t, math.IsNaN(vec[3]))
}

func TestParseEmbedding_NumericStringsInArray(t *testing.T) {
	vec, err := ParseEmbedding(json.RawMessage(`["0.1", "0.2"]`))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2}, vec)
}

func TestParseEmbedding_NotASequence(t *testing.T) {
	tests := []struct {
		name string
		raw  json.RawMessage
	}{
		{name: "json object", raw: json.RawMessage(`{"values": [1, 2]}`)},
		{name: "bare number", raw: json.RawMessage(`42`)},
		{name: "boolean", raw: json.RawMessage(`true`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vec, err := ParseEmbedding(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotSequence)
			assert.Nil(t, vec)
		})
	}
}

func TestParseEmbedding_UnparsableText(t *testing.T) {
	tests := []struct {
		name string
		raw  json.RawMessage
	}{
		{name: "text without brackets", raw: json.RawMessage(`"0.1, 0.2"`)},
		{name: "garbage text", raw: json.RawMessage(`"not a vector"`)},
		{name: "invalid json", raw: json.RawMessage(`[0.1,`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vec, err := ParseEmbedding(tt.raw)
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrNotSequence)
			assert.Nil(t, vec)
		})
	}
}

func TestDocumentIDSet_Contains(t *testing.T) {
	set := DocumentIDSet{"doc-1": {}, "doc-2": {}}

	assert.True(t, set.Contains("doc-1"))
	assert.False(t, set.Contains("doc-999"))
}
