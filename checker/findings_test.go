package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFinding_String(t *testing.T) {
	tests := []struct {
		name     string
		finding  Finding
		expected string
	}{
		{
			name:     "missing embedding",
			finding:  Finding{Type: FindingMissingEmbedding, ChunkID: "chunk-1"},
			expected: "Chunk chunk-1 is missing embedding!",
		},
		{
			name:     "unparsable embedding",
			finding:  Finding{Type: FindingUnparsableEmbedding, ChunkID: "chunk-2", Reason: "not a bracketed list"},
			expected: "Chunk chunk-2 embedding could not be parsed: not a bracketed list",
		},
		{
			name:     "dimension mismatch",
			finding:  Finding{Type: FindingDimensionMismatch, ChunkID: "chunk-3", ActualLength: 2},
			expected: "Chunk chunk-3 embedding has wrong dimension: 2",
		},
		{
			name:     "invalid values",
			finding:  Finding{Type: FindingInvalidValues, ChunkID: "chunk-4"},
			expected: "Chunk chunk-4 embedding has invalid values.",
		},
		{
			name:     "orphaned chunk",
			finding:  Finding{Type: FindingOrphanedChunk, ChunkID: "chunk-5", DocumentID: "doc-999"},
			expected: "Chunk chunk-5 references missing document_id doc-999",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.finding.String())
		})
	}
}
