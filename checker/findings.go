package checker

import (
	"fmt"
	"io"
	"time"
)

// FindingType classifies an integrity violation
type FindingType string

const (
	FindingMissingEmbedding    FindingType = "missing_embedding"
	FindingUnparsableEmbedding FindingType = "unparsable_embedding"
	FindingDimensionMismatch   FindingType = "dimension_mismatch"
	FindingInvalidValues       FindingType = "invalid_values"
	FindingOrphanedChunk       FindingType = "orphaned_chunk"
)

// Finding represents one integrity violation on one chunk. Findings are
// diagnostics, never errors: the scan always continues past them. They carry
// no timestamp so two runs against an unchanged store produce identical
// findings.
type Finding struct {
	Type         FindingType `json:"type"`
	ChunkID      string      `json:"chunk_id"`
	DocumentID   string      `json:"document_id,omitempty"`
	ActualLength int         `json:"actual_length,omitempty"`
	Reason       string      `json:"reason,omitempty"`
}

// String renders the finding as one human-readable diagnostic line.
func (f Finding) String() string {
	switch f.Type {
	case FindingMissingEmbedding:
		return fmt.Sprintf("Chunk %s is missing embedding!", f.ChunkID)
	case FindingUnparsableEmbedding:
		return fmt.Sprintf("Chunk %s embedding could not be parsed: %s", f.ChunkID, f.Reason)
	case FindingDimensionMismatch:
		return fmt.Sprintf("Chunk %s embedding has wrong dimension: %d", f.ChunkID, f.ActualLength)
	case FindingInvalidValues:
		return fmt.Sprintf("Chunk %s embedding has invalid values.", f.ChunkID)
	case FindingOrphanedChunk:
		return fmt.Sprintf("Chunk %s references missing document_id %s", f.ChunkID, f.DocumentID)
	default:
		return fmt.Sprintf("Chunk %s: unknown finding %s", f.ChunkID, f.Type)
	}
}

// IntegrityReport is the result of one embedding integrity pass. Findings
// are ordered by chunk fetch order and append-only.
type IntegrityReport struct {
	RunID          string              `json:"run_id"`
	CheckTime      time.Time           `json:"check_time"`
	ChunksScanned  int                 `json:"chunks_scanned"`
	DocumentsKnown int                 `json:"documents_known"`
	Findings       []Finding           `json:"findings"`
	CountsByType   map[FindingType]int `json:"counts_by_type"`
}

// append records a finding and keeps the per-type counters current.
func (r *IntegrityReport) append(f Finding) {
	r.Findings = append(r.Findings, f)
	r.CountsByType[f.Type]++
}

// WriteText writes the findings as plain diagnostic lines followed by a
// one-line summary.
func (r *IntegrityReport) WriteText(w io.Writer) {
	for _, finding := range r.Findings {
		fmt.Fprintln(w, finding.String())
	}
	fmt.Fprintf(w, "Scanned %d chunk(s) against %d document(s): %d finding(s).\n",
		r.ChunksScanned, r.DocumentsKnown, len(r.Findings))
}
