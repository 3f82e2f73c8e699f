package models

import (
	"encoding/json"
	"errors"
)

// ChunkRecord is a document chunk row as returned by the store, projected to
// the three fields the integrity checker reads. The embedding is kept raw
// because the store may deliver it either as a JSON array or as a text column
// holding a serialized array.
type ChunkRecord struct {
	ID         string          `json:"id" db:"id"`
	Embedding  json.RawMessage `json:"embedding" db:"embedding"`
	DocumentID string          `json:"document_id" db:"document_id"`
}

// DocumentRecord is a parent document row. Only the identifier is read.
type DocumentRecord struct {
	ID string `json:"id" db:"id"`
}

// DocumentIDSet holds the fetched document identifiers for O(1) membership
// tests when resolving chunk references.
type DocumentIDSet map[string]struct{}

// Contains reports whether id is in the set.
func (s DocumentIDSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// TableReport describes the structural state of one table.
type TableReport struct {
	Table    string   `json:"table"`
	Exists   bool     `json:"exists"`
	Status   string   `json:"status"` // "success", "empty", "error"
	Columns  []string `json:"columns"`
	RowCount int64    `json:"row_count"`
	Error    string   `json:"error,omitempty"`
}

// EnumReport describes the probe result for one enumerated-type column.
type EnumReport struct {
	Enum     string   `json:"enum"`
	Table    string   `json:"table"`
	Column   string   `json:"column"`
	Verified bool     `json:"verified"`
	Labels   []string `json:"labels,omitempty"` // filled only by the deep check
	Error    string   `json:"error,omitempty"`
}

// Common errors
var ErrInvalidInput = errors.New("invalid input")
