package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNotSequence is returned by ParseEmbedding when the stored value parses
// cleanly but is not an ordered sequence (e.g. a JSON object or bare number).
var ErrNotSequence = errors.New("embedding is not a sequence")

// IsEmbeddingMissing reports whether the raw embedding column value is absent.
func IsEmbeddingMissing(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}

// ParseEmbedding normalizes a raw embedding column value into a numeric
// vector. The store is inconsistent about representation: the column may be
// delivered as a JSON array of numbers, or as a text column holding a
// serialized array (pgvector renders as text through the REST API). Both
// forms are accepted.
//
// Elements that cannot be read as numbers are mapped to NaN rather than
// failing the parse, so the value check reports them instead of the scan
// crashing. A value that cannot be normalized into any sequence returns an
// error; a parsed non-sequence returns ErrNotSequence.
func ParseEmbedding(raw json.RawMessage) ([]float64, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, fmt.Errorf("embedding value is null: %w", ErrNotSequence)
	}

	// Text form: a JSON string wrapping a serialized array.
	if strings.HasPrefix(trimmed, `"`) {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, fmt.Errorf("invalid embedding string: %w", err)
		}
		return parseVectorText(text)
	}

	// Structured form: a JSON array.
	var elements []interface{}
	if err := json.Unmarshal(raw, &elements); err == nil {
		vec := make([]float64, len(elements))
		for i, el := range elements {
			vec[i] = coerceElement(el)
		}
		return vec, nil
	}

	// Valid JSON but not an array: report the shape, not a parse failure.
	var value interface{}
	if err := json.Unmarshal(raw, &value); err == nil {
		return nil, fmt.Errorf("got %T: %w", value, ErrNotSequence)
	}

	return nil, fmt.Errorf("embedding is not valid JSON: %s", truncate(trimmed, 40))
}

// parseVectorText parses a bracketed, comma-separated vector literal. This is
// deliberately more permissive than encoding/json: serialized vectors from the
// source system may carry NaN and Infinity tokens, which strconv accepts.
func parseVectorText(text string) ([]float64, error) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return nil, fmt.Errorf("embedding text is not a bracketed list: %s", truncate(trimmed, 40))
	}

	inner := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	if inner == "" {
		return []float64{}, nil
	}

	tokens := strings.Split(inner, ",")
	vec := make([]float64, len(tokens))
	for i, token := range tokens {
		value, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
		if err != nil {
			vec[i] = math.NaN()
			continue
		}
		vec[i] = value
	}
	return vec, nil
}

// coerceElement converts a decoded JSON array element to float64, mapping
// anything non-numeric to NaN.
func coerceElement(el interface{}) float64 {
	switch v := el.(type) {
	case float64:
		return v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
