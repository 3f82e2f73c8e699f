package checker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"migration-integrity-checker/clients"
	"migration-integrity-checker/config"
	"migration-integrity-checker/logging"
	"migration-integrity-checker/models"
)

// IntegrityChecker validates a bounded sample of chunk embeddings and their
// parent-document references. It only reads from the store: violations are
// reported as findings, never repaired.
type IntegrityChecker struct {
	reader clients.ChunkReader
	cfg    config.CheckerConfig
	logger logging.Logger
}

// NewIntegrityChecker creates a new integrity checker
func NewIntegrityChecker(reader clients.ChunkReader, cfg config.CheckerConfig, logger logging.Logger) *IntegrityChecker {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &IntegrityChecker{
		reader: reader,
		cfg:    cfg,
		logger: logger,
	}
}

// Run performs one full integrity pass: one fetch for chunks, one fetch for
// document identifiers, then a sequential scan over the sample. A failed
// fetch aborts the run with the originating error; per-chunk violations are
// accumulated as findings and the scan continues.
func (ic *IntegrityChecker) Run(ctx context.Context) (*IntegrityReport, error) {
	ic.logger.Info("fetching chunk sample", logging.Int("limit", ic.cfg.SampleLimit))
	chunks, err := ic.reader.FetchChunks(ctx, ic.cfg.SampleLimit)
	if err != nil {
		return nil, fmt.Errorf("integrity check aborted: %w", err)
	}

	ic.logger.Info("fetching document identifiers")
	docIDs, err := ic.reader.FetchDocumentIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("integrity check aborted: %w", err)
	}

	report := &IntegrityReport{
		RunID:          uuid.New().String(),
		CheckTime:      time.Now(),
		ChunksScanned:  len(chunks),
		DocumentsKnown: len(docIDs),
		CountsByType:   make(map[FindingType]int),
	}

	for _, chunk := range chunks {
		for _, finding := range ic.evaluateChunk(chunk, docIDs) {
			report.append(finding)
		}
	}

	ic.logger.Info("integrity pass complete",
		logging.Int("chunks", report.ChunksScanned),
		logging.Int("findings", len(report.Findings)))

	return report, nil
}

// evaluateChunk applies the fixed decision sequence to one chunk and returns
// its findings in check order:
//
//  1. missing embedding stops further checks for the chunk
//  2. an unparsable embedding stops further checks for the chunk
//  3. dimension and value checks can both fire on the same chunk
//  4. the document reference must resolve within the fetched set
func (ic *IntegrityChecker) evaluateChunk(chunk models.ChunkRecord, docIDs models.DocumentIDSet) []Finding {
	var findings []Finding

	if models.IsEmbeddingMissing(chunk.Embedding) {
		return append(findings, Finding{Type: FindingMissingEmbedding, ChunkID: chunk.ID})
	}

	vec, err := models.ParseEmbedding(chunk.Embedding)
	if err != nil && !errors.Is(err, models.ErrNotSequence) {
		return append(findings, Finding{
			Type:    FindingUnparsableEmbedding,
			ChunkID: chunk.ID,
			Reason:  err.Error(),
		})
	}

	if err != nil || len(vec) != ic.cfg.ExpectedDimension {
		findings = append(findings, Finding{
			Type:         FindingDimensionMismatch,
			ChunkID:      chunk.ID,
			ActualLength: len(vec),
		})
	}

	if hasInvalidValues(vec, ic.cfg.MaxMagnitude) {
		findings = append(findings, Finding{Type: FindingInvalidValues, ChunkID: chunk.ID})
	}

	if !docIDs.Contains(chunk.DocumentID) {
		findings = append(findings, Finding{
			Type:       FindingOrphanedChunk,
			ChunkID:    chunk.ID,
			DocumentID: chunk.DocumentID,
		})
	}

	return findings
}

// hasInvalidValues reports whether any element is NaN, infinite, or exceeds
// the magnitude bound. Non-numeric source elements arrive here as NaN.
func hasInvalidValues(vec []float64, maxMagnitude float64) bool {
	for _, v := range vec {
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > maxMagnitude {
			return true
		}
	}
	return false
}
