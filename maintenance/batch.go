package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/formgen/ai"
	"github.com/poiesic/formgen/core"
	"github.com/poiesic/formgen/storage"
)

// BatchProcessor regenerates embeddings for batches of memory records.
type BatchProcessor struct {
	repo           storage.MemoryRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.MemoryRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process regenerates embeddings for a batch of memory records and upserts
// them. The record's purpose is the embedded text; vectors are normalized so
// dot-product queries behave like cosine similarity.
func (bp *BatchProcessor) Process(ctx context.Context, records []*core.MemoryRecord) error {
	if len(records) == 0 {
		return nil
	}

	texts := make([]string, len(records))
	for i, record := range records {
		texts[i] = record.Meta.Purpose
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(records) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(records), len(embeddings))
	}

	for i := range records {
		records[i].Vector = ai.NormalizeVector(embeddings[i])
	}

	if err := bp.repo.UpsertRecords(ctx, records...); err != nil {
		return fmt.Errorf("failed to update records: %w", err)
	}

	return nil
}
