package ai

import (
	"context"

	"github.com/poiesic/formgen/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector has the fixed dimension of the underlying model.
	// Returns an error if the embedding generation fails; callers must not
	// assume any retries happen internally.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// SchemaGenerator turns a natural-language prompt into a form schema.
// Implementations must be thread-safe for concurrent use.
type SchemaGenerator interface {
	// Generate produces a form schema for the prompt. The history slice
	// carries prior forms retrieved for the same owner and may be empty.
	//
	// Generate is total: when the generative call fails or returns
	// unparsable output, implementations fall back to the deterministic
	// offline generator instead of returning an error. A non-nil error is
	// reserved for programmer mistakes (nil receiver wiring), not provider
	// failures.
	Generate(ctx context.Context, prompt string, history []core.ContextEntry) (*core.FormSchema, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder and SchemaGenerator
// instances, ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// SchemaGenerator returns the form schema generation service.
	// The returned SchemaGenerator is safe for concurrent use.
	SchemaGenerator() SchemaGenerator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
