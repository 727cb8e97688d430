package retrieval

import (
	"context"
	"log/slog"

	"github.com/poiesic/formgen/ai"
	"github.com/poiesic/formgen/core"
	"github.com/poiesic/formgen/storage"
)

const (
	// DefaultContextSize is the number of prior forms retrieved as generation context.
	DefaultContextSize = 5
)

// Retriever fetches an owner's prior generation history as context for the
// schema generator.
type Retriever struct {
	memory      storage.MemoryRepository
	embedder    ai.Embedder
	contextSize int
	logger      *slog.Logger
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever) error

// WithContextSize sets how many prior forms are retrieved.
// Default is DefaultContextSize.
func WithContextSize(n int) RetrieverOption {
	return func(r *Retriever) error {
		if n > 0 {
			r.contextSize = n
		}
		return nil
	}
}

// WithRetrieverLogger sets a custom logger.
// Default is slog.Default().
func WithRetrieverLogger(logger *slog.Logger) RetrieverOption {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a new retriever.
func NewRetriever(memory storage.MemoryRepository, provider ai.Provider, opts ...RetrieverOption) (*Retriever, error) {
	if memory == nil {
		return nil, ErrMemoryRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	r := &Retriever{
		memory:      memory,
		embedder:    provider.Embedder(),
		contextSize: DefaultContextSize,
		logger:      slog.Default().With("component", "retriever"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Retrieve returns the owner's most similar prior forms as context entries,
// best match first.
//
// Retrieve never fails: embedding or memory-store errors are logged and an
// empty slice is returned, so generation proceeds without context rather than
// not at all.
func (r *Retriever) Retrieve(ctx context.Context, owner core.ID, prompt string) []core.ContextEntry {
	vector, err := r.embedder.EmbedText(ctx, prompt)
	if err != nil {
		r.logger.Warn("error embedding prompt, generating without context", "err", err)
		return nil
	}

	matches, err := r.memory.Query(ctx, vector, r.contextSize, owner)
	if err != nil {
		r.logger.Warn("error querying memory, generating without context", "err", err)
		return nil
	}

	entries := make([]core.ContextEntry, 0, len(matches))
	for _, match := range matches {
		entries = append(entries, core.ContextEntry{
			Purpose:    match.Meta.Purpose,
			FieldNames: match.Meta.FieldNames,
			Score:      match.Score,
		})
	}

	r.logger.Debug("retrieved generation context", "owner", owner, "entries", len(entries))
	return entries
}
