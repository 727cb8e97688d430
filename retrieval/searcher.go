package retrieval

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/formgen/ai"
	"github.com/poiesic/formgen/core"
	"github.com/poiesic/formgen/storage"
)

// DefaultMaxHits is the number of forms returned by a search.
const DefaultMaxHits = 10

// Searcher finds an owner's existing forms by semantic similarity to a query.
type Searcher struct {
	memory   storage.MemoryRepository
	forms    storage.FormRepository
	embedder ai.Embedder
	maxHits  int
	logger   *slog.Logger
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher) error

// WithMaxHits sets the maximum number of search results.
// Default is DefaultMaxHits.
func WithMaxHits(n int) SearcherOption {
	return func(s *Searcher) error {
		if n > 0 {
			s.maxHits = n
		}
		return nil
	}
}

// WithSearcherLogger sets a custom logger.
// Default is slog.Default().
func WithSearcherLogger(logger *slog.Logger) SearcherOption {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(memory storage.MemoryRepository, forms storage.FormRepository, provider ai.Provider, opts ...SearcherOption) (*Searcher, error) {
	if memory == nil {
		return nil, ErrMemoryRepositoryRequired
	}
	if forms == nil {
		return nil, ErrFormRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		memory:   memory,
		forms:    forms,
		embedder: provider.Embedder(),
		maxHits:  DefaultMaxHits,
		logger:   slog.Default().With("component", "searcher"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search returns the owner's forms ranked by similarity to the query,
// best match first.
//
// Embedding and memory-store failures degrade to an empty result set; only
// document-store failures surface as errors. Memory records whose form has
// since been deleted, or whose form turns out to belong to another owner, are
// dropped from the results.
func (s *Searcher) Search(ctx context.Context, owner core.ID, query string) ([]*core.Form, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Warn("error embedding query, returning no results", "err", err)
		return []*core.Form{}, nil
	}

	matches, err := s.memory.Query(ctx, vector, s.maxHits, owner)
	if err != nil {
		s.logger.Warn("error querying memory, returning no results", "err", err)
		return []*core.Form{}, nil
	}
	if len(matches) == 0 {
		return []*core.Form{}, nil
	}

	ids := make([]core.ID, 0, len(matches))
	for _, match := range matches {
		ids = append(ids, match.Id)
	}

	// Missing forms are silently skipped by GetForms; a memory record can
	// outlive its form.
	forms, err := s.forms.GetForms(ctx, ids...)
	if err != nil {
		s.logger.Error("error retrieving forms", "formCount", len(ids), "err", err)
		return nil, err
	}

	byID := make(map[core.ID]*core.Form, len(forms))
	for _, form := range forms {
		// The memory index is the only thing that claimed this form for the
		// owner; the document is authoritative.
		if form.Owner != owner {
			s.logger.Warn("dropping cross-owner match", "form", form.Id)
			continue
		}
		byID[form.Id] = form
	}

	// Matches arrive ordered by similarity score; the join preserves that
	// order.
	results := make([]*core.Form, 0, len(byID))
	for _, match := range matches {
		if form, ok := byID[match.Id]; ok {
			results = append(results, form)
		}
	}

	return results, nil
}
