// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package formgen

import (
	"io"
	"log/slog"

	"github.com/poiesic/formgen/ai"
	"github.com/poiesic/formgen/ai/openai"
	"github.com/poiesic/formgen/maintenance"
	"github.com/poiesic/formgen/pipeline"
	"github.com/poiesic/formgen/retrieval"
	"github.com/poiesic/formgen/storage"
	"github.com/poiesic/formgen/storage/badger"
)

// Database bundles the storage backend, repositories, and AI provider
// behind a single handle. It is the composition root: callers open one
// Database and derive pipelines, retrievers, and searchers from it.
type Database struct {
	backend        *badger.Backend
	formRepo       storage.FormRepository
	submissionRepo storage.SubmissionRepository
	memoryRepo     storage.MemoryRepository
	provider       ai.Provider
	logger         *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithProvider injects a pre-built AI provider, bypassing the default
// OpenAI-compatible one. Used for testing with mock providers.
func WithProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// NewDatabase opens the document store at filePath and wires up the
// repositories and AI provider.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.NewConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	formRepo, err := badger.NewFormRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	submissionRepo, err := badger.NewSubmissionRepository(backend)
	if err != nil {
		formRepo.Close()
		backend.Close()
		return nil, err
	}

	memoryRepo := badger.NewMemoryRepository(backend)

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			submissionRepo.Close()
			formRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:        backend,
		formRepo:       formRepo,
		submissionRepo: submissionRepo,
		memoryRepo:     memoryRepo,
		provider:       provider,
		logger:         slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.submissionRepo.Close(); err != nil {
		db.logger.Error("error closing submission repository", "err", err)
		return err
	}
	if err := db.formRepo.Close(); err != nil {
		db.logger.Error("error closing form repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) FormRepository() storage.FormRepository {
	return db.formRepo
}

func (db *Database) SubmissionRepository() storage.SubmissionRepository {
	return db.submissionRepo
}

func (db *Database) MemoryRepository() storage.MemoryRepository {
	return db.memoryRepo
}

func (db *Database) Backend() *badger.Backend {
	return db.backend
}

func (db *Database) Provider() ai.Provider {
	return db.provider
}

// NewRetriever creates a context retriever backed by this database.
func (db *Database) NewRetriever(opts ...retrieval.RetrieverOption) (*retrieval.Retriever, error) {
	return retrieval.NewRetriever(db.memoryRepo, db.provider, opts...)
}

// NewSearcher creates a form searcher backed by this database.
func (db *Database) NewSearcher(opts ...retrieval.SearcherOption) (*retrieval.Searcher, error) {
	return retrieval.NewSearcher(db.memoryRepo, db.formRepo, db.provider, opts...)
}

// NewPipeline creates a form generation pipeline backed by this database.
func (db *Database) NewPipeline(opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	retriever, err := db.NewRetriever()
	if err != nil {
		return nil, err
	}
	return pipeline.NewPipeline(db.formRepo, db.memoryRepo, retriever, db.provider, opts...)
}

// NewReembedder creates an offline re-embedding pass backed by this database.
func (db *Database) NewReembedder(config *maintenance.Config, progress io.Writer) *maintenance.Reembedder {
	if progress == nil {
		progress = io.Discard
	}
	return maintenance.NewReembedder(db.memoryRepo, db.provider.Embedder(), config, progress)
}

// NewPruner creates an offline orphan pruning pass backed by this database.
func (db *Database) NewPruner(config *maintenance.Config, progress io.Writer) *maintenance.Pruner {
	if progress == nil {
		progress = io.Discard
	}
	return maintenance.NewPruner(db.memoryRepo, db.formRepo, config, progress)
}
