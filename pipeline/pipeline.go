package pipeline

import (
	"context"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/formgen/ai"
	"github.com/poiesic/formgen/core"
	"github.com/poiesic/formgen/retrieval"
	"github.com/poiesic/formgen/storage"
)

const (
	// defaultTitle names a persisted form whose schema carries no title.
	defaultTitle = "Untitled Form"

	// defaultMemoryTitle is the shorter default used in memory metadata.
	defaultMemoryTitle = "Untitled"
)

// Pipeline orchestrates form generation: prompt validation, context
// retrieval, schema generation, document persistence, and the asynchronous
// memory write.
type Pipeline struct {
	forms     storage.FormRepository
	memory    storage.MemoryRepository
	retriever *retrieval.Retriever
	generator ai.SchemaGenerator
	embedder  ai.Embedder
	pool      *ants.Pool
	monitor   Monitor
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for asynchronous memory writes.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithMonitor sets a monitor receiving pipeline callbacks, including the
// outcomes of asynchronous memory writes.
// Default is a no-op monitor.
func WithMonitor(monitor Monitor) Option {
	return func(p *Pipeline) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		p.monitor = monitor
		return nil
	}
}

// NewPipeline creates a new generation pipeline.
func NewPipeline(
	forms storage.FormRepository,
	memory storage.MemoryRepository,
	retriever *retrieval.Retriever,
	provider ai.Provider,
	opts ...Option,
) (*Pipeline, error) {
	if forms == nil {
		return nil, ErrFormRepositoryRequired
	}
	if memory == nil {
		return nil, ErrMemoryRepositoryRequired
	}
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		forms:     forms,
		memory:    memory,
		retriever: retriever,
		generator: provider.SchemaGenerator(),
		embedder:  provider.Embedder(),
		pool:      pool,
		monitor:   &noopMonitor{},
		logger:    slog.Default().With("component", "pipeline"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Generate runs the full generation flow for a prompt and returns the
// persisted form.
//
// Retrieval and schema-generation failures degrade (empty context, fallback
// schema); only a document-store write failure is returned as an error. The
// memory write runs on the worker pool after the form is persisted and its
// outcome is reported to the monitor, never to the caller.
func (p *Pipeline) Generate(ctx context.Context, owner core.ID, prompt string) (*core.Form, error) {
	if err := core.ValidatePrompt(prompt); err != nil {
		return nil, err
	}
	prompt = strings.TrimSpace(prompt)

	p.monitor.Started(owner, prompt)

	history := p.retriever.Retrieve(ctx, owner, prompt)
	p.monitor.ContextRetrieved(history)

	schema, err := p.generator.Generate(ctx, prompt, history)
	if err != nil || schema == nil {
		// The generator contract is total; a miswired generator still must
		// not block form creation.
		p.logger.Warn("schema generator returned error, using fallback schema", "err", err)
		schema = ai.Fallback(prompt)
	}
	p.monitor.SchemaGenerated(schema)

	title := schema.Title
	if title == "" {
		title = defaultTitle
	}

	form := &core.Form{
		Owner:       owner,
		Title:       title,
		Description: schema.Description,
		Purpose:     prompt,
		Schema:      *schema,
		Keywords:    strings.Fields(prompt),
		CreatedAt:   time.Now().UTC(),
	}

	if _, err := p.forms.AddForms(ctx, form); err != nil {
		p.logger.Error("error persisting form", "owner", owner, "err", err)
		return nil, err
	}
	p.monitor.FormPersisted(form)

	p.submitMemoryWrite(form)

	return form, nil
}

// submitMemoryWrite queues the best-effort memory write for a persisted form.
// A full or released pool drops the write; the form is already durable.
func (p *Pipeline) submitMemoryWrite(form *core.Form) {
	if err := p.pool.Submit(func() { p.writeMemory(form) }); err != nil {
		p.logger.Warn("memory write not scheduled", "form", form.Id, "err", err)
		p.monitor.MemoryWriteFailed(form.Id, err)
	}
}

// writeMemory embeds the form's purpose and upserts its memory record.
// Runs detached from the request, so it carries its own context.
func (p *Pipeline) writeMemory(form *core.Form) {
	ctx := context.Background()

	vector, err := p.embedder.EmbedText(ctx, form.Purpose)
	if err != nil {
		p.logger.Warn("error embedding form purpose", "form", form.Id, "err", err)
		p.monitor.MemoryWriteFailed(form.Id, err)
		return
	}

	// Re-embedding maintenance stores unit vectors; fresh writes must rank
	// on the same dot-product scale.
	vector = ai.NormalizeVector(vector)

	title := form.Schema.Title
	if title == "" {
		title = defaultMemoryTitle
	}

	record := &core.MemoryRecord{
		Id:     form.Id,
		Vector: vector,
		Meta: core.MemoryMetadata{
			Owner:      form.Owner,
			Purpose:    form.Purpose,
			Title:      title,
			FieldNames: form.Schema.FieldNames(),
			CreatedAt:  form.CreatedAt,
		},
	}

	if err := p.memory.UpsertRecords(ctx, record); err != nil {
		p.logger.Warn("error writing memory record", "form", form.Id, "err", err)
		p.monitor.MemoryWriteFailed(form.Id, err)
		return
	}

	p.monitor.MemoryWritten(form.Id)
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
