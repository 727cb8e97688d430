package storage

import (
	"context"

	"github.com/poiesic/formgen/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// FormRepository provides operations for managing form documents.
type FormRepository interface {
	Repository
	// AddForms adds one or more forms to storage.
	// For forms with Id=0, generates new IDs from sequence.
	// Sets CreatedAt timestamp if not already set.
	// Returns the forms with generated IDs and timestamps populated.
	AddForms(ctx context.Context, forms ...*core.Form) ([]*core.Form, error)

	// GetForm retrieves a single form by ID.
	// Returns ErrNotFound if the form doesn't exist.
	GetForm(ctx context.Context, id core.ID) (*core.Form, error)

	// GetForms retrieves multiple forms by their IDs.
	// Returns only the forms that exist (no error for missing forms).
	GetForms(ctx context.Context, ids ...core.ID) ([]*core.Form, error)

	// GetFormsByOwner retrieves all forms belonging to an owner, most recent
	// first.
	GetFormsByOwner(ctx context.Context, owner core.ID) ([]*core.Form, error)

	// DeleteForms removes forms by their IDs.
	// Also removes associated owner indices.
	// Returns ErrNotFound if any form doesn't exist.
	DeleteForms(ctx context.Context, ids ...core.ID) error
}

// SubmissionRepository provides operations for managing form submissions.
type SubmissionRepository interface {
	Repository
	// AddSubmissions adds one or more submissions to storage.
	// For submissions with Id=0, generates new IDs from sequence.
	// Sets CreatedAt timestamp if not already set.
	// Returns the submissions with generated IDs and timestamps populated.
	AddSubmissions(ctx context.Context, submissions ...*core.Submission) ([]*core.Submission, error)

	// GetSubmissionsByForm retrieves all submissions for a form, in insertion
	// order.
	GetSubmissionsByForm(ctx context.Context, form core.ID) ([]*core.Submission, error)

	// DeleteSubmissions removes submissions by their IDs.
	// Returns ErrNotFound if any submission doesn't exist.
	DeleteSubmissions(ctx context.Context, ids ...core.ID) error
}

// MemoryRepository provides operations for the vector memory index.
type MemoryRepository interface {
	Repository
	// UpsertRecords writes memory records, replacing any existing record with
	// the same ID. Upserts are idempotent: writing the same record twice
	// leaves a single copy.
	UpsertRecords(ctx context.Context, records ...*core.MemoryRecord) error

	// GetRecord retrieves a single memory record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetRecord(ctx context.Context, id core.ID) (*core.MemoryRecord, error)

	// Query finds memory records belonging to owner that are similar to the
	// given vector, up to limit results, ordered by similarity score
	// (highest first). Records for other owners are never returned.
	Query(ctx context.Context, vector []float32, limit int, owner core.ID) ([]*core.Match, error)

	// AllRecords retrieves every memory record. Intended for offline
	// maintenance passes, not serving paths.
	AllRecords(ctx context.Context) ([]*core.MemoryRecord, error)

	// DeleteRecords removes memory records by their IDs.
	// Returns ErrNotFound if any record doesn't exist.
	DeleteRecords(ctx context.Context, ids ...core.ID) error
}
