package badger

import (
	"bytes"
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/formgen/core"
	"github.com/poiesic/formgen/storage"
)

// SubmissionRepository implements storage.SubmissionRepository for BadgerDB.
type SubmissionRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.SubmissionRepository = (*SubmissionRepository)(nil)

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(backend *Backend) (*SubmissionRepository, error) {
	idSeq, err := backend.GetSequence(submissionIDSeq)
	if err != nil {
		return nil, err
	}

	return &SubmissionRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *SubmissionRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *SubmissionRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddSubmissions adds one or more submissions to storage.
func (r *SubmissionRepository) AddSubmissions(ctx context.Context, submissions ...*core.Submission) ([]*core.Submission, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, submission := range submissions {
			if submission.Id == 0 {
				nextID, err := r.idSeq.Next()
				if err != nil {
					return err
				}
				// BadgerDB sequences can return 0 on first call, so we skip it
				if nextID == 0 {
					nextID, err = r.idSeq.Next()
					if err != nil {
						return err
					}
				}
				submission.Id = core.ID(nextID)
			}

			if submission.CreatedAt.IsZero() {
				submission.CreatedAt = time.Now().UTC()
			}

			value, err := storage.MarshalSubmission(submission)
			if err != nil {
				return err
			}
			if err := tx.Set(makeSubmissionKey(submission.Id), value); err != nil {
				return err
			}

			// Update form index
			formKey := makeSubmissionFormKey(submission.Form, submission.Id)
			if err := tx.Set(formKey, idBytes(submission.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return submissions, err
}

// GetSubmissionsByForm retrieves all submissions for a form, in insertion order.
func (r *SubmissionRepository) GetSubmissionsByForm(ctx context.Context, form core.ID) ([]*core.Submission, error) {
	var results []*core.Submission
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialSubmissionFormKey(form)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(prefix); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}

			var submissionID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				submissionID, err = idFromBytes(val)
				return err
			}); err != nil {
				return err
			}

			submission, err := readSubmission(tx, makeSubmissionKey(submissionID))
			if err != nil {
				return err
			}
			if submission != nil {
				results = append(results, submission)
			}
		}
		return nil
	}, false)

	return results, err
}

// DeleteSubmissions removes submissions by their IDs.
func (r *SubmissionRepository) DeleteSubmissions(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeSubmissionKey(id)

			submission, err := readSubmission(tx, key)
			if err != nil {
				return err
			}
			if submission == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(makeSubmissionFormKey(submission.Form, submission.Id)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// readSubmission reads a submission from the transaction.
// Returns nil, nil if the key does not exist.
func readSubmission(tx *badger.Txn, key []byte) (*core.Submission, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var submission *core.Submission
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		submission, unmarshalErr = storage.UnmarshalSubmission(val)
		return unmarshalErr
	})
	return submission, err
}
