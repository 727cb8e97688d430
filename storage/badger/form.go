package badger

import (
	"bytes"
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/formgen/core"
	"github.com/poiesic/formgen/storage"
)

// FormRepository implements storage.FormRepository for BadgerDB.
type FormRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.FormRepository = (*FormRepository)(nil)

// NewFormRepository creates a new FormRepository.
func NewFormRepository(backend *Backend) (*FormRepository, error) {
	idSeq, err := backend.GetSequence(formIDSeq)
	if err != nil {
		return nil, err
	}

	return &FormRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *FormRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *FormRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddForms adds one or more forms to storage.
func (r *FormRepository) AddForms(ctx context.Context, forms ...*core.Form) ([]*core.Form, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, form := range forms {
			if form.Id == 0 {
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
				form.Id = core.ID(nextID)
			}

			if form.CreatedAt.IsZero() {
				form.CreatedAt = time.Now().UTC()
			}

			// Store primary record
			value, err := storage.MarshalForm(form)
			if err != nil {
				return err
			}
			if err := tx.Set(makeFormKey(form.Id), value); err != nil {
				return err
			}

			// Update owner index
			ownerKey := makeFormOwnerKey(form.Owner, form.Id)
			if err := tx.Set(ownerKey, idBytes(form.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return forms, err
}

// GetForm retrieves a single form by ID.
func (r *FormRepository) GetForm(ctx context.Context, id core.ID) (*core.Form, error) {
	var result *core.Form
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readForm(tx, makeFormKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetForms retrieves multiple forms by their IDs.
// Missing forms are skipped without error.
func (r *FormRepository) GetForms(ctx context.Context, ids ...core.ID) ([]*core.Form, error) {
	var result []*core.Form
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			form, err := readForm(tx, makeFormKey(id))
			if err != nil {
				return err
			}
			if form != nil {
				result = append(result, form)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetFormsByOwner retrieves all forms belonging to an owner, most recent first.
func (r *FormRepository) GetFormsByOwner(ctx context.Context, owner core.ID) ([]*core.Form, error) {
	var results []*core.Form
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Form IDs are sequence-assigned, so reverse iteration over the owner
		// index yields newest forms first.
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := makePartialFormOwnerKey(owner)
		// Seek past the last possible key for this owner.
		startKey := makeFormOwnerKey(owner, core.ID(^uint64(0)))

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}

			var formID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				formID, err = idFromBytes(val)
				return err
			}); err != nil {
				return err
			}

			form, err := readForm(tx, makeFormKey(formID))
			if err != nil {
				return err
			}
			if form != nil {
				results = append(results, form)
			}
		}
		return nil
	}, false)

	return results, err
}

// DeleteForms removes forms by their IDs.
func (r *FormRepository) DeleteForms(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeFormKey(id)

			// Read record to get the owner for index cleanup
			form, err := readForm(tx, key)
			if err != nil {
				return err
			}
			if form == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(makeFormOwnerKey(form.Owner, form.Id)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// readForm reads a form from the transaction.
// Returns nil, nil if the key does not exist.
func readForm(tx *badger.Txn, key []byte) (*core.Form, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var form *core.Form
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		form, unmarshalErr = storage.UnmarshalForm(val)
		return unmarshalErr
	})
	return form, err
}
