package badger

import (
	"bytes"
	"context"
	"log/slog"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/formgen/core"
	"github.com/poiesic/formgen/storage"
)

// MemoryRepository implements storage.MemoryRepository for BadgerDB.
//
// Memory records are keyed by the owning form's identity and indexed by owner,
// so similarity queries only ever scan a single owner's partition.
type MemoryRepository struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.MemoryRepository = (*MemoryRepository)(nil)

// NewMemoryRepository creates a new MemoryRepository.
func NewMemoryRepository(backend *Backend) *MemoryRepository {
	return &MemoryRepository{
		backend: backend,
		logger:  slog.Default().With("component", "memory-repository"),
	}
}

// Close is a no-op; the repository holds no sequence.
func (r *MemoryRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *MemoryRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// UpsertRecords writes memory records, replacing any existing record with the
// same ID. Writing the same record twice leaves a single copy.
func (r *MemoryRepository) UpsertRecords(ctx context.Context, records ...*core.MemoryRecord) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			key := makeMemoryKey(record.Id)

			// If the record exists under a different owner, the old owner
			// index entry must not survive the overwrite.
			old, err := readMemoryRecord(tx, key)
			if err != nil {
				return err
			}
			if old != nil && old.Meta.Owner != record.Meta.Owner {
				if err := tx.Delete(makeMemoryOwnerKey(old.Meta.Owner, old.Id)); err != nil {
					return err
				}
			}

			value, err := storage.MarshalMemoryRecord(record)
			if err != nil {
				return err
			}
			if err := tx.Set(key, value); err != nil {
				return err
			}

			ownerKey := makeMemoryOwnerKey(record.Meta.Owner, record.Id)
			if err := tx.Set(ownerKey, idBytes(record.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetRecord retrieves a single memory record by ID.
func (r *MemoryRepository) GetRecord(ctx context.Context, id core.ID) (*core.MemoryRecord, error) {
	var result *core.MemoryRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readMemoryRecord(tx, makeMemoryKey(id))
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

// Query finds memory records belonging to owner that are similar to the given
// vector, up to limit results, ordered by similarity score (highest first).
//
// Records that fail to decode are skipped with a warning rather than failing
// the whole query; a single corrupt record must not take retrieval down.
func (r *MemoryRepository) Query(ctx context.Context, vector []float32, limit int, owner core.ID) ([]*core.Match, error) {
	if limit <= 0 || len(vector) == 0 {
		return nil, storage.ErrInvalidQuery
	}

	var matches []*core.Match
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialMemoryOwnerKey(owner)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(prefix); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}

			var recordID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				recordID, err = idFromBytes(val)
				return err
			}); err != nil {
				return err
			}

			item, err := tx.Get(makeMemoryKey(recordID))
			if err != nil {
				if err == badger.ErrKeyNotFound {
					continue
				}
				return err
			}

			var record *core.MemoryRecord
			if err := item.Value(func(val []byte) error {
				var unmarshalErr error
				record, unmarshalErr = storage.UnmarshalMemoryRecord(val)
				return unmarshalErr
			}); err != nil {
				r.logger.Warn("skipping undecodable memory record", "id", recordID, "err", err)
				continue
			}

			if len(record.Vector) == 0 {
				continue
			}

			matches = append(matches, &core.Match{
				Id:    record.Id,
				Score: dotProduct(vector, record.Vector),
				Meta:  record.Meta,
			})
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(matches, func(a, b *core.Match) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}

// AllRecords retrieves every memory record. Intended for offline maintenance.
func (r *MemoryRepository) AllRecords(ctx context.Context) ([]*core.MemoryRecord, error) {
	var results []*core.MemoryRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(memoryRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.MemoryRecord
			if err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				record, unmarshalErr = storage.UnmarshalMemoryRecord(val)
				return unmarshalErr
			}); err != nil {
				r.logger.Warn("skipping undecodable memory record", "key", string(iter.Item().Key()), "err", err)
				continue
			}
			results = append(results, record)
		}
		return nil
	}, false)

	return results, err
}

// DeleteRecords removes memory records by their IDs.
func (r *MemoryRepository) DeleteRecords(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeMemoryKey(id)

			record, err := readMemoryRecord(tx, key)
			if err != nil {
				return err
			}
			if record == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(makeMemoryOwnerKey(record.Meta.Owner, record.Id)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// readMemoryRecord reads a memory record from the transaction.
// Returns nil, nil if the key does not exist.
func readMemoryRecord(tx *badger.Txn, key []byte) (*core.MemoryRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.MemoryRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalMemoryRecord(val)
		return unmarshalErr
	})
	return record, err
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
