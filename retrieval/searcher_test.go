package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/formgen/core"
	"github.com/poiesic/formgen/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingForms wraps a FormRepository and fails every bulk read.
type failingForms struct {
	storage.FormRepository
}

func (f *failingForms) GetForms(ctx context.Context, ids ...core.ID) ([]*core.Form, error) {
	return nil, errors.New("document store unavailable")
}

func addFormWithMemory(t *testing.T, forms storage.FormRepository, memory storage.MemoryRepository, owner core.ID, purpose string, vector []float32) *core.Form {
	t.Helper()
	ctx := context.Background()

	form := &core.Form{
		Owner:   owner,
		Title:   purpose,
		Purpose: purpose,
		Schema: core.FormSchema{
			Fields: []core.Field{{Name: "name", Type: core.FieldTypeText}},
		},
	}
	_, err := forms.AddForms(ctx, form)
	require.NoError(t, err)

	require.NoError(t, memory.UpsertRecords(ctx, &core.MemoryRecord{
		Id:     form.Id,
		Vector: vector,
		Meta: core.MemoryMetadata{
			Owner:      owner,
			Purpose:    purpose,
			FieldNames: core.FieldNameList{"name"},
		},
	}))

	return form
}

func TestSearcher_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("RankedResults", func(t *testing.T) {
		forms, memory, provider := newRetrievalFixture(t)
		fixedVectorEmbedder(provider, []float32{1, 0})

		addFormWithMemory(t, forms, memory, 7, "weekly report intake", []float32{0.4, 0})
		addFormWithMemory(t, forms, memory, 7, "incident report", []float32{0.9, 0})

		searcher, err := NewSearcher(memory, forms, provider)
		require.NoError(t, err)

		results, err := searcher.Search(ctx, 7, "anything at all")
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "incident report", results[0].Purpose)
		assert.Equal(t, "weekly report intake", results[1].Purpose)
	})

	t.Run("OrderedByScoreAlone", func(t *testing.T) {
		forms, memory, provider := newRetrievalFixture(t)
		fixedVectorEmbedder(provider, []float32{1, 0})

		// The middle-scored form's purpose is the query text word for word.
		// Keyword overlap must not move it past the higher-similarity match.
		a := addFormWithMemory(t, forms, memory, 7, "event registration", []float32{0.9, 0})
		b := addFormWithMemory(t, forms, memory, 7, "volunteer signup sheet", []float32{0.8, 0})
		c := addFormWithMemory(t, forms, memory, 7, "catering order", []float32{0.7, 0})

		searcher, err := NewSearcher(memory, forms, provider)
		require.NoError(t, err)

		results, err := searcher.Search(ctx, 7, "volunteer signup sheet")
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, a.Id, results[0].Id)
		assert.Equal(t, b.Id, results[1].Id)
		assert.Equal(t, c.Id, results[2].Id)
	})

	t.Run("DropsDeletedForms", func(t *testing.T) {
		forms, memory, provider := newRetrievalFixture(t)
		fixedVectorEmbedder(provider, []float32{1, 0})

		kept := addFormWithMemory(t, forms, memory, 7, "kept", []float32{0.4, 0})
		deleted := addFormWithMemory(t, forms, memory, 7, "deleted", []float32{0.9, 0})
		require.NoError(t, forms.DeleteForms(ctx, deleted.Id))

		searcher, err := NewSearcher(memory, forms, provider)
		require.NoError(t, err)

		results, err := searcher.Search(ctx, 7, "anything")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, kept.Id, results[0].Id)
	})

	t.Run("DropsCrossOwnerForms", func(t *testing.T) {
		forms, memory, provider := newRetrievalFixture(t)
		fixedVectorEmbedder(provider, []float32{1, 0})

		// A memory record filed under owner 7 whose document actually belongs
		// to owner 8 must not leak into owner 7's results.
		form := &core.Form{Owner: 8, Purpose: "someone else's"}
		_, err := forms.AddForms(ctx, form)
		require.NoError(t, err)
		require.NoError(t, memory.UpsertRecords(ctx, &core.MemoryRecord{
			Id:     form.Id,
			Vector: []float32{1, 0},
			Meta:   core.MemoryMetadata{Owner: 7, Purpose: "someone else's"},
		}))

		searcher, err := NewSearcher(memory, forms, provider)
		require.NoError(t, err)

		results, err := searcher.Search(ctx, 7, "anything")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("EmptyQuery", func(t *testing.T) {
		forms, memory, provider := newRetrievalFixture(t)

		searcher, err := NewSearcher(memory, forms, provider)
		require.NoError(t, err)

		_, err = searcher.Search(ctx, 7, "   ")
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})

	t.Run("EmbedderFailureDegrades", func(t *testing.T) {
		forms, memory, provider := newRetrievalFixture(t)
		provider.GetMockEmbedder().EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("embedding service down")
		}

		searcher, err := NewSearcher(memory, forms, provider)
		require.NoError(t, err)

		results, err := searcher.Search(ctx, 7, "anything")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("MemoryFailureDegrades", func(t *testing.T) {
		forms, memory, provider := newRetrievalFixture(t)
		fixedVectorEmbedder(provider, []float32{1, 0})

		searcher, err := NewSearcher(&failingMemory{memory}, forms, provider)
		require.NoError(t, err)

		results, err := searcher.Search(ctx, 7, "anything")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("DocumentStoreFailurePropagates", func(t *testing.T) {
		forms, memory, provider := newRetrievalFixture(t)
		fixedVectorEmbedder(provider, []float32{1, 0})

		addFormWithMemory(t, forms, memory, 7, "present", []float32{0.4, 0})

		searcher, err := NewSearcher(memory, &failingForms{forms}, provider)
		require.NoError(t, err)

		_, err = searcher.Search(ctx, 7, "anything")
		require.Error(t, err)
	})
}

func TestNewSearcher_Validation(t *testing.T) {
	forms, memory, provider := newRetrievalFixture(t)

	_, err := NewSearcher(nil, forms, provider)
	assert.ErrorIs(t, err, ErrMemoryRepositoryRequired)

	_, err = NewSearcher(memory, nil, provider)
	assert.ErrorIs(t, err, ErrFormRepositoryRequired)

	_, err = NewSearcher(memory, forms, nil)
	assert.ErrorIs(t, err, ErrAIProviderRequired)
}
