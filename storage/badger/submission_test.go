package badger

import (
	"context"
	"testing"

	"github.com/poiesic/formgen/core"
	"github.com/poiesic/formgen/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionRepository_AddAndList(t *testing.T) {
	forms, subs, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		subs.Close()
		forms.Close()
		backend.Close()
	}()

	ctx := context.Background()

	added, err := forms.AddForms(ctx, newTestForm(7, "contact form"))
	require.NoError(t, err)
	formID := added[0].Id

	first := &core.Submission{
		Form:      formID,
		Responses: map[string]any{"name": "Ada", "email": "ada@example.com"},
	}
	second := &core.Submission{
		Form:      formID,
		Responses: map[string]any{"name": "Grace", "email": "grace@example.com"},
	}

	_, err = subs.AddSubmissions(ctx, first)
	require.NoError(t, err)
	_, err = subs.AddSubmissions(ctx, second)
	require.NoError(t, err)
	assert.NotZero(t, first.Id)
	assert.False(t, first.CreatedAt.IsZero())

	listed, err := subs.GetSubmissionsByForm(ctx, formID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	// Insertion order
	assert.Equal(t, "Ada", listed[0].Responses["name"])
	assert.Equal(t, "Grace", listed[1].Responses["name"])
}

func TestSubmissionRepository_ListEmpty(t *testing.T) {
	forms, subs, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		subs.Close()
		forms.Close()
		backend.Close()
	}()

	listed, err := subs.GetSubmissionsByForm(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestSubmissionRepository_ScopedToForm(t *testing.T) {
	forms, subs, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		subs.Close()
		forms.Close()
		backend.Close()
	}()

	ctx := context.Background()

	added, err := forms.AddForms(ctx, newTestForm(7, "one"), newTestForm(7, "two"))
	require.NoError(t, err)

	_, err = subs.AddSubmissions(ctx,
		&core.Submission{Form: added[0].Id, Responses: map[string]any{"name": "a"}},
		&core.Submission{Form: added[1].Id, Responses: map[string]any{"name": "b"}})
	require.NoError(t, err)

	listed, err := subs.GetSubmissionsByForm(ctx, added[0].Id)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "a", listed[0].Responses["name"])
}

func TestSubmissionRepository_Delete(t *testing.T) {
	forms, subs, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		subs.Close()
		forms.Close()
		backend.Close()
	}()

	ctx := context.Background()

	sub := &core.Submission{Form: 1, Responses: map[string]any{"name": "a"}}
	_, err = subs.AddSubmissions(ctx, sub)
	require.NoError(t, err)

	require.NoError(t, subs.DeleteSubmissions(ctx, sub.Id))

	listed, err := subs.GetSubmissionsByForm(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, listed)

	assert.ErrorIs(t, subs.DeleteSubmissions(ctx, sub.Id), storage.ErrNotFound)
}
