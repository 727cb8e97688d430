package badger

import (
	"context"
	"testing"

	"github.com/poiesic/formgen/core"
	"github.com/poiesic/formgen/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestForm(owner core.ID, purpose string) *core.Form {
	return &core.Form{
		Owner:   owner,
		Title:   "Test Form",
		Purpose: purpose,
		Schema: core.FormSchema{
			Title: "Test Form",
			Fields: []core.Field{
				{Name: "name", Label: "Name", Type: core.FieldTypeText, Required: true},
				{Name: "email", Label: "Email", Type: core.FieldTypeEmail, Required: true},
			},
		},
	}
}

func TestFormRepository_AddAndGet(t *testing.T) {
	forms, subs, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		subs.Close()
		forms.Close()
		backend.Close()
	}()

	ctx := context.Background()

	form := newTestForm(7, "contact form")
	added, err := forms.AddForms(ctx, form)
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.NotZero(t, added[0].Id)
	assert.False(t, added[0].CreatedAt.IsZero())

	got, err := forms.GetForm(ctx, added[0].Id)
	require.NoError(t, err)
	assert.Equal(t, added[0].Id, got.Id)
	assert.Equal(t, "contact form", got.Purpose)
	assert.Equal(t, []string{"name", "email"}, got.Schema.FieldNames())
}

func TestFormRepository_GetMissing(t *testing.T) {
	forms, subs, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		subs.Close()
		forms.Close()
		backend.Close()
	}()

	_, err = forms.GetForm(context.Background(), 9999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFormRepository_GetForms_SkipsMissing(t *testing.T) {
	forms, subs, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		subs.Close()
		forms.Close()
		backend.Close()
	}()

	ctx := context.Background()

	added, err := forms.AddForms(ctx, newTestForm(7, "a"), newTestForm(7, "b"))
	require.NoError(t, err)

	got, err := forms.GetForms(ctx, added[0].Id, 9999, added[1].Id)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestFormRepository_GetFormsByOwner(t *testing.T) {
	forms, subs, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		subs.Close()
		forms.Close()
		backend.Close()
	}()

	ctx := context.Background()

	_, err = forms.AddForms(ctx,
		newTestForm(7, "first"),
		newTestForm(7, "second"),
		newTestForm(8, "other owner"))
	require.NoError(t, err)

	got, err := forms.GetFormsByOwner(ctx, 7)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Most recent first
	assert.Equal(t, "second", got[0].Purpose)
	assert.Equal(t, "first", got[1].Purpose)

	other, err := forms.GetFormsByOwner(ctx, 8)
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "other owner", other[0].Purpose)

	empty, err := forms.GetFormsByOwner(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFormRepository_Delete(t *testing.T) {
	forms, subs, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		subs.Close()
		forms.Close()
		backend.Close()
	}()

	ctx := context.Background()

	added, err := forms.AddForms(ctx, newTestForm(7, "doomed"))
	require.NoError(t, err)

	require.NoError(t, forms.DeleteForms(ctx, added[0].Id))

	_, err = forms.GetForm(ctx, added[0].Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Owner index entry is gone too
	byOwner, err := forms.GetFormsByOwner(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, byOwner)

	assert.ErrorIs(t, forms.DeleteForms(ctx, added[0].Id), storage.ErrNotFound)
}
