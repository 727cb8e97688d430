package storage

import (
	"testing"
	"time"

	"github.com/poiesic/formgen/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormSerialization(t *testing.T) {
	form := &core.Form{
		Id:      42,
		Owner:   7,
		Title:   "Volunteer Signup",
		Purpose: "volunteer signup form",
		Schema: core.FormSchema{
			Title: "Volunteer Signup",
			Fields: []core.Field{
				{Name: "name", Label: "Full Name", Type: core.FieldTypeText, Required: true},
				{Name: "shift", Label: "Preferred Shift", Type: core.FieldTypeSelect, Options: []string{"morning", "evening"}},
			},
		},
		Keywords:  []string{"volunteer", "signup"},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	data, err := MarshalForm(form)
	require.NoError(t, err)

	decoded, err := UnmarshalForm(data)
	require.NoError(t, err)
	assert.Equal(t, form, decoded)
}

func TestUnmarshalForm_Corrupt(t *testing.T) {
	_, err := UnmarshalForm([]byte("not json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMemoryRecordSerialization(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		record := &core.MemoryRecord{
			Id:     42,
			Vector: []float32{0.1, 0.2, 0.3},
			Meta: core.MemoryMetadata{
				Owner:      7,
				Purpose:    "volunteer signup form",
				Title:      "Volunteer Signup",
				FieldNames: core.FieldNameList{"name", "shift"},
				CreatedAt:  time.Now().UTC().Truncate(time.Second),
			},
		}

		data, err := MarshalMemoryRecord(record)
		require.NoError(t, err)

		decoded, err := UnmarshalMemoryRecord(data)
		require.NoError(t, err)
		assert.Equal(t, record, decoded)
	})

	t.Run("LegacyStringEncodedFieldNames", func(t *testing.T) {
		// Older writers stored the field list as a JSON string rather than a
		// JSON array. Decoding must canonicalize it to the array form.
		data := []byte(`{
			"id": 9,
			"vector": [0.5],
			"meta": {
				"owner": 7,
				"purpose": "contact form",
				"title": "Contact",
				"fieldNames": "[\"name\",\"email\"]"
			}
		}`)

		decoded, err := UnmarshalMemoryRecord(data)
		require.NoError(t, err)
		assert.Equal(t, core.FieldNameList{"name", "email"}, decoded.Meta.FieldNames)

		// Re-encoding writes the canonical array shape.
		reencoded, err := MarshalMemoryRecord(decoded)
		require.NoError(t, err)
		assert.Contains(t, string(reencoded), `"fieldNames":["name","email"]`)
	})

	t.Run("MalformedFieldNames", func(t *testing.T) {
		data := []byte(`{"id": 9, "meta": {"owner": 7, "fieldNames": "{broken"}}`)
		_, err := UnmarshalMemoryRecord(data)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})
}

func TestSubmissionSerialization(t *testing.T) {
	submission := &core.Submission{
		Id:   3,
		Form: 42,
		Responses: map[string]any{
			"name":  "Ada",
			"email": "ada@example.com",
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	data, err := MarshalSubmission(submission)
	require.NoError(t, err)

	decoded, err := UnmarshalSubmission(data)
	require.NoError(t, err)
	assert.Equal(t, submission, decoded)
}
