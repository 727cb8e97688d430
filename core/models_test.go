package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := IDFromContent("alice@example.com")
		b := IDFromContent("alice@example.com")
		assert.Equal(t, a, b)
	})

	t.Run("distinct inputs produce distinct ids", func(t *testing.T) {
		a := IDFromContent("alice@example.com")
		b := IDFromContent("bob@example.com")
		assert.NotEqual(t, a, b)
	})

	t.Run("empty content has an id", func(t *testing.T) {
		assert.NotZero(t, IDFromContent(""))
	})
}

func TestFieldNameList_UnmarshalJSON(t *testing.T) {
	t.Run("plain array", func(t *testing.T) {
		var l FieldNameList
		require.NoError(t, json.Unmarshal([]byte(`["name","email"]`), &l))
		assert.Equal(t, FieldNameList{"name", "email"}, l)
	})

	t.Run("legacy string-encoded array", func(t *testing.T) {
		var l FieldNameList
		require.NoError(t, json.Unmarshal([]byte(`"[\"name\",\"resume\"]"`), &l))
		assert.Equal(t, FieldNameList{"name", "resume"}, l)
	})

	t.Run("empty array", func(t *testing.T) {
		var l FieldNameList
		require.NoError(t, json.Unmarshal([]byte(`[]`), &l))
		assert.Empty(t, l)
	})

	t.Run("malformed payload errors", func(t *testing.T) {
		var l FieldNameList
		assert.Error(t, json.Unmarshal([]byte(`"not an array"`), &l))
	})

	t.Run("round trip through metadata", func(t *testing.T) {
		meta := MemoryMetadata{
			Owner:      IDFromContent("alice"),
			Purpose:    "contact form with name and email",
			Title:      "Contact Form",
			FieldNames: FieldNameList{"name", "email"},
		}
		data, err := json.Marshal(&meta)
		require.NoError(t, err)

		var decoded MemoryMetadata
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, meta.FieldNames, decoded.FieldNames)
		assert.Equal(t, meta.Owner, decoded.Owner)
	})
}

func TestFormSchema_FieldNames(t *testing.T) {
	schema := FormSchema{
		Title: "Job Application",
		Fields: []Field{
			{Name: "name", Type: FieldTypeText},
			{Name: "email", Type: FieldTypeEmail},
			{Name: "resume", Type: FieldTypeFile},
		},
	}
	assert.Equal(t, []string{"name", "email", "resume"}, schema.FieldNames())

	empty := FormSchema{}
	assert.Empty(t, empty.FieldNames())
}

func TestFieldType_IsChoice(t *testing.T) {
	assert.True(t, FieldTypeSelect.IsChoice())
	assert.True(t, FieldTypeRadio.IsChoice())
	assert.True(t, FieldTypeCheckbox.IsChoice())
	assert.False(t, FieldTypeText.IsChoice())
	assert.False(t, FieldTypeFile.IsChoice())
}
