package ai

import (
	"testing"

	"github.com/poiesic/formgen/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldNames(schema *core.FormSchema) []string {
	return schema.FieldNames()
}

func TestFallback_TriggerCoverage(t *testing.T) {
	schema := Fallback("name and email and resume")
	assert.Equal(t, []string{"name", "email", "resume"}, fieldNames(schema))
}

func TestFallback_DefaultFields(t *testing.T) {
	schema := Fallback("xyz")
	assert.Equal(t, []string{"name", "email", "file"}, fieldNames(schema))
	assert.True(t, schema.Fields[0].Required)
	assert.True(t, schema.Fields[1].Required)
	assert.False(t, schema.Fields[2].Required)
}

func TestFallback_TitleAndDescription(t *testing.T) {
	schema := Fallback("job application form")
	assert.Equal(t, "Job application form", schema.Title)
	assert.Equal(t, "Generated form for: job application form", schema.Description)
}

func TestFallback_Totality(t *testing.T) {
	prompts := []string{
		"a",
		"Create a job application form with name, email, resume upload",
		"feedback survey",
		"совершенно несвязанный текст",
		"!!!",
	}
	for _, prompt := range prompts {
		schema := Fallback(prompt)
		require.NotNil(t, schema, "prompt %q", prompt)
		assert.NotEmpty(t, schema.Fields, "prompt %q", prompt)
		assert.NotEmpty(t, schema.Title, "prompt %q", prompt)
		assert.NoError(t, core.ValidateSchema(schema), "prompt %q", prompt)
	}
}

func TestFallback_Triggers(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   []string
	}{
		{"phone via contact", "contact form", []string{"phone"}},
		{"address", "shipping address collection", []string{"address"}},
		{"message via feedback", "customer feedback", []string{"message"}},
		{"resume via cv", "upload your cv", []string{"resume"}},
		// "profile" contains "file", but the matched photo field
		// suppresses the generic upload.
		{"photo via picture", "profile picture upload", []string{"photo"}},
		{"document via attachment", "attachment required", []string{"document"}},
		{"bare file", "file upload", []string{"file"}},
		{"file suppressed by resume", "resume file upload", []string{"resume"}},
		{"file suppressed by document", "document file upload", []string{"document"}},
		{"independent triggers combine", "name, email, phone and address please", []string{"name", "email", "phone", "address"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := Fallback(tt.prompt)
			assert.Equal(t, tt.want, fieldNames(schema))
		})
	}
}

func TestFallback_CaseInsensitive(t *testing.T) {
	schema := Fallback("NAME and EMAIL")
	assert.Equal(t, []string{"name", "email"}, fieldNames(schema))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "", capitalize(""))
	assert.Equal(t, "Abc", capitalize("abc"))
	assert.Equal(t, "Abc", capitalize("Abc"))
	assert.Equal(t, "Ёлка", capitalize("ёлка"))
	assert.Equal(t, "1abc", capitalize("1abc"))
}
