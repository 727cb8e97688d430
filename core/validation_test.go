package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePrompt(t *testing.T) {
	t.Run("valid prompt", func(t *testing.T) {
		assert.NoError(t, ValidatePrompt("job application form"))
	})

	t.Run("empty prompt", func(t *testing.T) {
		assert.ErrorIs(t, ValidatePrompt(""), ErrEmptyPrompt)
	})

	t.Run("whitespace-only prompt", func(t *testing.T) {
		assert.ErrorIs(t, ValidatePrompt("   \t\n"), ErrEmptyPrompt)
	})
}

func TestValidateForm(t *testing.T) {
	valid := func() *Form {
		return &Form{
			Owner:   IDFromContent("alice"),
			Title:   "Contact Form",
			Purpose: "contact form with name and email",
		}
	}

	t.Run("valid form", func(t *testing.T) {
		assert.NoError(t, ValidateForm(valid()))
	})

	t.Run("nil form", func(t *testing.T) {
		assert.ErrorIs(t, ValidateForm(nil), ErrInvalidForm)
	})

	t.Run("missing purpose", func(t *testing.T) {
		form := valid()
		form.Purpose = ""
		err := ValidateForm(form)
		assert.ErrorIs(t, err, ErrInvalidForm)
		assert.ErrorIs(t, err, ErrEmptyPurpose)
	})

	t.Run("missing owner", func(t *testing.T) {
		form := valid()
		form.Owner = 0
		assert.ErrorIs(t, ValidateForm(form), ErrInvalidForm)
	})

	t.Run("empty schema is allowed", func(t *testing.T) {
		// The generative path may return sparse schemas; persistence does
		// not reject them.
		assert.NoError(t, ValidateForm(valid()))
	})
}

func TestValidateSchema(t *testing.T) {
	valid := func() *FormSchema {
		return &FormSchema{
			Title: "Contact Form",
			Fields: []Field{
				{Name: "name", Label: "Full Name", Type: FieldTypeText, Required: true},
				{Name: "email", Label: "Email Address", Type: FieldTypeEmail, Required: true},
			},
		}
	}

	t.Run("valid schema", func(t *testing.T) {
		assert.NoError(t, ValidateSchema(valid()))
	})

	t.Run("nil schema", func(t *testing.T) {
		assert.ErrorIs(t, ValidateSchema(nil), ErrInvalidSchema)
	})

	t.Run("no fields", func(t *testing.T) {
		err := ValidateSchema(&FormSchema{Title: "Empty"})
		assert.ErrorIs(t, err, ErrInvalidSchema)
		assert.ErrorIs(t, err, ErrNoFields)
	})

	t.Run("duplicate field name", func(t *testing.T) {
		schema := valid()
		schema.Fields = append(schema.Fields, Field{Name: "name", Type: FieldTypeText})
		err := ValidateSchema(schema)
		assert.ErrorIs(t, err, ErrDuplicateFieldName)
	})

	t.Run("empty field name", func(t *testing.T) {
		schema := valid()
		schema.Fields[0].Name = ""
		assert.ErrorIs(t, ValidateSchema(schema), ErrInvalidSchema)
	})

	t.Run("unknown field type", func(t *testing.T) {
		schema := valid()
		schema.Fields[1].Type = "carousel"
		err := ValidateSchema(schema)
		assert.ErrorIs(t, err, ErrUnknownFieldType)
	})
}

func TestValidateFieldType(t *testing.T) {
	for _, ft := range []FieldType{
		FieldTypeText, FieldTypeEmail, FieldTypeNumber, FieldTypeTel,
		FieldTypeTextarea, FieldTypeFile, FieldTypeDate,
		FieldTypeSelect, FieldTypeCheckbox, FieldTypeRadio,
	} {
		assert.NoError(t, ValidateFieldType(ft), "type %q", ft)
	}

	assert.ErrorIs(t, ValidateFieldType("slider"), ErrUnknownFieldType)
	assert.ErrorIs(t, ValidateFieldType(""), ErrUnknownFieldType)
}

func TestValidateSubmission(t *testing.T) {
	valid := func() *Submission {
		return &Submission{
			Form:      42,
			Responses: map[string]any{"name": "Alice", "email": "alice@example.com"},
		}
	}

	t.Run("valid submission", func(t *testing.T) {
		assert.NoError(t, ValidateSubmission(valid()))
	})

	t.Run("nil submission", func(t *testing.T) {
		assert.ErrorIs(t, ValidateSubmission(nil), ErrInvalidSubmission)
	})

	t.Run("missing form id", func(t *testing.T) {
		sub := valid()
		sub.Form = 0
		assert.ErrorIs(t, ValidateSubmission(sub), ErrInvalidSubmission)
	})

	t.Run("empty responses", func(t *testing.T) {
		sub := valid()
		sub.Responses = nil
		err := ValidateSubmission(sub)
		assert.ErrorIs(t, err, ErrEmptyResponses)
	})
}
