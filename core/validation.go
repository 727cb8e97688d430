// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
)

// ValidatePrompt validates prompt text for a generation request.
// Whitespace-only prompts count as empty.
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return ErrEmptyPrompt
	}
	return nil
}

// ValidateForm validates a Form document before persistence.
//
// Validation rules:
//   - Purpose must not be empty (it is the retrieval key for memory)
//   - Owner must be set
//
// NOT validated:
//   - Schema contents (the generative path may return sparse schemas;
//     only the fallback generator guarantees fields)
//   - ID (0 is valid before the database sequence assigns one)
func ValidateForm(form *Form) error {
	if form == nil {
		return fmt.Errorf("%w: form is nil", ErrInvalidForm)
	}

	if form.Purpose == "" {
		return fmt.Errorf("%w: %w", ErrInvalidForm, ErrEmptyPurpose)
	}

	if form.Owner == 0 {
		return fmt.Errorf("%w: owner is not set", ErrInvalidForm)
	}

	return nil
}

// ValidateSchema validates a FormSchema according to domain rules: a
// non-empty field list, unique field names, and known field types. The
// fallback generator always produces schemas that pass this check.
func ValidateSchema(schema *FormSchema) error {
	if schema == nil {
		return fmt.Errorf("%w: schema is nil", ErrInvalidSchema)
	}

	if len(schema.Fields) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSchema, ErrNoFields)
	}

	seen := make(map[string]struct{}, len(schema.Fields))
	for _, field := range schema.Fields {
		if field.Name == "" {
			return fmt.Errorf("%w: field with empty name", ErrInvalidSchema)
		}
		if _, ok := seen[field.Name]; ok {
			return fmt.Errorf("%w: %w: %q", ErrInvalidSchema, ErrDuplicateFieldName, field.Name)
		}
		seen[field.Name] = struct{}{}

		if err := ValidateFieldType(field.Type); err != nil {
			return fmt.Errorf("%w: field %q: %w", ErrInvalidSchema, field.Name, err)
		}
	}

	return nil
}

// ValidateFieldType validates that a FieldType has a known value.
func ValidateFieldType(t FieldType) error {
	switch t {
	case FieldTypeText, FieldTypeEmail, FieldTypeNumber, FieldTypeTel,
		FieldTypeTextarea, FieldTypeFile, FieldTypeDate,
		FieldTypeSelect, FieldTypeCheckbox, FieldTypeRadio:
		return nil
	default:
		return fmt.Errorf("%w: value %q", ErrUnknownFieldType, t)
	}
}

// ValidateSubmission validates an end-user form submission.
func ValidateSubmission(sub *Submission) error {
	if sub == nil {
		return fmt.Errorf("%w: submission is nil", ErrInvalidSubmission)
	}

	if sub.Form == 0 {
		return fmt.Errorf("%w: form ID is not set", ErrInvalidSubmission)
	}

	if len(sub.Responses) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSubmission, ErrEmptyResponses)
	}

	return nil
}
