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

import "errors"

// Domain validation errors
var (
	// ErrInvalidForm indicates a Form failed validation.
	ErrInvalidForm = errors.New("invalid form")

	// ErrInvalidSchema indicates a FormSchema failed validation.
	ErrInvalidSchema = errors.New("invalid form schema")

	// ErrInvalidSubmission indicates a Submission failed validation.
	ErrInvalidSubmission = errors.New("invalid submission")

	// ErrEmptyPrompt indicates a generation request with no prompt text.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")

	// ErrEmptyResponses indicates a submission with no responses.
	ErrEmptyResponses = errors.New("responses cannot be empty")

	// ErrEmptyPurpose indicates a form document without its originating prompt.
	ErrEmptyPurpose = errors.New("purpose cannot be empty")

	// ErrNoFields indicates a schema with an empty field list.
	ErrNoFields = errors.New("schema has no fields")

	// ErrDuplicateFieldName indicates two schema fields sharing a name.
	ErrDuplicateFieldName = errors.New("duplicate field name")

	// ErrUnknownFieldType indicates a field type outside the known set.
	ErrUnknownFieldType = errors.New("unknown field type")
)
