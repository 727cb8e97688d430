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


package storage

import (
	"encoding/json"
	"fmt"

	"github.com/poiesic/formgen/core"
)

// MarshalForm serializes a Form to bytes.
func MarshalForm(form *core.Form) ([]byte, error) {
	data, err := json.Marshal(form)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalForm deserializes a Form from bytes.
func UnmarshalForm(data []byte) (*core.Form, error) {
	var form core.Form
	if err := json.Unmarshal(data, &form); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return &form, nil
}

// MarshalSubmission serializes a Submission to bytes.
func MarshalSubmission(submission *core.Submission) ([]byte, error) {
	data, err := json.Marshal(submission)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalSubmission deserializes a Submission from bytes.
func UnmarshalSubmission(data []byte) (*core.Submission, error) {
	var submission core.Submission
	if err := json.Unmarshal(data, &submission); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return &submission, nil
}

// MarshalMemoryRecord serializes a MemoryRecord to bytes.
func MarshalMemoryRecord(record *core.MemoryRecord) ([]byte, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalMemoryRecord deserializes a MemoryRecord from bytes.
//
// Metadata decoding is canonicalizing: field name lists written by older
// clients as a JSON-encoded string are normalized to a plain array by
// core.FieldNameList, so callers never see the legacy shape.
func UnmarshalMemoryRecord(data []byte) (*core.MemoryRecord, error) {
	var record core.MemoryRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return &record, nil
}
