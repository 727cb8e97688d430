package core

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs; it is used to
// derive stable owner IDs from external subject strings.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// FieldType categorizes a form field for rendering and input validation.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeNumber   FieldType = "number"
	FieldTypeTel      FieldType = "tel"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeFile     FieldType = "file"
	FieldTypeDate     FieldType = "date"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
)

// IsChoice reports whether the field type carries a fixed option list.
func (t FieldType) IsChoice() bool {
	switch t {
	case FieldTypeSelect, FieldTypeCheckbox, FieldTypeRadio:
		return true
	}
	return false
}

// Field describes a single input within a form schema.
// Name must be unique within the schema; Options is populated only for
// choice-like field types.
type Field struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"`
}

// FormSchema is the generated artifact of the pipeline: a renderable form
// description. Schemas produced by the fallback generator always have at
// least one field; schemas from the generative path are persisted exactly as
// the model returned them.
type FormSchema struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Fields      []Field `json:"fields"`
}

// FieldNames returns the names of all fields in schema order.
func (s *FormSchema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Form is the persisted form document. Purpose holds the original prompt the
// form was generated from; Keywords is the whitespace-split prompt retained
// for keyword lookup.
type Form struct {
	Id          ID         `json:"id"`
	Owner       ID         `json:"owner"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Purpose     string     `json:"purpose"`
	Schema      FormSchema `json:"schema"`
	Keywords    []string   `json:"keywords"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Submission is one end-user response to a form. Responses maps field names
// to submitted values.
type Submission struct {
	Id        ID             `json:"id"`
	Form      ID             `json:"form"`
	Responses map[string]any `json:"responses"`
	CreatedAt time.Time      `json:"createdAt"`
}

// FieldNameList is the canonical decoded form of the fieldNames metadata
// entry. Older records stored the list as a JSON-encoded string rather than
// an array; UnmarshalJSON accepts both shapes so downstream code only ever
// sees a plain []string.
type FieldNameList []string

func (l *FieldNameList) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err == nil {
		*l = names
		return nil
	}

	// Legacy shape: a JSON string containing a serialized array.
	var encoded string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(encoded), &names); err != nil {
		return err
	}
	*l = names
	return nil
}

// MemoryMetadata is the descriptive payload stored alongside a memory vector.
type MemoryMetadata struct {
	Owner      ID            `json:"owner"`
	Purpose    string        `json:"purpose"`
	Title      string        `json:"title"`
	FieldNames FieldNameList `json:"fieldNames"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// MemoryRecord is one retrievable unit of generation history. It is keyed by
// the owning form's identity, written once after the form document is
// persisted, and never updated. The memory store and the document store are
// independent; consistency between them is best-effort.
type MemoryRecord struct {
	Id     ID             `json:"id"`
	Vector []float32      `json:"vector"`
	Meta   MemoryMetadata `json:"meta"`
}

// Match is a single result from a vector memory query.
type Match struct {
	Id    ID
	Score float32
	Meta  MemoryMetadata
}

// ContextEntry is one element of the retrieved context handed to the schema
// generator: a prior form's purpose and field names together with its
// similarity to the current prompt.
type ContextEntry struct {
	Purpose    string   `json:"purpose"`
	FieldNames []string `json:"fields"`
	Score      float32  `json:"-"`
}
