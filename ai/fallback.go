package ai

import (
	"strings"
	"unicode"

	"github.com/poiesic/formgen/core"
)

// fieldRule maps trigger substrings in a prompt to a canonical form field.
type fieldRule struct {
	triggers []string
	field    core.Field
}

// fallbackRules is the fixed trigger table of the offline generator. Rules
// are checked independently and in order; a prompt can match several.
var fallbackRules = []fieldRule{
	{
		triggers: []string{"name"},
		field:    core.Field{Name: "name", Label: "Full Name", Type: core.FieldTypeText, Required: true},
	},
	{
		triggers: []string{"email"},
		field:    core.Field{Name: "email", Label: "Email Address", Type: core.FieldTypeEmail, Required: true},
	},
	{
		triggers: []string{"phone", "contact"},
		field:    core.Field{Name: "phone", Label: "Phone Number", Type: core.FieldTypeTel},
	},
	{
		triggers: []string{"address"},
		field:    core.Field{Name: "address", Label: "Address", Type: core.FieldTypeTextarea},
	},
	{
		triggers: []string{"message", "comment", "feedback"},
		field:    core.Field{Name: "message", Label: "Message", Type: core.FieldTypeTextarea},
	},
	{
		triggers: []string{"resume", "cv"},
		field:    core.Field{Name: "resume", Label: "Upload Resume/CV", Type: core.FieldTypeFile},
	},
	{
		triggers: []string{"photo", "image", "picture"},
		field:    core.Field{Name: "photo", Label: "Upload Photo", Type: core.FieldTypeFile},
	},
	{
		triggers: []string{"document", "attachment"},
		field:    core.Field{Name: "document", Label: "Upload Document", Type: core.FieldTypeFile},
	},
}

// defaultFields is emitted when no trigger matches at all.
var defaultFields = []core.Field{
	{Name: "name", Label: "Name", Type: core.FieldTypeText, Required: true},
	{Name: "email", Label: "Email", Type: core.FieldTypeEmail, Required: true},
	{Name: "file", Label: "Upload File (Optional)", Type: core.FieldTypeFile},
}

// Fallback is the deterministic offline schema generator. It scans the
// lower-cased prompt for a fixed set of trigger substrings and assembles the
// matching canonical fields; prompts that match nothing get a default
// name/email/file triple. It never fails and always returns a schema with at
// least one field for any prompt.
func Fallback(prompt string) *core.FormSchema {
	lowered := strings.ToLower(prompt)

	var fields []core.Field
	matched := make(map[string]bool, len(fallbackRules))

	for _, rule := range fallbackRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(lowered, trigger) {
				fields = append(fields, rule.field)
				matched[rule.field.Name] = true
				break
			}
		}
	}

	// A bare "file" mention only counts when no specific upload field was
	// already triggered.
	if strings.Contains(lowered, "file") && !matched["resume"] && !matched["photo"] && !matched["document"] {
		fields = append(fields, core.Field{Name: "file", Label: "Upload File", Type: core.FieldTypeFile})
	}

	if len(fields) == 0 {
		fields = append(fields, defaultFields...)
	}

	return &core.FormSchema{
		Title:       capitalize(prompt),
		Description: "Generated form for: " + prompt,
		Fields:      fields,
	}
}

// capitalize upper-cases the first rune of s.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
