package openai

import (
	"encoding/json"
	"fmt"

	"github.com/poiesic/formgen/core"
)

const generationSystemPrompt = `You are an intelligent form schema generator.

Generate a form schema as a single JSON object with exactly these keys:
- "title": a short form title
- "description": one sentence describing the form
- "fields": an array of field objects

Each field object has:
- "name": a lowercase machine name, unique within the form
- "label": a human-readable label
- "type": one of "text", "email", "number", "tel", "textarea", "file", "date", "select", "checkbox", "radio"
- "required": a boolean
- "options": an array of strings, only for "select", "checkbox" and "radio" fields

Return ONLY the raw JSON object. Do not include markdown formatting like
` + "```json" + ` fences, preamble, or any text outside the object.`

const contextPreamble = `Here are forms this user has previously requested, for style and field consistency:`

// buildUserPrompt renders the generation request, prefixing it with retrieved
// context when any prior forms were found for the owner.
func buildUserPrompt(prompt string, history []core.ContextEntry) string {
	request := fmt.Sprintf("Generate a new form schema for this request:\n%q", prompt)
	if len(history) == 0 {
		return request
	}

	// History is already ranked; serialize as-is.
	encoded, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return request
	}

	return contextPreamble + "\n" + string(encoded) + "\n\n" + request
}
