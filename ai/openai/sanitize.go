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


package openai

import "strings"

// stripFences removes markdown code fences that models emit despite being
// instructed not to, leaving the bare payload.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// repairJSON attempts to fix common JSON formatting issues in model output.
// It specifically handles object keys missing their opening quote, e.g.
// `, type":` becomes `, "type":`.
func repairJSON(s string) string {
	var out strings.Builder
	out.Grow(len(s) + 16)

	src := []rune(s)
	i := 0
	for i < len(src) {
		ch := src[i]
		out.WriteRune(ch)
		i++

		if ch != '{' && ch != ',' {
			continue
		}

		// Copy whitespace following the separator.
		for i < len(src) && (src[i] == ' ' || src[i] == '\n' || src[i] == '\t') {
			out.WriteRune(src[i])
			i++
		}

		if i >= len(src) || src[i] == '"' || !isKeyRune(src[i]) {
			continue
		}

		// A bare identifier here is only a broken key if it runs straight
		// into `":` — otherwise copy it untouched.
		start := i
		for i < len(src) && (isKeyRune(src[i]) || src[i] == ' ') {
			i++
		}
		if i+1 < len(src) && src[i] == '"' && src[i+1] == ':' {
			out.WriteRune('"')
			out.WriteString(strings.TrimRight(string(src[start:i]), " "))
		} else {
			out.WriteString(string(src[start:i]))
		}
	}

	return out.String()
}

// isKeyRune reports whether the rune can appear in a bare object key.
func isKeyRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}
