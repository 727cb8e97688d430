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

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/poiesic/formgen/ai"
	"github.com/poiesic/formgen/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// SchemaGenerator implements ai.SchemaGenerator using OpenAI-compatible chat APIs.
type SchemaGenerator struct {
	client llms.Model
	logger *slog.Logger
}

// newSchemaGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newSchemaGenerator(config *ai.Config) (*SchemaGenerator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.GenerationHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.GenerationModel),
	)
	if err != nil {
		return nil, err
	}

	return &SchemaGenerator{
		client: client,
		logger: slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewSchemaGenerator creates a new schema generator using the provided
// configuration.
//
// Returns ai.SchemaGenerator interface to enforce abstraction.
func NewSchemaGenerator(config *ai.Config) (ai.SchemaGenerator, error) {
	return newSchemaGenerator(config)
}

// Generate produces a form schema for the prompt, serializing any retrieved
// context into the request as reference material. Provider failures and
// unparsable output degrade to the deterministic offline fallback; Generate
// never surfaces a provider error to its caller.
func (g *SchemaGenerator) Generate(ctx context.Context, prompt string, history []core.ContextEntry) (*core.FormSchema, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(generationSystemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildUserPrompt(prompt, history)),
			},
		},
	}

	// Try up to 3 times in case of malformed or invalid JSON
	for attempt := 0; attempt < 3; attempt++ {
		response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			g.logger.Warn("generation call failed, using fallback schema", "err", err)
			return ai.Fallback(prompt), nil
		}

		if len(response.Choices) < 1 {
			g.logger.Debug("no choices returned from model, using fallback schema")
			return ai.Fallback(prompt), nil
		}

		// Strip markdown code fences if present, then repair common JSON issues.
		responseText := stripFences(response.Choices[0].Content)
		responseText = repairJSON(responseText)

		var schema core.FormSchema
		if err := json.Unmarshal([]byte(responseText), &schema); err != nil {
			g.logger.Warn("error parsing generated schema",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		if err := core.ValidateSchema(&schema); err != nil {
			g.logger.Warn("generated schema failed validation",
				"attempt", attempt+1,
				"err", err)
			continue
		}

		g.logger.Debug("generated schema",
			"title", schema.Title,
			"fields", len(schema.Fields),
			"context", len(history))

		return &schema, nil
	}

	g.logger.Warn("exhausted generation attempts, using fallback schema")
	return ai.Fallback(prompt), nil
}
