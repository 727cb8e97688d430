package mock

import (
	"context"

	"github.com/poiesic/formgen/ai"
	"github.com/poiesic/formgen/core"
)

// MockSchemaGenerator is a test double for ai.SchemaGenerator.
// It allows custom behavior injection via function fields.
type MockSchemaGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, the deterministic offline fallback is used, which mirrors what
	// the real generator does when its chat service is unreachable.
	GenerateFunc func(ctx context.Context, prompt string, history []core.ContextEntry) (*core.FormSchema, error)

	callCount   int
	lastHistory []core.ContextEntry
}

// NewMockSchemaGenerator creates a mock generator with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockGenerator().
func NewMockSchemaGenerator() *MockSchemaGenerator {
	return &MockSchemaGenerator{}
}

// Generate produces a schema for the prompt. The history passed in is
// recorded for later assertions via LastHistory.
func (m *MockSchemaGenerator) Generate(ctx context.Context, prompt string, history []core.ContextEntry) (*core.FormSchema, error) {
	m.callCount++
	m.lastHistory = history

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, history)
	}

	return ai.Fallback(prompt), nil
}

// CallCount returns the number of times Generate was called.
func (m *MockSchemaGenerator) CallCount() int {
	return m.callCount
}

// LastHistory returns the context entries passed to the most recent Generate call.
func (m *MockSchemaGenerator) LastHistory() []core.ContextEntry {
	return m.lastHistory
}

// Reset clears the call count, recorded history, and custom functions.
func (m *MockSchemaGenerator) Reset() {
	m.callCount = 0
	m.lastHistory = nil
	m.GenerateFunc = nil
}
