package pipeline

import (
	"sync/atomic"

	"github.com/poiesic/formgen/core"
)

// Monitor provides hooks to observe the generation pipeline.
// Implement this interface to track intermediate steps, and in particular to
// collect the outcomes of asynchronous memory writes, which never surface as
// errors on the request path.
type Monitor interface {
	Started(owner core.ID, prompt string)
	ContextRetrieved(entries []core.ContextEntry)
	SchemaGenerated(schema *core.FormSchema)
	FormPersisted(form *core.Form)
	MemoryWritten(id core.ID)
	MemoryWriteFailed(id core.ID, err error)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Started(_ core.ID, _ string)            {}
func (n *noopMonitor) ContextRetrieved(_ []core.ContextEntry) {}
func (n *noopMonitor) SchemaGenerated(_ *core.FormSchema)     {}
func (n *noopMonitor) FormPersisted(_ *core.Form)             {}
func (n *noopMonitor) MemoryWritten(_ core.ID)                {}
func (n *noopMonitor) MemoryWriteFailed(_ core.ID, _ error)   {}

// Metrics is a Monitor that counts pipeline outcomes. Safe for concurrent
// use; suitable as a default sink for memory-write failures.
type Metrics struct {
	generations         atomic.Int64
	memoryWrites        atomic.Int64
	memoryWriteFailures atomic.Int64
}

var _ Monitor = (*Metrics)(nil)

func (m *Metrics) Started(_ core.ID, _ string)            { m.generations.Add(1) }
func (m *Metrics) ContextRetrieved(_ []core.ContextEntry) {}
func (m *Metrics) SchemaGenerated(_ *core.FormSchema)     {}
func (m *Metrics) FormPersisted(_ *core.Form)             {}
func (m *Metrics) MemoryWritten(_ core.ID)                { m.memoryWrites.Add(1) }
func (m *Metrics) MemoryWriteFailed(_ core.ID, _ error)   { m.memoryWriteFailures.Add(1) }

// Generations returns the number of generation requests started.
func (m *Metrics) Generations() int64 { return m.generations.Load() }

// MemoryWrites returns the number of successful memory writes.
func (m *Metrics) MemoryWrites() int64 { return m.memoryWrites.Load() }

// MemoryWriteFailures returns the number of failed memory writes.
func (m *Metrics) MemoryWriteFailures() int64 { return m.memoryWriteFailures.Load() }
