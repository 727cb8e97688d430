// Package pipeline orchestrates AI-assisted form generation.
//
// The Pipeline type runs the full flow for a prompt:
//   - Validating the prompt
//   - Retrieving the owner's prior forms as generation context
//   - Generating a schema (degrading to the deterministic fallback)
//   - Persisting the form document
//   - Writing the memory record asynchronously on a worker pool
//
// The two stores deliberately fail differently: the document write is the
// request's durability point and its failure fails the request, while the
// memory write is best-effort enrichment whose failures go to the Monitor
// and the log, never to the caller.
package pipeline
