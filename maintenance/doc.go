// Package maintenance provides offline maintenance passes over the vector
// memory index.
//
// The Reembedder regenerates every record's embedding, for use after
// switching embedding models. The Pruner removes records whose form has been
// deleted from the document store; the serving path never cascades deletions
// between the two stores, so orphans are reclaimed here instead.
//
// Both operations batch their work, report progress to a writer, and retry
// embedding calls with exponential backoff.
package maintenance
