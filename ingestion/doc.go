// Package ingestion builds the knowledge index from on-disk documents.
//
// The Pipeline type manages the indexing workflow:
//   - Splitting documents into overlapping text chunks
//   - Skipping chunks whose content is already indexed
//   - Generating embeddings concurrently via a worker pool
//   - Writing the embedded chunks to the chunk store
//
// Re-running ingestion over an unchanged corpus is a no-op because
// chunks are keyed by their content.
package ingestion
