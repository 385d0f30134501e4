package retrieval

import (
	"strings"

	"github.com/empirelabs/chad/core"
)

// EmptyContext is the sentinel rendered when retrieval produced no
// relevant chunks.
const EmptyContext = "No relevant internal knowledge found."

// FormatContext renders retrieved chunks into a single text block
// suitable for injection as an ephemeral system message. Each chunk is
// prefixed with its provenance label.
func FormatContext(chunks []core.RetrievedChunk) string {
	if len(chunks) == 0 {
		return EmptyContext
	}

	var lines []string
	for _, chunk := range chunks {
		source := chunk.Source
		if source == "" {
			source = "kb"
		}
		lines = append(lines, "[source: "+source+"]")
		lines = append(lines, strings.TrimSpace(chunk.Text))
		lines = append(lines, "")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Sources extracts the distinct provenance labels of the given chunks,
// preserving first-seen order. Used for debug-mode responses.
func Sources(chunks []core.RetrievedChunk) []string {
	seen := make(map[string]bool, len(chunks))
	var sources []string
	for _, chunk := range chunks {
		source := chunk.Source
		if source == "" {
			source = "kb"
		}
		if !seen[source] {
			seen[source] = true
			sources = append(sources, source)
		}
	}
	return sources
}
