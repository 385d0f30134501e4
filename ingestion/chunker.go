package ingestion

import "strings"

// ChunkText splits text into overlapping windows of at most maxChars
// runes. Consecutive chunks share overlap runes so passages that
// straddle a boundary still embed as one unit. Empty or
// whitespace-only input yields no chunks.
func ChunkText(text string, maxChars, overlap int) []string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}
	if maxChars < 1 {
		maxChars = defaultChunkChars
	}
	if overlap < 0 || overlap >= maxChars {
		overlap = 0
	}

	step := maxChars - overlap
	var chunks []string
	for i := 0; i < len(runes); i += step {
		end := i + maxChars
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}
