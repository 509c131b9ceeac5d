package chunks

import "strings"

// DefaultWindowWords is the window size used by the ingestion pipeline.
const DefaultWindowWords = 500

// Split breaks text into fixed-size word windows with no overlap.
// Tokens are whitespace-delimited; each window is rejoined with single
// spaces and empty windows are dropped. Pure and stateless.
func Split(text string, windowWords int) []string {
	if windowWords < 1 {
		windowWords = DefaultWindowWords
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	out := make([]string, 0, (len(words)+windowWords-1)/windowWords)
	for i := 0; i < len(words); i += windowWords {
		end := i + windowWords
		if end > len(words) {
			end = len(words)
		}
		window := strings.Join(words[i:end], " ")
		if strings.TrimSpace(window) != "" {
			out = append(out, window)
		}
	}
	return out
}
