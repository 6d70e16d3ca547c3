package ingest

import (
	"log/slog"
	"strings"
)

// Contractions maps a contracted form to its full-form expansions.
// When a form has several readings, the first entry is the literal expansion
// and the second the most common one (e.g. "he's" → ["he has", "he is"]).
type Contractions map[string][]string

// Expand returns the full-form words for a contracted token. Forms with a
// single candidate always use it; ambiguous forms use the second candidate
// when promising is true, the first otherwise. Unknown forms fall back to
// suffix heuristics; when those fail too, the word is returned with its
// apostrophes stripped and a diagnostic is logged.
func (c Contractions) Expand(word string, promising bool, logger *slog.Logger) []string {
	if options, ok := c[word]; ok && len(options) > 0 {
		if len(options) == 1 || !promising {
			return strings.Fields(options[0])
		}
		return strings.Fields(options[1])
	}

	expanded := guessContraction(word, promising)
	if expanded == nil {
		if strings.Contains(word, "'") {
			if logger == nil {
				logger = slog.Default()
			}
			logger.Warn("unhandled contraction, stripping apostrophes", "word", word)
		}
		expanded = []string{word}
	}

	for i, w := range expanded {
		expanded[i] = strings.ReplaceAll(w, "'", "")
	}
	return expanded
}

// guessContraction applies the common English contraction suffixes.
// With promising false only the stem is kept.
func guessContraction(word string, promising bool) []string {
	var guess []string
	switch {
	case strings.HasSuffix(word, "n't"):
		guess = []string{word[:len(word)-3], "not"}
	case strings.HasSuffix(word, "'s"):
		guess = []string{word[:len(word)-2], "is"}
	case strings.HasSuffix(word, "'re"):
		guess = []string{word[:len(word)-3], "are"}
	case strings.HasSuffix(word, "'ll"):
		guess = []string{word[:len(word)-3], "will"}
	case strings.HasSuffix(word, "'d"):
		guess = []string{word[:len(word)-2], "would"}
	}

	if guess != nil && !promising {
		guess = guess[:1] // just the secure part
	}
	return guess
}
