package ingest

import (
	"log/slog"
	"strings"
	"unicode"
)

// Options controls how a sentence is split into words.
type Options struct {
	// CleanWords strips any character that is not a letter, a digit,
	// an internal hyphen or an apostrophe.
	CleanWords bool
	// Decontract expands contractions using the dictionary,
	// falling back to suffix heuristics.
	Decontract bool
	// PromisingContraction picks the most common reading of an
	// ambiguous contraction instead of the literal one.
	PromisingContraction bool
}

// Tokenizer splits sentences into lower-cased words. The whitespace split is
// the base unit; cleaning and decontraction transform individual tokens
// without reordering them.
type Tokenizer struct {
	contractions Contractions
	logger       *slog.Logger
}

// NewTokenizer creates a tokenizer with the given contraction dictionary.
func NewTokenizer(contractions Contractions, logger *slog.Logger) *Tokenizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tokenizer{contractions: contractions, logger: logger}
}

// Tokenize splits a sentence into words applying opts.
func (t *Tokenizer) Tokenize(sentence string, opts Options) []string {
	words, _ := t.tokenize(sentence, opts, false)
	return words
}

// TokenizePositions works like Tokenize and also reports, for each output
// word, its index in the plain whitespace split of the sentence. Cleaning can
// drop tokens and decontraction can multiply them, so the mapping is not 1:1:
// every word expanded from one contraction maps back to the same index.
func (t *Tokenizer) TokenizePositions(sentence string, opts Options) ([]string, []int) {
	return t.tokenize(sentence, opts, true)
}

func (t *Tokenizer) tokenize(sentence string, opts Options, track bool) ([]string, []int) {
	var words []string
	var positions []int

	for idx, word := range strings.Fields(strings.ToLower(sentence)) {
		if opts.CleanWords {
			word = CleanWord(word)
			if word == "" {
				continue
			}
		}

		emitted := 1
		if opts.Decontract {
			expanded := t.contractions.Expand(word, opts.PromisingContraction, t.logger)
			words = append(words, expanded...)
			emitted = len(expanded)
		} else {
			words = append(words, word)
		}

		if track {
			for n := 0; n < emitted; n++ {
				positions = append(positions, idx)
			}
		}
	}

	if !track {
		return words, nil
	}
	return words, positions
}

// CleanWord strips a leading and a trailing hyphen, then removes every
// character that is not a letter, a digit, a hyphen or an apostrophe.
// Returns "" for tokens that end up empty or purely numeric.
func CleanWord(word string) string {
	word = strings.TrimPrefix(word, "-")
	word = strings.TrimSuffix(word, "-")

	var b strings.Builder
	for _, r := range word {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '\'' {
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "" || isNumericOnly(cleaned) {
		return ""
	}
	return cleaned
}

// isNumericOnly returns true if the token contains only digits.
func isNumericOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
