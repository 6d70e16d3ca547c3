package rhetor

import "github.com/cognicore/rhetor/pkg/rhetor/index"

// LexiconTagger is a minimal word → tag lookup tagger. It exists so the CLI
// is usable standalone; real deployments inject a proper POS tagger through
// Options.Tagger.
type LexiconTagger struct {
	lexicon  map[string]string
	fallback string
}

// NewLexiconTagger creates a tagger over the given lexicon. Words not in the
// lexicon get the fallback tag.
func NewLexiconTagger(lexicon map[string]string, fallback string) *LexiconTagger {
	return &LexiconTagger{lexicon: lexicon, fallback: fallback}
}

// Tag implements index.Tagger.
func (t *LexiconTagger) Tag(words []string) []string {
	tags := make([]string, len(words))
	for i, word := range words {
		if tag, ok := t.lexicon[word]; ok {
			tags[i] = tag
		} else {
			tags[i] = t.fallback
		}
	}
	return tags
}

var _ index.Tagger = (*LexiconTagger)(nil)
