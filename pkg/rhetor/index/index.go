// Package index builds the position-addressable views of one document:
// an ordered token sequence and a word-sorted index merging all occurrences
// of each distinct word.
package index

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/cognicore/rhetor/pkg/rhetor/ingest"
	"github.com/cognicore/rhetor/pkg/rhetor/internalerr"
)

// Token is one word instance at a specific document position.
type Token struct {
	Word     string
	Tag      string
	Sentence int // sentence index in the document
	PosSent  int // position relative to the whitespace split of the sentence
	Pos      int // absolute document position
}

// Occurrence is one located instance of a pattern match of 1..N words.
// PosSent and Tags hold one entry per pattern word.
type Occurrence struct {
	Pos      int // absolute position of the first word
	Sentence int
	PosSent  []int
	Tags     []string
}

// Clone returns a deep copy of the occurrence.
func (o Occurrence) Clone() Occurrence {
	c := Occurrence{Pos: o.Pos, Sentence: o.Sentence}
	c.PosSent = make([]int, len(o.PosSent))
	copy(c.PosSent, o.PosSent)
	c.Tags = make([]string, len(o.Tags))
	copy(c.Tags, o.Tags)
	return c
}

// MatchSet accumulates the occurrences of one pattern, in document order.
type MatchSet struct {
	Words    []string
	Category string

	// Regex holds the source expression when the set answers a
	// single-word regex query; Matched then records, per occurrence,
	// the literal word that satisfied it.
	Regex   string
	Meaning string
	Matched []string

	Occurrences []Occurrence
}

// Add appends an occurrence.
func (m *MatchSet) Add(o Occurrence) {
	m.Occurrences = append(m.Occurrences, o)
}

// AddMatched appends an occurrence together with the literal word that
// satisfied the regex pattern.
func (m *MatchSet) AddMatched(o Occurrence, literal string) {
	m.Occurrences = append(m.Occurrences, o)
	m.Matched = append(m.Matched, literal)
}

// Len returns the number of occurrences.
func (m *MatchSet) Len() int { return len(m.Occurrences) }

// Clone returns a deep copy; mutating it never affects index state.
func (m *MatchSet) Clone() *MatchSet {
	c := &MatchSet{
		Words:    append([]string(nil), m.Words...),
		Category: m.Category,
		Regex:    m.Regex,
		Meaning:  m.Meaning,
		Matched:  append([]string(nil), m.Matched...),
	}
	c.Occurrences = make([]Occurrence, len(m.Occurrences))
	for i, o := range m.Occurrences {
		c.Occurrences[i] = o.Clone()
	}
	return c
}

// Entry groups all occurrences of one distinct word, in document order.
type Entry struct {
	Word        string
	Occurrences []Occurrence
}

// Tagger assigns one grammatical tag per word. Implementations must be
// length-preserving: len(Tag(words)) == len(words).
type Tagger interface {
	Tag(words []string) []string
}

// TaggerFunc adapts a function to the Tagger interface.
type TaggerFunc func(words []string) []string

// Tag implements Tagger.
func (f TaggerFunc) Tag(words []string) []string { return f(words) }

// Index is the position-addressable view of one document.
// Ordered has exactly one entry per token (Ordered[i].Pos == i);
// Sorted has one entry per distinct word, sorted lexicographically.
type Index struct {
	Ordered   []Token
	Sorted    []*Entry
	TagCounts map[string]int
}

// Build tokenizes and tags the given sentences into a fresh index.
// knownTags seeds the tag counters; an unrecognized tag increments its own
// ad-hoc counter and is logged, never fatal. A tagger breaking the 1:1
// length contract is a configuration error.
func Build(sentences []string, tok *ingest.Tokenizer, opts ingest.Options, tagger Tagger, knownTags []string, logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = slog.Default()
	}

	idx := &Index{TagCounts: make(map[string]int, len(knownTags))}
	known := make(map[string]struct{}, len(knownTags))
	for _, tag := range knownTags {
		idx.TagCounts[tag] = 0
		known[tag] = struct{}{}
	}

	pos := 0
	for n, sentence := range sentences {
		words, positions := tok.TokenizePositions(sentence, opts)
		if len(words) == 0 {
			continue
		}

		tags := tagger.Tag(words)
		if len(tags) != len(words) {
			return nil, fmt.Errorf("%w: tagger returned %d tags for %d words",
				internalerr.ErrInvalidConfig, len(tags), len(words))
		}

		for i, word := range words {
			tag := tags[i]
			if _, ok := known[tag]; !ok {
				logger.Warn("tag not recognized", "tag", tag, "word", word)
			}
			idx.TagCounts[tag]++

			idx.Ordered = append(idx.Ordered, Token{
				Word:     word,
				Tag:      tag,
				Sentence: n,
				PosSent:  positions[i],
				Pos:      pos,
			})
			idx.insertSorted(word, Occurrence{
				Pos:      pos,
				Sentence: n,
				PosSent:  []int{positions[i]},
				Tags:     []string{tag},
			})
			pos++
		}
	}

	return idx, nil
}

// Lookup binary-searches the sorted word index for the exact word.
// Returns nil when the word does not occur in the document.
func (x *Index) Lookup(word string) *Entry {
	i := sort.Search(len(x.Sorted), func(i int) bool {
		return x.Sorted[i].Word >= word
	})
	if i < len(x.Sorted) && x.Sorted[i].Word == word {
		return x.Sorted[i]
	}
	return nil
}

// insertSorted adds one occurrence to the sorted word index, merging it into
// the existing entry for the word or inserting a new entry at its sorted
// position. Indexing is strictly left-to-right, so per-entry occurrences stay
// in document order.
func (x *Index) insertSorted(word string, occ Occurrence) {
	i := sort.Search(len(x.Sorted), func(i int) bool {
		return x.Sorted[i].Word >= word
	})

	if i < len(x.Sorted) && x.Sorted[i].Word == word {
		x.Sorted[i].Occurrences = append(x.Sorted[i].Occurrences, occ)
		return
	}

	entry := &Entry{Word: word, Occurrences: []Occurrence{occ}}
	x.Sorted = append(x.Sorted, nil)
	copy(x.Sorted[i+1:], x.Sorted[i:])
	x.Sorted[i] = entry
}

// Words returns the document's literal words in order.
func (x *Index) Words() []string {
	words := make([]string, len(x.Ordered))
	for i, t := range x.Ordered {
		words[i] = t.Word
	}
	return words
}
