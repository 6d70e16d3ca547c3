// Package search answers pattern queries against a built index: literal
// single-word, literal multi-word, and single-word regex patterns, honoring
// the tag hierarchy. Every result is a copy; callers can mutate match sets
// freely without touching index state.
package search

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/cognicore/rhetor/pkg/rhetor/index"
	"github.com/cognicore/rhetor/pkg/rhetor/ingest"
	"github.com/cognicore/rhetor/pkg/rhetor/internalerr"
	"github.com/cognicore/rhetor/pkg/rhetor/tagset"
)

// Engine finds pattern occurrences in one indexed document.
type Engine struct {
	idx       *index.Index
	sentences []string
	tags      *tagset.Hierarchy
	tokenizer *ingest.Tokenizer
	opts      ingest.Options
	matchTags bool
}

// New creates a search engine over idx. opts must be the tokenizer options
// the index was built with, so patterns tokenize the same way the document
// did. matchTags disables tag filtering globally when false.
func New(idx *index.Index, sentences []string, tags *tagset.Hierarchy, tok *ingest.Tokenizer, opts ingest.Options, matchTags bool) *Engine {
	return &Engine{
		idx:       idx,
		sentences: sentences,
		tags:      tags,
		tokenizer: tok,
		opts:      opts,
		matchTags: matchTags,
	}
}

// Kind discriminates the parsed pattern variants.
type Kind int

const (
	// Literal is a pattern of one or more literal words.
	Literal Kind = iota
	// SingleWordRegex is a regular expression matched against distinct words.
	SingleWordRegex
)

// Query is a pattern parsed once, before matching.
type Query struct {
	Kind  Kind
	Words []string // literal words, or the single regex source
	Tags  []string // one per word when tag-constrained
}

// ParsePattern classifies and tokenizes a raw pattern. A pattern wrapped in
// "{ ... }" is a single-word regular expression; anything else is tokenized
// with the engine's settings. A non-empty tags list must match the word count.
func (e *Engine) ParsePattern(pattern string, tags []string) (Query, error) {
	q := Query{Tags: tags}

	if strings.HasPrefix(pattern, "{") && strings.HasSuffix(pattern, "}") {
		q.Kind = SingleWordRegex
		q.Words = strings.Fields(pattern[1 : len(pattern)-1])
		if len(q.Words) != 1 {
			return Query{}, fmt.Errorf("%w: regex patterns must contain exactly one word, got %q",
				internalerr.ErrInvalidInput, pattern)
		}
	} else {
		q.Kind = Literal
		q.Words = e.tokenizer.Tokenize(pattern, e.opts)
		if len(q.Words) == 0 {
			return Query{}, fmt.Errorf("%w: empty pattern %q", internalerr.ErrInvalidInput, pattern)
		}
	}

	if len(tags) > 0 && len(tags) != len(q.Words) {
		return Query{}, fmt.Errorf("%w: pattern has %d words but %d tags",
			internalerr.ErrInvalidInput, len(q.Words), len(tags))
	}

	return q, nil
}

// FindPattern parses pattern and returns its occurrences in the text.
// Regular expressions are written as "{ expression }", e.g. "{ pre.* }".
func (e *Engine) FindPattern(pattern string, tags []string) (*index.MatchSet, error) {
	q, err := e.ParsePattern(pattern, tags)
	if err != nil {
		return nil, err
	}
	return e.Find(q)
}

// Find answers a parsed query.
func (e *Engine) Find(q Query) (*index.MatchSet, error) {
	if q.Kind == SingleWordRegex {
		return e.findRegex(q)
	}
	if len(q.Words) == 1 {
		return e.findWord(q), nil
	}
	return e.findChain(q), nil
}

// useTags reports whether the query's tag constraints apply.
func (e *Engine) useTags(q Query) bool {
	return e.matchTags && len(q.Tags) > 0
}

// findWord resolves a single literal word via the sorted word index.
func (e *Engine) findWord(q Query) *index.MatchSet {
	result := &index.MatchSet{Words: append([]string(nil), q.Words...)}

	entry := e.idx.Lookup(q.Words[0])
	if entry == nil {
		return result
	}

	filter := e.useTags(q)
	for _, occ := range entry.Occurrences {
		if filter && !e.tags.IsDescendant(q.Tags[0], occ.Tags[0]) {
			continue
		}
		result.Add(occ.Clone())
	}
	return result
}

// findChain resolves a multi-word literal pattern: the first word anchors the
// match, the remaining words must follow contiguously in the ordered index,
// inside the same sentence, with each tag a descendant of its pattern tag.
func (e *Engine) findChain(q Query) *index.MatchSet {
	result := &index.MatchSet{Words: append([]string(nil), q.Words...)}

	anchors := e.findWord(Query{Kind: Literal, Words: q.Words[:1], Tags: firstTag(q.Tags)})
	filter := e.useTags(q)

	for _, anchor := range anchors.Occurrences {
		end := anchor.Pos + len(q.Words)
		if end > len(e.idx.Ordered) {
			continue
		}

		section := e.idx.Ordered[anchor.Pos+1 : end]
		if !e.chainMatches(section, anchor, q, filter) {
			continue
		}

		occ := index.Occurrence{
			Pos:      anchor.Pos,
			Sentence: anchor.Sentence,
			PosSent:  append([]int{anchor.PosSent[0]}, posSentOf(section)...),
			Tags:     append([]string{anchor.Tags[0]}, tagsOf(section)...),
		}
		result.Add(occ)
	}
	return result
}

func (e *Engine) chainMatches(section []index.Token, anchor index.Occurrence, q Query, filter bool) bool {
	for i, tok := range section {
		if tok.Word != q.Words[i+1] || tok.Sentence != anchor.Sentence {
			return false
		}
		if filter && !e.tags.IsDescendant(q.Tags[i+1], tok.Tag) {
			return false
		}
	}
	return true
}

// findRegex scans the sorted word index, one check per distinct word. A word
// is selected when the expression fully matches it and, under a tag filter,
// every occurrence of the word satisfies the tag relation. The literal word
// is recorded as the match payload of each emitted occurrence.
func (e *Engine) findRegex(q Query) (*index.MatchSet, error) {
	src := q.Words[0]
	matcher, err := regexp.Compile("^(?:" + src + ")$")
	if err != nil {
		return nil, fmt.Errorf("%w: bad regex %q: %v", internalerr.ErrInvalidInput, src, err)
	}

	result := &index.MatchSet{Words: append([]string(nil), q.Words...), Regex: src}
	filter := e.useTags(q)

	for _, entry := range e.idx.Sorted {
		if !matcher.MatchString(entry.Word) {
			continue
		}
		if filter && !e.allOccurrencesMatch(entry, q.Tags[0]) {
			continue
		}
		for _, occ := range entry.Occurrences {
			result.AddMatched(occ.Clone(), entry.Word)
		}
	}
	return result, nil
}

func (e *Engine) allOccurrencesMatch(entry *index.Entry, tag string) bool {
	for _, occ := range entry.Occurrences {
		if !e.tags.IsDescendant(tag, occ.Tags[0]) {
			return false
		}
	}
	return true
}

// NgramSentences returns the sentence(s) containing each occurrence of ngram.
// An occurrence bridging several sentences yields them concatenated with a
// single space. A first word absent from the sorted index means the n-gram
// did not come from this index: the index is corrupt and the lookup fails.
func (e *Engine) NgramSentences(ngram []string) ([]string, error) {
	if len(ngram) == 0 {
		return nil, fmt.Errorf("%w: empty ngram", internalerr.ErrInvalidInput)
	}

	entry := e.idx.Lookup(ngram[0])
	if entry == nil {
		return nil, fmt.Errorf("%w: word %q missing from sorted index", internalerr.ErrIndexCorrupt, ngram[0])
	}

	var results []string
	for _, occ := range entry.Occurrences {
		end := occ.Pos + len(ngram)
		if end > len(e.idx.Ordered) {
			continue
		}

		section := e.idx.Ordered[occ.Pos:end]
		if !wordsEqual(section, ngram) {
			continue
		}

		// decontraction can make a window straddle a sentence boundary
		seen := make(map[int]struct{}, len(section))
		var nums []int
		for _, tok := range section {
			if _, ok := seen[tok.Sentence]; !ok {
				seen[tok.Sentence] = struct{}{}
				nums = append(nums, tok.Sentence)
			}
		}
		sort.Ints(nums)

		parts := make([]string, len(nums))
		for i, n := range nums {
			parts[i] = e.sentences[n]
		}
		results = append(results, strings.Join(parts, " "))
	}
	return results, nil
}

func wordsEqual(section []index.Token, words []string) bool {
	for i, tok := range section {
		if tok.Word != words[i] {
			return false
		}
	}
	return true
}

func firstTag(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	return tags[:1]
}

func posSentOf(section []index.Token) []int {
	out := make([]int, len(section))
	for i, tok := range section {
		out[i] = tok.PosSent
	}
	return out
}

func tagsOf(section []index.Token) []string {
	out := make([]string, len(section))
	for i, tok := range section {
		out[i] = tok.Tag
	}
	return out
}
