// Package ngram builds frequency tables of fixed-length word windows and
// narrows them through a composable filter pipeline.
package ngram

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cognicore/rhetor/pkg/rhetor/internalerr"
)

// Supported n-gram degrees.
const (
	MinDegree = 2
	MaxDegree = 4
)

// Entry is one n-gram with its frequency.
type Entry struct {
	Words []string
	Count int
}

// Table is a frequency table of n-length word windows. Filters narrow it in
// place and can be chained in any order.
type Table struct {
	n    int
	freq map[string]int
}

// Words never contain spaces after whitespace tokenization, so a joined
// key is unambiguous and sorts like the word tuple.
const sep = " "

// Build counts every window of n consecutive words. n must be 2, 3 or 4.
func Build(words []string, n int) (*Table, error) {
	if n < MinDegree || n > MaxDegree {
		return nil, fmt.Errorf("%w: n-gram degree must be %d to %d, got %d",
			internalerr.ErrInvalidInput, MinDegree, MaxDegree, n)
	}

	t := &Table{n: n, freq: make(map[string]int)}
	for i := 0; i+n <= len(words); i++ {
		t.freq[strings.Join(words[i:i+n], sep)]++
	}
	return t, nil
}

// Degree returns the table's n.
func (t *Table) Degree() int { return t.n }

// Len returns the number of distinct n-grams left.
func (t *Table) Len() int { return len(t.freq) }

// FilterLength drops n-grams containing a word shorter than min or longer
// than max characters. A zero bound is ignored.
func (t *Table) FilterLength(min, max int) {
	t.dropWords(func(w string) bool {
		n := utf8.RuneCountInString(w)
		return (min > 0 && n < min) || (max > 0 && n > max)
	})
}

// FilterFrequency drops n-grams occurring fewer than min times.
func (t *Table) FilterFrequency(min int) {
	for key, count := range t.freq {
		if count < min {
			delete(t.freq, key)
		}
	}
}

// FilterStopwords drops n-grams containing any of the given words, or any
// word of the default stopword set when none are given.
func (t *Table) FilterStopwords(words []string) {
	if len(words) == 0 {
		words = DefaultStopwords
	}
	stops := make(map[string]struct{}, len(words))
	for _, w := range words {
		stops[w] = struct{}{}
	}

	t.dropWords(func(w string) bool {
		_, ok := stops[w]
		return ok
	})
}

// FilterContains keeps only n-grams containing at least one of the given
// words, compared case-insensitively.
func (t *Table) FilterContains(words []string) {
	wanted := make(map[string]struct{}, len(words))
	for _, w := range words {
		wanted[strings.ToLower(w)] = struct{}{}
	}

	for key := range t.freq {
		keep := false
		for _, w := range strings.Split(key, sep) {
			if _, ok := wanted[strings.ToLower(w)]; ok {
				keep = true
				break
			}
		}
		if !keep {
			delete(t.freq, key)
		}
	}
}

// dropWords removes every n-gram with at least one word matching bad.
func (t *Table) dropWords(bad func(string) bool) {
	for key := range t.freq {
		for _, w := range strings.Split(key, sep) {
			if bad(w) {
				delete(t.freq, key)
				break
			}
		}
	}
}

// Entries returns the remaining n-grams sorted by descending frequency,
// ties broken by ascending lexicographic order of the word tuple.
func (t *Table) Entries() []Entry {
	keys := make([]string, 0, len(t.freq))
	for key := range t.freq {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if t.freq[keys[i]] != t.freq[keys[j]] {
			return t.freq[keys[i]] > t.freq[keys[j]]
		}
		return keys[i] < keys[j]
	})

	entries := make([]Entry, len(keys))
	for i, key := range keys {
		entries[i] = Entry{Words: strings.Split(key, sep), Count: t.freq[key]}
	}
	return entries
}
