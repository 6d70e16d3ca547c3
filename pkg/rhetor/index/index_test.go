package index

import (
	"errors"
	"reflect"
	"testing"

	"github.com/cognicore/rhetor/pkg/rhetor/ingest"
	"github.com/cognicore/rhetor/pkg/rhetor/internalerr"
)

var constTagger = TaggerFunc(func(words []string) []string {
	tags := make([]string, len(words))
	for i := range tags {
		tags[i] = "word"
	}
	return tags
})

func buildTestIndex(t *testing.T, sentences []string) *Index {
	t.Helper()
	idx, err := Build(sentences, ingest.NewTokenizer(nil, nil), ingest.Options{},
		constTagger, []string{"word"}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return idx
}

func TestBuildOrdered(t *testing.T) {
	idx := buildTestIndex(t, []string{"the dog ran", "the cat"})

	want := []string{"the", "dog", "ran", "the", "cat"}
	if got := idx.Words(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Words = %v, want %v", got, want)
	}

	for i, tok := range idx.Ordered {
		if tok.Pos != i {
			t.Errorf("Ordered[%d].Pos = %d", i, tok.Pos)
		}
	}
	if idx.Ordered[3].Sentence != 1 || idx.Ordered[3].PosSent != 0 {
		t.Errorf("second sentence start = %+v", idx.Ordered[3])
	}
}

func TestBuildSortedMergesOccurrences(t *testing.T) {
	idx := buildTestIndex(t, []string{"the dog ran", "the cat"})

	entry := idx.Lookup("the")
	if entry == nil {
		t.Fatal("Lookup(the) = nil")
	}
	if len(entry.Occurrences) != 2 {
		t.Fatalf("expected 2 occurrences of \"the\", got %d", len(entry.Occurrences))
	}
	if entry.Occurrences[0].Pos != 0 || entry.Occurrences[1].Pos != 3 {
		t.Errorf("occurrence positions = %d, %d", entry.Occurrences[0].Pos, entry.Occurrences[1].Pos)
	}

	// sorted index covers every token exactly once
	total := 0
	prev := ""
	for _, e := range idx.Sorted {
		if e.Word <= prev {
			t.Errorf("sorted index out of order: %q after %q", e.Word, prev)
		}
		prev = e.Word
		total += len(e.Occurrences)
	}
	if total != len(idx.Ordered) {
		t.Errorf("sorted index holds %d occurrences, ordered has %d tokens", total, len(idx.Ordered))
	}
}

func TestLookupMiss(t *testing.T) {
	idx := buildTestIndex(t, []string{"the dog ran"})
	if entry := idx.Lookup("wolf"); entry != nil {
		t.Errorf("Lookup(wolf) = %+v, want nil", entry)
	}
}

func TestBuildTagCounts(t *testing.T) {
	tagger := TaggerFunc(func(words []string) []string {
		tags := make([]string, len(words))
		for i, w := range words {
			if w == "ran" {
				tags[i] = "surprise"
			} else {
				tags[i] = "word"
			}
		}
		return tags
	})

	idx, err := Build([]string{"the dog ran"}, ingest.NewTokenizer(nil, nil), ingest.Options{},
		tagger, []string{"word", "unused"}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := map[string]int{"word": 2, "unused": 0, "surprise": 1}
	if !reflect.DeepEqual(idx.TagCounts, want) {
		t.Errorf("TagCounts = %v, want %v", idx.TagCounts, want)
	}
}

func TestBuildTaggerLengthMismatch(t *testing.T) {
	broken := TaggerFunc(func(words []string) []string { return []string{"word"} })

	_, err := Build([]string{"the dog ran"}, ingest.NewTokenizer(nil, nil), ingest.Options{},
		broken, []string{"word"}, nil)
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestMatchSetClone(t *testing.T) {
	m := &MatchSet{Words: []string{"dog"}}
	m.Add(Occurrence{Pos: 4, Sentence: 1, PosSent: []int{2}, Tags: []string{"word"}})

	c := m.Clone()
	c.Occurrences[0].Tags[0] = "changed"
	c.Words[0] = "cat"

	if m.Occurrences[0].Tags[0] != "word" || m.Words[0] != "dog" {
		t.Error("Clone shares state with the original")
	}
}
