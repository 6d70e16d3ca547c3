package ngram

import (
	"errors"
	"reflect"
	"testing"

	"github.com/cognicore/rhetor/pkg/rhetor/internalerr"
)

func TestBuildBigrams(t *testing.T) {
	tbl, err := Build([]string{"a", "b", "a", "b", "c", "d"}, 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	got := tbl.Entries()
	want := []Entry{
		{Words: []string{"a", "b"}, Count: 2},
		{Words: []string{"b", "a"}, Count: 1},
		{Words: []string{"b", "c"}, Count: 1},
		{Words: []string{"c", "d"}, Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Entries = %v, want %v", got, want)
	}
}

func TestBuildDegreeBounds(t *testing.T) {
	for _, n := range []int{1, 5, 0, -2} {
		if _, err := Build([]string{"a", "b"}, n); !errors.Is(err, internalerr.ErrInvalidInput) {
			t.Errorf("Build(n=%d): got %v", n, err)
		}
	}
}

func TestBuildShortInput(t *testing.T) {
	tbl, err := Build([]string{"only", "two"}, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tbl.Len() != 0 {
		t.Errorf("Len = %d, want 0", tbl.Len())
	}
}

func TestFilterLength(t *testing.T) {
	tbl, err := Build([]string{"go", "forward", "immediately", "go"}, 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	tbl.FilterLength(3, 8)
	if tbl.Len() != 0 {
		t.Errorf("every bigram has an out-of-bounds word, %d left", tbl.Len())
	}

	tbl, _ = Build([]string{"alpha", "bravo", "charlie"}, 2)
	tbl.FilterLength(5, 0) // zero max is ignored
	if tbl.Len() != 2 {
		t.Errorf("Len = %d, want 2", tbl.Len())
	}
}

func TestFilterFrequency(t *testing.T) {
	tbl, err := Build([]string{"x", "y", "x", "y", "z"}, 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	tbl.FilterFrequency(2)
	got := tbl.Entries()
	if len(got) != 1 || got[0].Count != 2 || !reflect.DeepEqual(got[0].Words, []string{"x", "y"}) {
		t.Errorf("Entries = %v", got)
	}
}

func TestFilterStopwords(t *testing.T) {
	tbl, err := Build([]string{"quick", "fox", "the", "fox"}, 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	tbl.FilterStopwords([]string{"the"})
	got := tbl.Entries()
	if len(got) != 1 || !reflect.DeepEqual(got[0].Words, []string{"quick", "fox"}) {
		t.Errorf("Entries = %v", got)
	}
}

func TestFilterStopwordsDefault(t *testing.T) {
	tbl, err := Build([]string{"the", "fox", "jumped"}, 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// "the" is in the default set
	tbl.FilterStopwords(nil)
	got := tbl.Entries()
	if len(got) != 1 || !reflect.DeepEqual(got[0].Words, []string{"fox", "jumped"}) {
		t.Errorf("Entries = %v", got)
	}
}

func TestFilterContains(t *testing.T) {
	tbl, err := Build([]string{"red", "fox", "blue", "bird"}, 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	tbl.FilterContains([]string{"FOX"})
	got := tbl.Entries()
	want := []Entry{
		{Words: []string{"fox", "blue"}, Count: 1},
		{Words: []string{"red", "fox"}, Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Entries = %v, want %v", got, want)
	}
}

func TestEntriesOrdering(t *testing.T) {
	// frequency descending, then word tuple ascending
	tbl, err := Build([]string{"b", "b", "a", "a", "b", "b"}, 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	got := tbl.Entries()
	want := []Entry{
		{Words: []string{"b", "b"}, Count: 2},
		{Words: []string{"a", "a"}, Count: 1},
		{Words: []string{"a", "b"}, Count: 1},
		{Words: []string{"b", "a"}, Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Entries = %v, want %v", got, want)
	}
}
