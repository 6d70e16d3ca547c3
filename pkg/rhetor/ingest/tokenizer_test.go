package ingest

import (
	"reflect"
	"testing"
)

var testContractions = Contractions{
	"can't": {"cannot"},
	"he's":  {"he has", "he is"},
	"it's":  {"it has", "it is"},
}

func TestTokenizeBasic(t *testing.T) {
	tok := NewTokenizer(nil, nil)

	got := tok.Tokenize("The Quick brown FOX", Options{})
	want := []string{"the", "quick", "brown", "fox"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestCleanWord(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"hello!", "hello"},
		{"-hyphen-", "hyphen"},
		{"well-known", "well-known"},
		{"don't", "don't"},
		{"1984", ""},   // purely numeric
		{"...", ""},    // empty after cleaning
		{"utf-8", "utf-8"},
	}
	for _, c := range cases {
		if got := CleanWord(c.in); got != c.want {
			t.Errorf("CleanWord(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTokenizeCleanDropsTokens(t *testing.T) {
	tok := NewTokenizer(nil, nil)

	got := tok.Tokenize("stop 123 ... here", Options{CleanWords: true})
	want := []string{"stop", "here"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestDecontractDictionary(t *testing.T) {
	tok := NewTokenizer(testContractions, nil)
	opts := Options{Decontract: true, PromisingContraction: true}

	got := tok.Tokenize("he's gone", opts)
	want := []string{"he", "is", "gone"} // second candidate is the common reading
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}

	opts.PromisingContraction = false
	got = tok.Tokenize("he's gone", opts)
	want = []string{"he", "has", "gone"} // literal first candidate
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestDecontractSingleCandidate(t *testing.T) {
	tok := NewTokenizer(testContractions, nil)

	// one candidate wins regardless of the promising flag
	got := tok.Tokenize("can't stop", Options{Decontract: true, PromisingContraction: true})
	want := []string{"cannot", "stop"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestDecontractGuess(t *testing.T) {
	tok := NewTokenizer(testContractions, nil)

	got := tok.Tokenize("they're wasn't she'll we'd dog's",
		Options{Decontract: true, PromisingContraction: true})
	want := []string{"they", "are", "was", "not", "she", "will", "we", "would", "dog", "is"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestDecontractSecureParts(t *testing.T) {
	tok := NewTokenizer(testContractions, nil)

	// promising off keeps only the stem of guessed contractions
	got := tok.Tokenize("they're happy", Options{Decontract: true})
	want := []string{"they", "happy"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestDecontractUnresolvable(t *testing.T) {
	tok := NewTokenizer(testContractions, nil)

	// not in the dictionary, no suffix applies: apostrophes stripped
	got := tok.Tokenize("o'clock", Options{Decontract: true, PromisingContraction: true})
	want := []string{"oclock"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestDecontractIdempotent(t *testing.T) {
	// a word free of apostrophes comes back unchanged
	got := testContractions.Expand("plain", true, nil)
	if !reflect.DeepEqual(got, []string{"plain"}) {
		t.Errorf("Expand = %v, want [plain]", got)
	}
}

func TestTokenizePositions(t *testing.T) {
	tok := NewTokenizer(testContractions, nil)

	words, positions := tok.TokenizePositions("he's 123 gone",
		Options{CleanWords: true, Decontract: true, PromisingContraction: true})

	wantWords := []string{"he", "is", "gone"}
	// both expanded words map to index 0; "123" is dropped but still
	// consumed whitespace index 1, so "gone" keeps index 2
	wantPos := []int{0, 0, 2}

	if !reflect.DeepEqual(words, wantWords) {
		t.Errorf("words = %v, want %v", words, wantWords)
	}
	if !reflect.DeepEqual(positions, wantPos) {
		t.Errorf("positions = %v, want %v", positions, wantPos)
	}
}
