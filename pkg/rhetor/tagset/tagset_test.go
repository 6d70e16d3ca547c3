package tagset

import (
	"errors"
	"testing"

	"github.com/cognicore/rhetor/pkg/rhetor/internalerr"
)

func testHierarchy(t *testing.T) *Hierarchy {
	t.Helper()
	h, err := New(map[string]string{
		"verb":      "",
		"verb_past": "verb",
		"verb_ing":  "verb",
		"noun":      "",
		"noun_prop": "noun",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return h
}

func TestIsDescendantReflexive(t *testing.T) {
	h := testHierarchy(t)
	for _, tag := range h.Tags() {
		if !h.IsDescendant(tag, tag) {
			t.Errorf("IsDescendant(%q, %q) = false", tag, tag)
		}
		if !h.IsDescendant(Wildcard, tag) {
			t.Errorf("IsDescendant(*, %q) = false", tag)
		}
	}
}

func TestIsDescendantWalk(t *testing.T) {
	h := testHierarchy(t)

	if !h.IsDescendant("verb", "verb_past") {
		t.Error("verb_past should be a descendant of verb")
	}
	if h.IsDescendant("verb_past", "verb") {
		t.Error("verb is not a descendant of verb_past")
	}
	if h.IsDescendant("noun", "verb_ing") {
		t.Error("verb_ing is not a descendant of noun")
	}
}

func TestIsDescendantUnknownTag(t *testing.T) {
	h := testHierarchy(t)
	if h.IsDescendant("verb", "mystery") {
		t.Error("unknown tag should not match")
	}
	if !h.IsDescendant(Wildcard, "mystery") {
		t.Error("wildcard should match unknown tags too")
	}
}

func TestAllDescendants(t *testing.T) {
	h := testHierarchy(t)

	ok, err := h.AllDescendants([]string{"verb", "*"}, []string{"verb_past", "noun"})
	if err != nil {
		t.Fatalf("AllDescendants: %v", err)
	}
	if !ok {
		t.Error("expected all positions to match")
	}

	ok, err = h.AllDescendants([]string{"verb", "noun"}, []string{"verb_past", "verb"})
	if err != nil {
		t.Fatalf("AllDescendants: %v", err)
	}
	if ok {
		t.Error("second position should not match")
	}
}

func TestAllDescendantsLengthMismatch(t *testing.T) {
	h := testHierarchy(t)

	_, err := h.AllDescendants([]string{"verb"}, []string{"verb", "noun"})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNewRejectsCycle(t *testing.T) {
	_, err := New(map[string]string{
		"a": "b",
		"b": "c",
		"c": "a",
	})
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for a cycle, got %v", err)
	}
}

func TestNewRejectsWildcard(t *testing.T) {
	_, err := New(map[string]string{"*": ""})
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for stored wildcard, got %v", err)
	}
}

func TestNewRejectsUndeclaredParent(t *testing.T) {
	_, err := New(map[string]string{"child": "ghost"})
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for undeclared parent, got %v", err)
	}
}
