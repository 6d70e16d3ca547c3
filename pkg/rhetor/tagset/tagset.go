// Package tagset implements the grammatical tag forest used to constrain
// pattern matches. Tags link to an optional parent; the reserved wildcard "*"
// matches any tag at query time and is never stored.
package tagset

import (
	"fmt"
	"sort"

	"github.com/cognicore/rhetor/pkg/rhetor/internalerr"
)

// Wildcard matches every tag in descendant queries.
const Wildcard = "*"

// Hierarchy is a validated acyclic tag forest.
type Hierarchy struct {
	parents map[string]string // tag → parent; roots are absent
	tags    []string          // sorted tag names
}

// New builds a hierarchy from tag → parent links. An empty parent marks a
// root. Cycles, a stored wildcard, and parents that are not themselves
// declared tags are configuration errors.
func New(parents map[string]string) (*Hierarchy, error) {
	h := &Hierarchy{parents: make(map[string]string, len(parents))}

	for tag, parent := range parents {
		if tag == Wildcard {
			return nil, fmt.Errorf("%w: %q is reserved and cannot be a tag", internalerr.ErrInvalidConfig, Wildcard)
		}
		if parent != "" {
			if _, ok := parents[parent]; !ok {
				return nil, fmt.Errorf("%w: tag %q has undeclared parent %q", internalerr.ErrInvalidConfig, tag, parent)
			}
			h.parents[tag] = parent
		}
		h.tags = append(h.tags, tag)
	}
	sort.Strings(h.tags)

	// every parent chain must terminate
	for tag := range parents {
		seen := map[string]struct{}{tag: {}}
		for cur, ok := h.parents[tag]; ok; cur, ok = h.parents[cur] {
			if _, dup := seen[cur]; dup {
				return nil, fmt.Errorf("%w: tag %q is part of a parent cycle", internalerr.ErrInvalidConfig, tag)
			}
			seen[cur] = struct{}{}
		}
	}

	return h, nil
}

// Tags returns all declared tag names in sorted order.
func (h *Hierarchy) Tags() []string {
	out := make([]string, len(h.tags))
	copy(out, h.tags)
	return out
}

// Contains reports whether tag is declared.
func (h *Hierarchy) Contains(tag string) bool {
	i := sort.SearchStrings(h.tags, tag)
	return i < len(h.tags) && h.tags[i] == tag
}

// IsDescendant reports whether descendant equals ancestor or reaches it by
// walking parent links. The wildcard ancestor matches everything.
func (h *Hierarchy) IsDescendant(ancestor, descendant string) bool {
	if ancestor == Wildcard {
		return true
	}

	for {
		if descendant == ancestor {
			return true
		}
		parent, ok := h.parents[descendant]
		if !ok {
			return false
		}
		descendant = parent
	}
}

// AllDescendants checks two equal-length tag lists elementwise; every
// position must satisfy IsDescendant. Mismatched lengths are a usage error.
func (h *Hierarchy) AllDescendants(ancestors, descendants []string) (bool, error) {
	if len(ancestors) != len(descendants) {
		return false, fmt.Errorf("%w: tag lists must have the same length (%d != %d)",
			internalerr.ErrInvalidInput, len(ancestors), len(descendants))
	}

	for i, ancestor := range ancestors {
		if !h.IsDescendant(ancestor, descendants[i]) {
			return false, nil
		}
	}
	return true, nil
}
