package criteria

// PositionSet aggregates which token spans count toward a category before
// scoring. In split mode every covered position counts individually and
// duplicates across patterns collapse. Otherwise spans are kept as contiguous
// ranges with the invariant that no accepted range strictly contains another:
// when a new span covers an already-accepted range it is discarded (the
// narrower range wins), and when a new span is covered by an accepted range
// the broader range is evicted in place.
type PositionSet struct {
	split     bool
	positions map[int]struct{}
	ranges    [][2]int // inclusive first/last token positions
}

// NewPositionSet creates an empty set. split selects whether covered
// positions are counted individually.
func NewPositionSet(split bool) *PositionSet {
	return &PositionSet{
		split:     split,
		positions: make(map[int]struct{}),
	}
}

// AddSpan records a match covering length tokens starting at first.
func (s *PositionSet) AddSpan(first, length int) {
	if length <= 0 {
		return
	}
	last := first + length - 1

	if s.split {
		for p := first; p <= last; p++ {
			s.positions[p] = struct{}{}
		}
		return
	}

	// an accepted range inside the new span is more specific: keep it
	for _, r := range s.ranges {
		if first <= r[0] && r[1] <= last {
			return
		}
	}

	kept := s.ranges[:0]
	for _, r := range s.ranges {
		if r[0] <= first && last <= r[1] {
			continue // broader than the new span, evict
		}
		kept = append(kept, r)
	}
	s.ranges = append(kept, [2]int{first, last})
}

// Count returns the number of counted positions or accepted ranges.
func (s *PositionSet) Count() int {
	if s.split {
		return len(s.positions)
	}
	return len(s.ranges)
}

// Ranges returns the accepted ranges as (first, last) pairs.
// Meaningful only in non-split mode.
func (s *PositionSet) Ranges() [][2]int {
	out := make([][2]int, len(s.ranges))
	copy(out, s.ranges)
	return out
}
