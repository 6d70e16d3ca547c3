// Package criteria turns per-category match counts and tag-occurrence
// counters into percentages and discrete manipulation ranks.
package criteria

import (
	"math"

	"github.com/cognicore/rhetor/pkg/rhetor/tagset"
)

// Ratio maps a percentage threshold to a manipulation rank.
type Ratio struct {
	Percent float64
	Rank    int
}

// Category is the scoring configuration of one pattern group.
// Ratios must be sorted by ascending Percent.
type Category struct {
	Explanation string
	Against     []string // denominator tags; the wildcard sums all counters
	Ratios      []Ratio
	CountSplit  bool
}

// Result is the scored outcome of one category.
type Result struct {
	Explanation string
	Found       int
	Against     int
	Percentage  float64
	Rank        int
	Label       string
}

// Score computes the result for one category. The denominator sums the
// counters of every Against tag, or all counters under the wildcard.
// The rank is the last ascending threshold not exceeding the percentage,
// labeled from ranking; a short ranking list leaves the label empty.
func Score(cat Category, found int, tagCounts map[string]int, ranking []string) Result {
	against := 0
	if containsWildcard(cat.Against) {
		for _, count := range tagCounts {
			against += count
		}
	} else {
		for _, tag := range cat.Against {
			against += tagCounts[tag]
		}
	}

	percentage := 0.0
	if against > 0 {
		percentage = round2(float64(found) / float64(against) * 100)
	}

	rank := 0
	for _, r := range cat.Ratios {
		if r.Percent <= percentage {
			rank = r.Rank
		} else {
			break
		}
	}

	label := ""
	if rank >= 0 && rank < len(ranking) {
		label = ranking[rank]
	}

	return Result{
		Explanation: cat.Explanation,
		Found:       found,
		Against:     against,
		Percentage:  percentage,
		Rank:        rank,
		Label:       label,
	}
}

// ScoreAll scores every category against its match count in found.
func ScoreAll(cats map[string]Category, found map[string]int, tagCounts map[string]int, ranking []string) map[string]Result {
	results := make(map[string]Result, len(cats))
	for name, cat := range cats {
		results[name] = Score(cat, found[name], tagCounts, ranking)
	}
	return results
}

func containsWildcard(tags []string) bool {
	for _, tag := range tags {
		if tag == tagset.Wildcard {
			return true
		}
	}
	return false
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
