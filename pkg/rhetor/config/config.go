// Package config loads the YAML configuration files: the pattern/criteria
// definitions, the contraction dictionary, the stopword list, and the
// analysis settings.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/rhetor/pkg/rhetor/criteria"
	"github.com/cognicore/rhetor/pkg/rhetor/ingest"
	"github.com/cognicore/rhetor/pkg/rhetor/internalerr"
)

// PatternWord is one searchable pattern inside a category. Regular
// expressions are written as "{ expression }".
type PatternWord struct {
	String string   `yaml:"string"`
	Tags   []string `yaml:"tags"`
}

// PatternCategory groups the patterns scored together as one criterion.
type PatternCategory struct {
	Criteria   string         `yaml:"criteria"` // human-readable explanation
	Against    []string       `yaml:"against"`  // denominator tags, "*" for all
	Ratios     map[string]int `yaml:"ratios"`   // percentage → rank
	CountSplit bool           `yaml:"count_split"`
	Meaning    string         `yaml:"meaning"` // regex pattern explanation
	Words      []PatternWord  `yaml:"words"`
}

// RatioList converts the percentage → rank map into thresholds sorted by
// ascending percentage, the order the scorer applies them in.
func (c PatternCategory) RatioList() ([]criteria.Ratio, error) {
	ratios := make([]criteria.Ratio, 0, len(c.Ratios))
	for key, rank := range c.Ratios {
		percent, err := strconv.ParseFloat(key, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: ratio key %q is not a number", internalerr.ErrInvalidConfig, key)
		}
		ratios = append(ratios, criteria.Ratio{Percent: percent, Rank: rank})
	}
	sort.Slice(ratios, func(i, j int) bool { return ratios[i].Percent < ratios[j].Percent })
	return ratios, nil
}

// TagDef declares one grammatical tag.
type TagDef struct {
	Parent  string `yaml:"parent"`
	Meaning string `yaml:"meaning"`
}

// Patterns is the full pattern configuration file.
type Patterns struct {
	Patterns map[string]PatternCategory `yaml:"patterns"`
	Ranking  []string                   `yaml:"criteria_ranking"`
	Tags     map[string]TagDef          `yaml:"tags"`

	// Optional lexicon for the built-in word → tag tagger.
	Lexicon    map[string]string `yaml:"lexicon"`
	DefaultTag string            `yaml:"default_tag"`
}

// LoadPatterns loads the pattern configuration from a YAML file.
func LoadPatterns(path string) (*Patterns, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p Patterns
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}

	return &p, nil
}

// TagParents returns the tag → parent links for building the hierarchy.
func (p *Patterns) TagParents() map[string]string {
	parents := make(map[string]string, len(p.Tags))
	for tag, def := range p.Tags {
		parents[tag] = def.Parent
	}
	return parents
}

// ContractionsFile is the contraction dictionary configuration.
type ContractionsFile struct {
	Contractions map[string][]string `yaml:"contractions"`
}

// LoadContractions loads the contraction dictionary from a YAML file.
func LoadContractions(path string) (ingest.Contractions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f ContractionsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}

	return ingest.Contractions(f.Contractions), nil
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}

	return &sl, nil
}
