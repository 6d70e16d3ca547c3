// Package rhetor is the manipulation-pattern analysis engine facade. An
// Analyzer owns one (text, settings) analysis: it builds the token index,
// searches the configured pattern categories, scores them into manipulation
// criteria, and answers ad-hoc pattern and n-gram queries.
//
// An Analyzer is not safe for concurrent use; callers wanting parallelism
// run one Analyzer per document.
package rhetor

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/rhetor/pkg/rhetor/config"
	"github.com/cognicore/rhetor/pkg/rhetor/criteria"
	"github.com/cognicore/rhetor/pkg/rhetor/index"
	"github.com/cognicore/rhetor/pkg/rhetor/ingest"
	"github.com/cognicore/rhetor/pkg/rhetor/internalerr"
	"github.com/cognicore/rhetor/pkg/rhetor/ngram"
	"github.com/cognicore/rhetor/pkg/rhetor/search"
	"github.com/cognicore/rhetor/pkg/rhetor/store"
	"github.com/cognicore/rhetor/pkg/rhetor/tagset"
)

// SentimentAnalyzer scores a single sentence. Implementations are external
// collaborators; the engine only caches their per-sentence output.
type SentimentAnalyzer interface {
	Name() string
	Score(sentence string) float64
}

// Options configures an Analyzer instance.
type Options struct {
	Patterns     map[string]config.PatternCategory
	Ranking      []string // rank → label
	Tags         *tagset.Hierarchy
	Tagger       index.Tagger
	Contractions ingest.Contractions
	Stopwords    []string // default n-gram stopword source
	Sentiment    []SentimentAnalyzer
	Settings     config.Settings
	Logger       *slog.Logger
}

// Analyzer is the analysis engine for one document at a time.
type Analyzer struct {
	settings   config.Settings
	patterns   map[string]config.PatternCategory
	categories map[string]criteria.Category
	ranking    []string
	tags       *tagset.Hierarchy
	tagger     index.Tagger
	tokenizer  *ingest.Tokenizer
	stopwords  []string
	sentiment  []SentimentAnalyzer
	logger     *slog.Logger
	entropy    *ulid.MonotonicEntropy

	// state of the current analysis, valid for one (text, settings) pair
	text            string
	sentences       []string
	idx             *index.Index
	engine          *search.Engine
	searchResults   []*index.MatchSet
	categoryCounts  map[string]int
	criteriaResults map[string]criteria.Result
	sentimentScores map[string][]float64
	analyzed        bool
	critical        bool
}

// New creates an Analyzer with the given dependencies. The pattern ratios
// are validated and pre-sorted; a ranking list too short for the configured
// ranks is a configuration error.
func New(opts Options) (*Analyzer, error) {
	if opts.Tagger == nil {
		return nil, fmt.Errorf("%w: a tagger is required", internalerr.ErrInvalidConfig)
	}
	if opts.Tags == nil {
		return nil, fmt.Errorf("%w: a tag hierarchy is required", internalerr.ErrInvalidConfig)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	categories := make(map[string]criteria.Category, len(opts.Patterns))
	for name, body := range opts.Patterns {
		ratios, err := body.RatioList()
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", name, err)
		}
		for _, r := range ratios {
			if r.Rank < 0 || r.Rank >= len(opts.Ranking) {
				return nil, fmt.Errorf("%w: category %q rank %d outside ranking list",
					internalerr.ErrInvalidConfig, name, r.Rank)
			}
		}
		categories[name] = criteria.Category{
			Explanation: body.Criteria,
			Against:     body.Against,
			Ratios:      ratios,
			CountSplit:  body.CountSplit,
		}
	}

	return &Analyzer{
		settings:   opts.Settings,
		patterns:   opts.Patterns,
		categories: categories,
		ranking:    append([]string(nil), opts.Ranking...),
		tags:       opts.Tags,
		tagger:     opts.Tagger,
		tokenizer:  ingest.NewTokenizer(opts.Contractions, logger),
		stopwords:  append([]string(nil), opts.Stopwords...),
		sentiment:  opts.Sentiment,
		logger:     logger,
		entropy:    ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Settings returns the current settings.
func (a *Analyzer) Settings() config.Settings {
	return a.settings
}

// SetSettings replaces the settings. Changing a critical setting marks the
// current index stale; the next ProcessText or SearchPatterns rebuilds it.
func (a *Analyzer) SetSettings(next config.Settings) {
	if a.settings.ChangesCritical(next) {
		a.critical = true
	}
	a.settings = next
}

// ProcessText sanitizes, splits and indexes text. A no-op when the text is
// unchanged and no critical setting changed since the last build.
func (a *Analyzer) ProcessText(text string) error {
	if a.sameText(text) && !a.critical {
		return nil
	}

	clean := ingest.Sanitize(text)
	sentences := ingest.SplitSentences(clean)

	idx, err := index.Build(sentences, a.tokenizer, a.settings.TokenizerOptions(),
		a.tagger, a.tags.Tags(), a.logger)
	if err != nil {
		return err
	}

	a.text = strings.ToLower(clean)
	a.sentences = sentences
	a.idx = idx
	a.engine = search.New(idx, sentences, a.tags, a.tokenizer,
		a.settings.TokenizerOptions(), a.settings.MatchTags)

	a.clearResults()
	a.analyzed = false
	a.critical = false
	return nil
}

func (a *Analyzer) sameText(text string) bool {
	return a.idx != nil && a.text == strings.ToLower(ingest.Sanitize(text))
}

// SearchPatterns runs every configured pattern category against text,
// re-indexing first if needed, and accumulates per-category match counts
// with overlap reconciliation. Results are cached until invalidated.
func (a *Analyzer) SearchPatterns(text string) error {
	if a.critical || !a.sameText(text) {
		if err := a.ProcessText(text); err != nil {
			return err
		}
	}
	if a.analyzed {
		return nil
	}

	var results []*index.MatchSet
	counts := make(map[string]int, len(a.patterns))

	for _, category := range a.categoryNames() {
		body := a.patterns[category]
		positions := criteria.NewPositionSet(body.CountSplit)

		for _, pw := range body.Words {
			found, err := a.engine.FindPattern(pw.String, pw.Tags)
			if err != nil {
				return fmt.Errorf("category %q pattern %q: %w", category, pw.String, err)
			}
			found.Category = category
			if found.Regex != "" {
				found.Meaning = body.Meaning
			}
			results = append(results, found)

			for _, occ := range found.Occurrences {
				positions.AddSpan(occ.Pos, len(occ.Tags))
			}
		}

		counts[category] = positions.Count()
	}

	a.searchResults = results
	a.categoryCounts = counts
	a.analyzed = true
	return nil
}

// Results returns copies of the match sets of the last SearchPatterns call.
func (a *Analyzer) Results() ([]*index.MatchSet, error) {
	if !a.analyzed {
		return nil, internalerr.ErrNoAnalysis
	}

	out := make([]*index.MatchSet, len(a.searchResults))
	for i, ms := range a.searchResults {
		out[i] = ms.Clone()
	}
	return out, nil
}

// FindPattern answers an ad-hoc pattern query against the current index.
// Regular expressions are written as "{ expression }".
func (a *Analyzer) FindPattern(pattern string, tags []string) (*index.MatchSet, error) {
	if a.engine == nil {
		return nil, internalerr.ErrNoAnalysis
	}
	return a.engine.FindPattern(pattern, tags)
}

// CriteriaResults scores every category of the last pattern search.
func (a *Analyzer) CriteriaResults() (map[string]criteria.Result, error) {
	if !a.analyzed {
		return nil, internalerr.ErrNoAnalysis
	}

	if a.criteriaResults == nil {
		a.criteriaResults = criteria.ScoreAll(a.categories, a.categoryCounts,
			a.idx.TagCounts, a.ranking)
	}

	out := make(map[string]criteria.Result, len(a.criteriaResults))
	for k, v := range a.criteriaResults {
		out[k] = v
	}
	return out, nil
}

// TagCounts returns a copy of the tag-occurrence counters of the current
// index.
func (a *Analyzer) TagCounts() (map[string]int, error) {
	if a.idx == nil {
		return nil, internalerr.ErrNoAnalysis
	}

	out := make(map[string]int, len(a.idx.TagCounts))
	for k, v := range a.idx.TagCounts {
		out[k] = v
	}
	return out, nil
}

// NgramQuery selects and filters n-grams of the current text.
type NgramQuery struct {
	N         int
	MinLength int // minimum word length in characters
	MaxLength int
	Frequency int // minimum occurrence count
	Stopwords bool
	Remove    []string
	Contains  []string
}

// QueryNgrams builds the n-gram table over the current token sequence and
// applies the query's filters. Remove and Contains must not share words.
func (a *Analyzer) QueryNgrams(q NgramQuery) ([]ngram.Entry, error) {
	if a.idx == nil {
		return nil, internalerr.ErrNoAnalysis
	}
	if shared := intersect(q.Remove, q.Contains); len(shared) > 0 {
		return nil, fmt.Errorf("%w: cannot exclude and require the same words %v",
			internalerr.ErrInvalidInput, shared)
	}

	table, err := ngram.Build(a.idx.Words(), q.N)
	if err != nil {
		return nil, err
	}

	if q.MinLength > 0 || q.MaxLength > 0 {
		table.FilterLength(q.MinLength, q.MaxLength)
	}
	if q.Frequency > 0 {
		table.FilterFrequency(q.Frequency)
	}
	if q.Stopwords {
		table.FilterStopwords(a.stopwords)
	}
	if len(q.Contains) > 0 {
		table.FilterContains(q.Contains)
	}
	if len(q.Remove) > 0 {
		table.FilterStopwords(q.Remove)
	}

	return table.Entries(), nil
}

// NgramSentences returns the sentence(s) where the n-gram appears.
func (a *Analyzer) NgramSentences(gram []string) ([]string, error) {
	if a.engine == nil {
		return nil, internalerr.ErrNoAnalysis
	}
	return a.engine.NgramSentences(gram)
}

// SentimentScores runs the configured sentiment analyzers over the current
// sentences, one score per sentence, cached per analysis run.
func (a *Analyzer) SentimentScores() (map[string][]float64, error) {
	if a.idx == nil {
		return nil, internalerr.ErrNoAnalysis
	}

	if a.sentimentScores == nil {
		a.sentimentScores = make(map[string][]float64, len(a.sentiment))
		for _, analyzer := range a.sentiment {
			scores := make([]float64, len(a.sentences))
			for i, sentence := range a.sentences {
				scores[i] = analyzer.Score(sentence)
			}
			a.sentimentScores[analyzer.Name()] = scores
		}
	}

	out := make(map[string][]float64, len(a.sentimentScores))
	for name, scores := range a.sentimentScores {
		out[name] = append([]float64(nil), scores...)
	}
	return out, nil
}

// SaveRun persists the current analysis as a ULID-identified run.
func (a *Analyzer) SaveRun(ctx context.Context, st store.Store, document string) (store.Run, error) {
	results, err := a.CriteriaResults()
	if err != nil {
		return store.Run{}, err
	}
	tagCounts, err := a.TagCounts()
	if err != nil {
		return store.Run{}, err
	}

	run := store.Run{
		ID:        ulid.MustNew(ulid.Now(), a.entropy).String(),
		Document:  document,
		CreatedAt: time.Now().UTC(),
		Settings:  a.settings,
		TagCounts: tagCounts,
		Criteria:  results,
	}

	if err := st.SaveRun(ctx, run); err != nil {
		return store.Run{}, err
	}
	return run, nil
}

// categoryNames returns the category names in deterministic order.
func (a *Analyzer) categoryNames() []string {
	names := make([]string, 0, len(a.patterns))
	for name := range a.patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (a *Analyzer) clearResults() {
	a.searchResults = nil
	a.categoryCounts = nil
	a.criteriaResults = nil
	a.sentimentScores = nil
}

func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(a))
	for _, w := range a {
		set[strings.ToLower(w)] = struct{}{}
	}

	var shared []string
	for _, w := range b {
		if _, ok := set[strings.ToLower(w)]; ok {
			shared = append(shared, w)
		}
	}
	return shared
}
