package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/urfave/cli/v2"

	"github.com/cognicore/rhetor/pkg/rhetor"
	"github.com/cognicore/rhetor/pkg/rhetor/config"
	"github.com/cognicore/rhetor/pkg/rhetor/criteria"
	"github.com/cognicore/rhetor/pkg/rhetor/ingest"
	"github.com/cognicore/rhetor/pkg/rhetor/store"
	"github.com/cognicore/rhetor/pkg/rhetor/store/sqlite"
	"github.com/cognicore/rhetor/pkg/rhetor/tagset"
)

func main() {
	app := &cli.App{
		Name:  "rhetor",
		Usage: "Manipulation-pattern analysis for text documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "analyze",
				Usage:     "Analyze one or more documents (plain text or HTML)",
				ArgsUsage: "FILE...",
				Action:    analyzeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "patterns",
						Aliases:  []string{"p"},
						Usage:    "Path to the pattern configuration (YAML)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "contractions",
						Usage: "Path to the contraction dictionary (YAML)",
					},
					&cli.StringFlag{
						Name:  "stoplist",
						Usage: "Path to the stopword list (YAML)",
					},
					&cli.StringFlag{
						Name:  "settings",
						Usage: "Path to the settings file (YAML)",
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "SQLite database to save runs to",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of documents analyzed in parallel",
						Value: 4,
					},
					&cli.BoolFlag{Name: "clean-words", Usage: "Remove symbols from the text"},
					&cli.BoolFlag{Name: "decontract", Usage: "Expand contractions"},
					&cli.BoolFlag{Name: "promising", Usage: "Use the most common reading of ambiguous contractions"},
					&cli.BoolFlag{Name: "match-tags", Usage: "Enable grammatical tag matching"},
				},
			},
			{
				Name:   "runs",
				Usage:  "List saved analysis runs",
				Action: runsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "SQLite database with saved runs",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to list",
						Value: 20,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func analyzeCommand(c *cli.Context) error {
	files := c.Args().Slice()
	if len(files) == 0 {
		return fmt.Errorf("no input files given")
	}

	cfg, err := config.LoadPatterns(c.String("patterns"))
	if err != nil {
		return fmt.Errorf("load patterns: %w", err)
	}

	tags, err := tagset.New(cfg.TagParents())
	if err != nil {
		return fmt.Errorf("build tag hierarchy: %w", err)
	}

	var contractions ingest.Contractions
	if path := c.String("contractions"); path != "" {
		if contractions, err = config.LoadContractions(path); err != nil {
			return fmt.Errorf("load contractions: %w", err)
		}
	}

	var stopwords []string
	if path := c.String("stoplist"); path != "" {
		sl, err := config.LoadStoplist(path)
		if err != nil {
			return fmt.Errorf("load stoplist: %w", err)
		}
		stopwords = sl.Terms
	}

	settings := config.Settings{
		CleanWords:           c.Bool("clean-words"),
		Decontract:           c.Bool("decontract"),
		PromisingContraction: c.Bool("promising"),
		MatchTags:            c.Bool("match-tags"),
	}
	if path := c.String("settings"); path != "" {
		if settings, err = config.LoadSettings(path); err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
	}

	var st store.Store
	if path := c.String("db"); path != "" {
		if st, err = sqlite.Open(c.Context, path); err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
	}

	pool, err := ants.NewPool(c.Int("workers"))
	if err != nil {
		return err
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures int
	)

	for _, file := range files {
		file := file
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if err := analyzeFile(c.Context, file, cfg, tags, contractions, stopwords, settings, st); err != nil {
				slog.Error("analysis failed", "file", file, "error", err)
				mu.Lock()
				failures++
				mu.Unlock()
			}
		})
		if err != nil {
			wg.Done()
			return err
		}
	}
	wg.Wait()

	if failures > 0 {
		return fmt.Errorf("%d of %d documents failed", failures, len(files))
	}
	return nil
}

// analyzeFile runs one document through its own Analyzer; the engine is
// non-reentrant, so parallelism stays at the document level.
func analyzeFile(ctx context.Context, file string, cfg *config.Patterns, tags *tagset.Hierarchy,
	contractions ingest.Contractions, stopwords []string, settings config.Settings, st store.Store) error {

	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	text := string(data)
	switch strings.ToLower(filepath.Ext(file)) {
	case ".html", ".htm":
		text = ingest.StripHTML(text)
	}

	analyzer, err := rhetor.New(rhetor.Options{
		Patterns:     cfg.Patterns,
		Ranking:      cfg.Ranking,
		Tags:         tags,
		Tagger:       rhetor.NewLexiconTagger(cfg.Lexicon, cfg.DefaultTag),
		Contractions: contractions,
		Stopwords:    stopwords,
		Settings:     settings,
	})
	if err != nil {
		return err
	}

	if err := analyzer.SearchPatterns(text); err != nil {
		return err
	}
	results, err := analyzer.CriteriaResults()
	if err != nil {
		return err
	}

	printResults(file, results)

	if st != nil {
		run, err := analyzer.SaveRun(ctx, st, filepath.Base(file))
		if err != nil {
			return err
		}
		slog.Info("run saved", "file", file, "run", run.ID)
	}
	return nil
}

var printMu sync.Mutex

func printResults(file string, results map[string]criteria.Result) {
	printMu.Lock()
	defer printMu.Unlock()

	fmt.Printf("== %s\n", file)
	for _, category := range sortedKeys(results) {
		res := results[category]
		fmt.Printf("  %-24s found %4d of %6d  %6.2f%%  rank %d (%s)\n",
			category, res.Found, res.Against, res.Percentage, res.Rank, res.Label)
	}
}

func runsCommand(c *cli.Context) error {
	st, err := sqlite.Open(c.Context, c.String("db"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}

	for _, run := range runs {
		fmt.Printf("%s  %s  %s\n", run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"), run.Document)
		for _, category := range sortedKeys(run.Criteria) {
			res := run.Criteria[category]
			fmt.Printf("    %-24s %6.2f%%  %s\n", category, res.Percentage, res.Label)
		}
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	var level slog.Level
	switch strings.ToLower(c.String("log-level")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.String("log-level"))
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
