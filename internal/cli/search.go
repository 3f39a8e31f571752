package cli

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/roach88/regram/internal/regexast"
	"github.com/roach88/regram/internal/render"
	"github.com/roach88/regram/internal/translate"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	TranslateFlags
	Database string
	Verify   bool
}

// SearchResult holds the documents selected for a pattern.
type SearchResult struct {
	Pattern    string   `json:"pattern"`
	Query      string   `json:"query"`
	IndexQuery string   `json:"index_query"`
	Candidates []string `json:"candidates"`
	Matches    []string `json:"matches,omitempty"`
	Verified   bool     `json:"verified"`
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search --db <path> <pattern>",
		Short: "Find candidate documents for a pattern",
		Long: `Translate a pattern with the index's gram length and print the IDs of
documents the gram query selects.

With --verify, each candidate is checked with the exact regex and only
real matches are printed. Verification needs the re2 dialect.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(opts, args[0], cmd)
		},
	}

	addTranslateFlags(cmd, &opts.TranslateFlags)
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "keep only documents the regex matches")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runSearch(opts *SearchOptions, pattern string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.loadConfig(cmd, &opts.TranslateFlags)
	if err != nil {
		return formatter.Fail("loading config", err)
	}

	idx, err := openIndex(opts.RootOptions, cmd, &opts.TranslateFlags, opts.Database)
	if err != nil {
		return formatter.Fail("opening index", err)
	}
	defer func() {
		if closeErr := idx.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	// Queries must be built for the index's gram length.
	tc := cfg.Translate()
	tc.GramLength = idx.GramLength()
	tc.Normalize = idx.Normalized()
	tr, err := translate.New(tc, translate.WithLogger(slog.Default()))
	if err != nil {
		return formatter.Fail("creating translator", err)
	}

	q, err := tr.Translate(pattern)
	if err != nil {
		return formatter.Fail("translating pattern", err)
	}

	ctx := cmd.Context()
	candidates, err := idx.Candidates(ctx, q)
	if err != nil {
		return formatter.Fail("selecting candidates", err)
	}

	result := SearchResult{
		Pattern:    pattern,
		Query:      q.String(),
		IndexQuery: render.IndexQueryString(q, cfg.Render()),
		Candidates: candidates,
	}

	if opts.Verify {
		if tc.Dialect != regexast.DialectRE2 {
			_ = formatter.Error(ErrCodeGeneric, "--verify requires the re2 dialect", nil)
			return NewExitError(ExitCommandError, "--verify requires the re2 dialect")
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return formatter.Fail("compiling pattern", err)
		}
		result.Matches = []string{}
		for _, id := range candidates {
			doc, err := idx.Get(ctx, id)
			if err != nil {
				return formatter.Fail("reading document", err)
			}
			if re.MatchString(doc.Body) {
				result.Matches = append(result.Matches, id)
			}
		}
		result.Verified = true
		formatter.VerboseLog("%d of %d candidate(s) matched", len(result.Matches), len(candidates))
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	formatter.VerboseLog("query: %s", result.IndexQuery)
	ids := result.Candidates
	if result.Verified {
		ids = result.Matches
	}
	for _, id := range ids {
		fmt.Fprintln(formatter.Writer, id)
	}
	return nil
}
