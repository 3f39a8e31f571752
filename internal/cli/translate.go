package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/regram/internal/batch"
	"github.com/roach88/regram/internal/gramquery"
	"github.com/roach88/regram/internal/render"
	"github.com/roach88/regram/internal/translate"
)

// TranslateOptions holds flags for the translate command.
type TranslateOptions struct {
	*RootOptions
	TranslateFlags
	Stage       string
	Tree        bool
	SQL         bool
	Concurrency int
}

// TranslateResult is the output for one pattern.
type TranslateResult struct {
	Pattern    string     `json:"pattern"`
	Query      string     `json:"query,omitempty"`
	IndexQuery string     `json:"index_query,omitempty"`
	Clauses    [][]string `json:"clauses,omitempty"`
	Tree       string     `json:"tree,omitempty"`
	SQL        string     `json:"sql,omitempty"`
	Params     []any      `json:"params,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// NewTranslateCommand creates the translate command.
func NewTranslateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TranslateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "translate <pattern>...",
		Short: "Translate patterns to gram index queries",
		Long: `Translate one or more regular expressions into boolean gram queries.

Each pattern is printed with its index query string. Patterns are
translated concurrently; output keeps argument order.

Exit codes:
  0 - Every pattern translated
  1 - At least one pattern failed to parse or translate
  2 - Command error (bad config or flags)

Examples:
  regram translate 'data*(bcd|pqr)'
  regram translate --stage raw --tree 'abc?pqr?'
  regram translate --dialect pcre --sql '(?i)hello'`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(opts, args, cmd)
		},
	}

	addTranslateFlags(cmd, &opts.TranslateFlags)
	cmd.Flags().StringVar(&opts.Stage, "stage", "simplified", "pipeline stage (raw|dnf|simplified)")
	cmd.Flags().BoolVar(&opts.Tree, "tree", false, "include a tree dump of each query")
	cmd.Flags().BoolVar(&opts.SQL, "sql", false, "include the compiled SQLite query")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 0, "maximum concurrent translations (0 = GOMAXPROCS)")

	return cmd
}

func runTranslate(opts *TranslateOptions, patterns []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	stage, err := batch.ParseStage(opts.Stage)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid stage", err)
	}

	cfg, err := opts.loadConfig(cmd, &opts.TranslateFlags)
	if err != nil {
		return formatter.Fail("loading config", err)
	}
	tr, err := translate.New(cfg.Translate(), translate.WithLogger(slog.Default()))
	if err != nil {
		return formatter.Fail("creating translator", err)
	}

	results, err := batch.Translate(cmd.Context(), tr, patterns, batch.Options{
		Stage:       stage,
		Concurrency: opts.Concurrency,
	})
	if err != nil {
		return formatter.Fail("translating patterns", err)
	}

	out := make([]TranslateResult, len(results))
	failed := 0
	for i, r := range results {
		out[i] = TranslateResult{Pattern: r.Pattern}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
			failed++
			continue
		}
		if err := fillTranslateResult(&out[i], r.Query, opts, cfg.Render()); err != nil {
			return formatter.Fail("compiling SQL", err)
		}
	}

	if formatter.Format == "json" {
		if err := formatter.Success(out); err != nil {
			return err
		}
	} else {
		writeTranslateText(formatter, out, len(patterns) > 1)
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d pattern(s) failed", failed, len(patterns)))
	}
	return nil
}

func fillTranslateResult(tr *TranslateResult, q gramquery.Query, opts *TranslateOptions, ro render.Options) error {
	tr.Query = q.String()
	tr.IndexQuery = render.IndexQueryString(q, ro)
	if gramquery.IsDNF(q) {
		tr.Clauses = gramquery.Clauses(q)
	}
	if opts.Tree {
		tr.Tree = render.Tree(q)
	}
	if opts.SQL {
		sqlText, params, err := render.NewSQLCompiler().Compile(q)
		if err != nil {
			return err
		}
		tr.SQL = sqlText
		tr.Params = params
	}
	return nil
}

func writeTranslateText(f *OutputFormatter, results []TranslateResult, labelled bool) {
	w := f.Writer
	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(w, "✗ %s\n  %s\n", r.Pattern, r.Error)
			continue
		}
		if labelled {
			fmt.Fprintf(w, "%s\n  ", r.Pattern)
		}
		fmt.Fprintln(w, r.IndexQuery)
		if r.Tree != "" {
			fmt.Fprint(w, r.Tree)
		}
		if r.SQL != "" {
			fmt.Fprintf(w, "%s\n  params: %v\n", r.SQL, r.Params)
		}
		f.VerboseLog("%s -> %s", r.Pattern, r.Query)
	}
}
