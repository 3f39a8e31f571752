package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/regram/internal/render"
	"github.com/roach88/regram/internal/translate"
)

// ExplainOptions holds flags for the explain command.
type ExplainOptions struct {
	*RootOptions
	TranslateFlags
}

// ExplainStage is one pipeline stage in the explain output.
type ExplainStage struct {
	Name  string `json:"name"`
	Query string `json:"query"`
	Tree  string `json:"tree"`
}

// ExplainResult holds every stage for one pattern.
type ExplainResult struct {
	Pattern    string         `json:"pattern"`
	Dialect    string         `json:"dialect"`
	AST        string         `json:"ast"`
	Stages     []ExplainStage `json:"stages"`
	IndexQuery string         `json:"index_query"`
}

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExplainOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "explain <pattern>",
		Short: "Show every translation stage for a pattern",
		Long: `Show the parsed syntax tree and the raw, DNF and simplified queries
for a pattern, each as a tree and in its string form.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(opts, args[0], cmd)
		},
	}

	addTranslateFlags(cmd, &opts.TranslateFlags)
	return cmd
}

func runExplain(opts *ExplainOptions, pattern string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.loadConfig(cmd, &opts.TranslateFlags)
	if err != nil {
		return formatter.Fail("loading config", err)
	}
	tr, err := translate.New(cfg.Translate(), translate.WithLogger(slog.Default()))
	if err != nil {
		return formatter.Fail("creating translator", err)
	}

	exp, err := tr.Explain(pattern)
	if err != nil {
		return formatter.Fail("explaining pattern", err)
	}

	result := ExplainResult{
		Pattern:    exp.Pattern,
		Dialect:    string(exp.Dialect),
		AST:        exp.AST,
		IndexQuery: render.IndexQueryString(exp.Simplified, cfg.Render()),
		Stages: []ExplainStage{
			{Name: "raw", Query: exp.Raw.String(), Tree: render.TreeWithRoot("raw", exp.Raw)},
			{Name: "dnf", Query: exp.DNF.String(), Tree: render.TreeWithRoot("dnf", exp.DNF)},
			{Name: "simplified", Query: exp.Simplified.String(), Tree: render.TreeWithRoot("simplified", exp.Simplified)},
		},
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "pattern: %s (%s)\n", result.Pattern, result.Dialect)
	fmt.Fprintf(w, "ast: %s\n\n", result.AST)
	for _, stage := range result.Stages {
		fmt.Fprintf(w, "%s: %s\n", stage.Name, stage.Query)
		fmt.Fprintln(w, stage.Tree)
	}
	fmt.Fprintf(w, "index query: %s\n", result.IndexQuery)
	return nil
}
