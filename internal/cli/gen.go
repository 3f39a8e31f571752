package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/regram/internal/codegen"
	"github.com/roach88/regram/internal/translate"
)

// GenOptions holds flags for the gen command.
type GenOptions struct {
	*RootOptions
	TranslateFlags
	Package string
	Output  string
}

// GenResult describes a generated file.
type GenResult struct {
	Output   string   `json:"output"`
	Package  string   `json:"package"`
	Patterns []string `json:"patterns"`
}

// NewGenCommand creates the gen command.
func NewGenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "gen --output <file.go> name=pattern...",
		Short: "Generate Go source with precomputed gram clauses",
		Long: `Generate a Go file declaring, for each name=pattern argument, a
[][]string variable holding the pattern's simplified gram clauses.

Examples:
  regram gen --package grams --output grams/grams.go Hello=hello 'Data=data*(bcd|pqr)'`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(opts, args, cmd)
		},
	}

	addTranslateFlags(cmd, &opts.TranslateFlags)
	cmd.Flags().StringVar(&opts.Package, "package", "grams", "package name of the generated file")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (required)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

// parsePatternArgs splits name=pattern arguments. The pattern may itself
// contain '='.
func parsePatternArgs(args []string) ([]codegen.Pattern, error) {
	patterns := make([]codegen.Pattern, 0, len(args))
	for _, arg := range args {
		name, pattern, ok := strings.Cut(arg, "=")
		if !ok || name == "" || pattern == "" {
			return nil, fmt.Errorf("argument %q must have the form name=pattern", arg)
		}
		patterns = append(patterns, codegen.Pattern{Name: name, Pattern: pattern})
	}
	return patterns, nil
}

func runGen(opts *GenOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	patterns, err := parsePatternArgs(args)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid arguments", err)
	}

	cfg, err := opts.loadConfig(cmd, &opts.TranslateFlags)
	if err != nil {
		return formatter.Fail("loading config", err)
	}
	tr, err := translate.New(cfg.Translate(), translate.WithLogger(slog.Default()))
	if err != nil {
		return formatter.Fail("creating translator", err)
	}

	g, err := codegen.New(codegen.Config{
		Package:    opts.Package,
		Patterns:   patterns,
		Translator: tr,
		Logger:     slog.Default(),
	})
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid generator config", err)
	}
	if err := g.Generate(); err != nil {
		return formatter.Fail("generating code", err)
	}
	if err := g.Save(opts.Output); err != nil {
		_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "writing output", err)
	}

	result := GenResult{Output: opts.Output, Package: opts.Package}
	for _, p := range patterns {
		result.Patterns = append(result.Patterns, p.Name)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Wrote %d pattern(s) to %s\n", len(patterns), opts.Output)
	return nil
}
