package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/regram/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the regram CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "regram",
		Short: "regram - regular expressions to gram index queries",
		Long: `Translate regular expressions into boolean queries over fixed-length
grams, so an n-gram inverted index can pre-filter documents before the
exact regex runs.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			configureLogging(cmd, opts.Verbose)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")

	// Add subcommands
	cmd.AddCommand(NewTranslateCommand(opts))
	cmd.AddCommand(NewExplainCommand(opts))
	cmd.AddCommand(NewIndexCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewGenCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// configureLogging installs a text handler on stderr; debug records are
// shown only with --verbose.
func configureLogging(cmd *cobra.Command, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// formatter builds the output formatter for a command.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// TranslateFlags are the per-command overrides of config file settings.
type TranslateFlags struct {
	Dialect    string
	GramLength int
	Normalize  bool
}

func addTranslateFlags(cmd *cobra.Command, f *TranslateFlags) {
	cmd.Flags().StringVar(&f.Dialect, "dialect", "", "regex dialect (re2|pcre)")
	cmd.Flags().IntVar(&f.GramLength, "gram-length", 0, "gram length in runes")
	cmd.Flags().BoolVar(&f.Normalize, "normalize", false, "apply Unicode NFC to literals")
}

// loadConfig reads --config (or the defaults) and applies the flags the
// user set explicitly.
func (o *RootOptions) loadConfig(cmd *cobra.Command, f *TranslateFlags) (config.Config, error) {
	cfg := config.Default()
	if o.ConfigPath != "" {
		loaded, err := config.Load(o.ConfigPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if f == nil {
		return cfg, nil
	}

	flags := cmd.Flags()
	if flags.Changed("dialect") {
		cfg.Dialect = f.Dialect
	}
	if flags.Changed("gram-length") {
		cfg.GramLength = f.GramLength
	}
	if flags.Changed("normalize") {
		cfg.Normalize = f.Normalize
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
