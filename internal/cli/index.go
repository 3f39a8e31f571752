package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/regram/internal/gramindex"
)

// IndexOptions holds flags for the index command.
type IndexOptions struct {
	*RootOptions
	TranslateFlags
	Database string
}

// IndexResult summarizes an index run.
type IndexResult struct {
	Database   string   `json:"database"`
	GramLength int      `json:"gram_length"`
	Added      []string `json:"added"`
	Total      int      `json:"total"`
}

// NewIndexCommand creates the index command.
func NewIndexCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IndexOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "index --db <path> [files...]",
		Short: "Add documents to a gram index",
		Long: `Add documents to the SQLite gram index at --db, creating it if needed.

Each file becomes one document. Without files, each line of standard
input becomes one document. The gram length is fixed when the index is
created; later runs must use the same length.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(opts, args, cmd)
		},
	}

	addTranslateFlags(cmd, &opts.TranslateFlags)
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// openIndex opens the database with the resolved gram settings. The gram
// length is only enforced when set explicitly, so an existing index keeps
// its own.
func openIndex(opts *RootOptions, cmd *cobra.Command, flags *TranslateFlags, path string) (*gramindex.Index, error) {
	cfg, err := opts.loadConfig(cmd, flags)
	if err != nil {
		return nil, err
	}
	gramLength := 0
	if cmd.Flags().Changed("gram-length") || opts.ConfigPath != "" {
		gramLength = cfg.GramLength
	}

	slog.Debug("opening index", "path", path)
	return gramindex.Open(path, gramindex.Options{
		GramLength: gramLength,
		Normalize:  cfg.Normalize,
		Logger:     slog.Default(),
	})
}

func runIndex(opts *IndexOptions, files []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	idx, err := openIndex(opts.RootOptions, cmd, &opts.TranslateFlags, opts.Database)
	if err != nil {
		return formatter.Fail("opening index", err)
	}
	defer func() {
		if closeErr := idx.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	result := IndexResult{Database: opts.Database, GramLength: idx.GramLength(), Added: []string{}}

	add := func(body string) error {
		id, err := idx.Add(ctx, body)
		if err != nil {
			return err
		}
		result.Added = append(result.Added, id)
		formatter.VerboseLog("added %s (%d bytes)", id, len(body))
		return nil
	}

	if len(files) == 0 {
		if err := addLines(cmd.InOrStdin(), add); err != nil {
			return formatter.Fail("indexing standard input", err)
		}
	}
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("reading %s: %v", path, err), nil)
			return WrapExitError(ExitCommandError, "reading document", err)
		}
		if err := add(string(data)); err != nil {
			return formatter.Fail("indexing "+path, err)
		}
	}

	result.Total, err = idx.Count(ctx)
	if err != nil {
		return formatter.Fail("counting documents", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Added %d document(s) to %s (%d total, gram length %d)\n",
		len(result.Added), result.Database, result.Total, result.GramLength)
	return nil
}

// addLines adds each non-empty line of r as a document.
func addLines(r io.Reader, add func(string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if err := add(line); err != nil {
			return err
		}
	}
	return scanner.Err()
}
