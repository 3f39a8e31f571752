// Package batch translates many patterns concurrently.
//
// A Translator is stateless between calls, so one instance is shared by
// every worker. Results come back in input order regardless of which
// worker finished first. A pattern that fails to translate does not stop
// the batch; its error is kept on its Result.
package batch

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/regram/internal/gramquery"
	"github.com/roach88/regram/internal/translate"
)

// Stage selects which pipeline output a batch returns.
type Stage string

const (
	StageRaw        Stage = "raw"
	StageDNF        Stage = "dnf"
	StageSimplified Stage = "simplified"
)

// ParseStage validates a stage name. Empty means StageSimplified.
func ParseStage(name string) (Stage, error) {
	switch Stage(name) {
	case "", StageSimplified:
		return StageSimplified, nil
	case StageRaw, StageDNF:
		return Stage(name), nil
	}
	return "", fmt.Errorf("unknown stage %q (want raw, dnf or simplified)", name)
}

// Result is the outcome for one pattern.
type Result struct {
	Pattern string
	Query   gramquery.Query
	Err     error
}

// Options configures a batch run.
type Options struct {
	// Stage defaults to StageSimplified.
	Stage Stage

	// Concurrency caps the workers; zero means GOMAXPROCS.
	Concurrency int
}

// Translate runs every pattern through tr. The returned slice is parallel
// to patterns. The error is non-nil only when ctx is cancelled or a worker
// panics; per-pattern failures are reported in Result.Err.
func Translate(ctx context.Context, tr *translate.Translator, patterns []string, opts Options) ([]Result, error) {
	stage, err := ParseStage(string(opts.Stage))
	if err != nil {
		return nil, err
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(patterns))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, pattern := range patterns {
		i, pattern := i, pattern
		if gctx.Err() != nil {
			break
		}
		g.Go(func() (retErr error) {
			defer func() {
				if r := recover(); r != nil {
					retErr = fmt.Errorf("translate %q: panic: %v", pattern, r)
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			q, err := translateStage(tr, pattern, stage)
			results[i] = Result{Pattern: pattern, Query: q, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func translateStage(tr *translate.Translator, pattern string, stage Stage) (gramquery.Query, error) {
	switch stage {
	case StageRaw:
		return tr.TranslateUnsimplified(pattern)
	case StageDNF:
		raw, err := tr.TranslateUnsimplified(pattern)
		if err != nil {
			return nil, err
		}
		return gramquery.ToDNFLimit(raw, tr.Config().MaxClauses), nil
	default:
		return tr.Translate(pattern)
	}
}

// FirstError returns the first per-pattern error in input order, or nil.
func FirstError(results []Result) error {
	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("pattern %q: %w", r.Pattern, r.Err)
		}
	}
	return nil
}
