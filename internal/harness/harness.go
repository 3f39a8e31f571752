package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/regram/internal/config"
	"github.com/roach88/regram/internal/gramindex"
	"github.com/roach88/regram/internal/gramquery"
	"github.com/roach88/regram/internal/regexast"
	"github.com/roach88/regram/internal/render"
	"github.com/roach88/regram/internal/testutil"
	"github.com/roach88/regram/internal/translate"
)

// Harness holds the per-scenario state.
type Harness struct {
	cfg         config.Config
	index       *gramindex.Index
	documents   []string
	ids         []string
	translators map[regexast.Dialect]*translate.Translator
	logger      *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory index with sequential
// document IDs, so results are reproducible.
//
// Execution flow:
// 1. Resolve settings from the scenario config
// 2. Create the scratch index and add the documents
// 3. Translate every case and check its expectations
// 4. Evaluate the scenario assertions
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context for index access.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	cfg, err := scenarioConfig(scenario.Config)
	if err != nil {
		return nil, fmt.Errorf("scenario config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests

	idx, err := gramindex.Open(":memory:", gramindex.Options{
		GramLength: cfg.GramLength,
		Normalize:  cfg.Normalize,
		IDs:        testutil.NewSequenceIDGenerator("doc"),
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch index: %w", err)
	}
	defer idx.Close()

	h := &Harness{
		cfg:         cfg,
		index:       idx,
		documents:   scenario.Documents,
		translators: make(map[regexast.Dialect]*translate.Translator),
		logger:      logger,
	}

	for i, body := range scenario.Documents {
		id, err := idx.Add(ctx, body)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		h.ids = append(h.ids, id)
	}

	result := NewResult()
	for i, c := range scenario.Cases {
		cr, err := h.runCase(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("case %d (%q): %w", i, c.Pattern, err)
		}
		result.Cases = append(result.Cases, cr)
		for _, msg := range checkExpectations(c, cr) {
			result.AddError(msg)
		}
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions, h) {
		result.AddError(msg)
	}

	h.logger.Info("scenario completed",
		"name", scenario.Name,
		"cases", len(result.Cases),
		"pass", result.Pass,
	)
	return result, nil
}

// scenarioConfig applies the scenario overrides through the config
// loader so they get the same validation as a config file.
func scenarioConfig(overrides map[string]any) (config.Config, error) {
	if len(overrides) == 0 {
		return config.Default(), nil
	}
	data, err := yaml.Marshal(overrides)
	if err != nil {
		return config.Config{}, err
	}
	return config.Parse(data)
}

// translator returns the translator for dialect, creating it on first use.
func (h *Harness) translator(dialect regexast.Dialect) (*translate.Translator, error) {
	if tr, ok := h.translators[dialect]; ok {
		return tr, nil
	}
	tc := h.cfg.Translate()
	tc.Dialect = dialect
	tr, err := translate.New(tc, translate.WithLogger(h.logger))
	if err != nil {
		return nil, err
	}
	h.translators[dialect] = tr
	return tr, nil
}

// runCase translates one pattern. Translation errors are recorded on the
// result; only harness failures are returned.
func (h *Harness) runCase(ctx context.Context, c Case) (CaseResult, error) {
	dialect := regexast.Dialect(h.cfg.Dialect)
	if c.Dialect != "" {
		d, err := regexast.ParseDialect(c.Dialect)
		if err != nil {
			return CaseResult{}, err
		}
		dialect = d
	}
	cr := CaseResult{Pattern: c.Pattern, Dialect: string(dialect)}

	tr, err := h.translator(dialect)
	if err != nil {
		return CaseResult{}, err
	}
	q, err := tr.Translate(c.Pattern)
	if err != nil {
		cr.Error = err.Error()
		return cr, nil
	}

	cr.Query = q.String()
	cr.IndexQuery = render.IndexQueryString(q, h.cfg.Render())
	cr.Clauses = gramquery.Clauses(q)

	if len(h.documents) > 0 {
		cr.Candidates, err = h.index.Candidates(ctx, q)
		if err != nil {
			return CaseResult{}, err
		}
	}

	// Only RE2 syntax can be checked with the standard matcher.
	if dialect == regexast.DialectRE2 {
		re, err := regexp.Compile(c.Pattern)
		if err == nil {
			cr.checked = true
			for i, body := range h.documents {
				if re.MatchString(body) {
					cr.Matches = append(cr.Matches, h.ids[i])
				}
			}
		}
	}
	return cr, nil
}

// checkExpectations compares one case against its expected values.
func checkExpectations(c Case, cr CaseResult) []string {
	var errs []string
	fail := func(what, expected, actual string) {
		errs = append(errs, (&AssertionError{
			Type:     what,
			Pattern:  c.Pattern,
			Expected: expected,
			Actual:   actual,
		}).Error())
	}

	if c.Error != "" {
		if !strings.Contains(cr.Error, c.Error) {
			fail("error", fmt.Sprintf("error containing %q", c.Error), describeError(cr.Error))
		}
		return errs
	}
	if cr.Error != "" {
		fail("translate", "successful translation", cr.Error)
		return errs
	}
	if c.Expect != "" && c.Expect != cr.Query {
		fail("expect", c.Expect, cr.Query)
	}
	if c.IndexQuery != "" && c.IndexQuery != cr.IndexQuery {
		fail("index_query", c.IndexQuery, cr.IndexQuery)
	}
	if c.Candidates != nil && !slices.Equal(c.Candidates, cr.Candidates) {
		fail("candidates", fmt.Sprintf("%v", c.Candidates), fmt.Sprintf("%v", cr.Candidates))
	}
	return errs
}

func describeError(msg string) string {
	if msg == "" {
		return "no error"
	}
	return msg
}
