package translate

import (
	"fmt"
	"log/slog"

	"github.com/roach88/regram/internal/gramquery"
	"github.com/roach88/regram/internal/regexast"
)

// Translator converts regular expressions into gram queries.
type Translator struct {
	cfg    Config
	logger *slog.Logger
}

// Option configures a Translator.
type Option func(*Translator)

// WithLogger sets the logger used for debug output.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(t *Translator) {
		t.logger = logger
	}
}

// New creates a Translator. Returns *ConfigError for invalid settings.
func New(cfg Config, opts ...Option) (*Translator, error) {
	if cfg.Dialect == "" {
		cfg.Dialect = regexast.DialectRE2
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Translator{cfg: cfg}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func (t *Translator) log() *slog.Logger {
	if t.logger != nil {
		return t.logger
	}
	return slog.Default()
}

// Config returns the translator's settings.
func (t *Translator) Config() Config {
	return t.cfg
}

// Translate parses pattern and returns its simplified gram query.
//
// Equivalent to SimplifyDNF(ToDNFLimit(TranslateUnsimplified(pattern))).
func (t *Translator) Translate(pattern string) (gramquery.Query, error) {
	raw, err := t.TranslateUnsimplified(pattern)
	if err != nil {
		return nil, err
	}
	simplified := gramquery.SimplifyDNF(gramquery.ToDNFLimit(raw, t.cfg.MaxClauses))

	t.log().Debug("pattern translated",
		"pattern", pattern,
		"dialect", t.cfg.Dialect,
		"query", simplified.String(),
	)
	return simplified, nil
}

// TranslateUnsimplified parses pattern and returns the raw query, before
// DNF conversion and simplification.
func (t *Translator) TranslateUnsimplified(pattern string) (gramquery.Query, error) {
	node, err := regexast.Parse(pattern, t.cfg.Dialect)
	if err != nil {
		return nil, err
	}
	return t.TranslateAST(node)
}

// TranslateAST translates an already-parsed tree into a raw query.
// Trees that fail regexast.Validate are rejected with a *regexast.TreeError.
func (t *Translator) TranslateAST(node regexast.Node) (gramquery.Query, error) {
	if err := regexast.Validate(node).Err(); err != nil {
		return nil, err
	}
	tr := &translation{cfg: t.cfg, budget: newBudget(t.cfg.MaxExpansion)}
	result, err := tr.translate(node)
	if err != nil {
		return nil, err
	}
	if tr.budget.Exhausted() {
		t.log().Debug("exact expansion budget exhausted",
			"limit", t.cfg.MaxExpansion,
			"spent", tr.budget.Spent(),
		)
	}
	return tr.toQuery(result), nil
}

// Explanation holds every pipeline stage for one pattern.
type Explanation struct {
	Pattern    string
	Dialect    regexast.Dialect
	AST        string // regexast.Format dump
	Raw        gramquery.Query
	DNF        gramquery.Query
	Simplified gramquery.Query
}

// Explain runs the pipeline and keeps each intermediate result.
func (t *Translator) Explain(pattern string) (*Explanation, error) {
	node, err := regexast.Parse(pattern, t.cfg.Dialect)
	if err != nil {
		return nil, err
	}
	raw, err := t.TranslateAST(node)
	if err != nil {
		return nil, err
	}
	dnf := gramquery.ToDNFLimit(raw, t.cfg.MaxClauses)
	return &Explanation{
		Pattern:    pattern,
		Dialect:    t.cfg.Dialect,
		AST:        regexast.Format(node),
		Raw:        raw,
		DNF:        dnf,
		Simplified: gramquery.SimplifyDNF(dnf),
	}, nil
}

var defaultTranslator = func() *Translator {
	t, err := New(DefaultConfig())
	if err != nil {
		panic(fmt.Sprintf("default translate config invalid: %v", err))
	}
	return t
}()

// Translate translates pattern with DefaultConfig.
func Translate(pattern string) (gramquery.Query, error) {
	return defaultTranslator.Translate(pattern)
}

// TranslateUnsimplified returns the raw query for pattern with
// DefaultConfig.
func TranslateUnsimplified(pattern string) (gramquery.Query, error) {
	return defaultTranslator.TranslateUnsimplified(pattern)
}
