// Package codegen writes Go source holding precomputed gram clauses.
//
// Each named pattern becomes a package-level [][]string variable: the
// simplified DNF clauses of its gram query, one inner slice per clause.
// A document is a candidate for the pattern when it contains every gram
// of at least one clause. A pattern that imposes no constraint becomes a
// nil variable.
package codegen

import (
	"fmt"
	"go/token"
	"io"
	"log/slog"

	"github.com/dave/jennifer/jen"

	"github.com/roach88/regram/internal/gramquery"
	"github.com/roach88/regram/internal/translate"
)

// Pattern is one named pattern to generate.
type Pattern struct {
	Name    string // Go identifier of the generated variable
	Pattern string
}

// Config describes the generated file.
type Config struct {
	Package    string
	Patterns   []Pattern
	Translator *translate.Translator
	Logger     *slog.Logger
}

// Generator builds one Go file.
type Generator struct {
	config Config
	file   *jen.File
	logger *slog.Logger
}

// reservedNames are declared by every generated file, or cannot name a
// package-level variable.
var reservedNames = map[string]bool{
	"GramLength": true,
	"Patterns":   true,
	"init":       true,
	"_":          true,
}

// New validates config and returns a Generator.
func New(config Config) (*Generator, error) {
	if !token.IsIdentifier(config.Package) {
		return nil, fmt.Errorf("invalid package name %q", config.Package)
	}
	if config.Translator == nil {
		return nil, fmt.Errorf("codegen: translator is required")
	}
	seen := make(map[string]bool, len(config.Patterns))
	for _, p := range config.Patterns {
		if !token.IsIdentifier(p.Name) {
			return nil, fmt.Errorf("invalid variable name %q", p.Name)
		}
		if reservedNames[p.Name] {
			return nil, fmt.Errorf("variable name %q is reserved in generated files", p.Name)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("duplicate variable name %q", p.Name)
		}
		seen[p.Name] = true
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		config: config,
		file:   jen.NewFile(config.Package),
		logger: logger,
	}, nil
}

// Generate translates every pattern and adds its declaration to the file.
func (g *Generator) Generate() error {
	cfg := g.config.Translator.Config()

	g.file.HeaderComment("Code generated by regram. DO NOT EDIT.")
	g.file.Comment("GramLength is the gram size, in runes, the clauses were built for.")
	g.file.Const().Id("GramLength").Op("=").Lit(cfg.GramLength)
	g.file.Line()

	for _, p := range g.config.Patterns {
		q, err := g.config.Translator.Translate(p.Pattern)
		if err != nil {
			return fmt.Errorf("translate %s: %w", p.Name, err)
		}
		g.declare(p, q)
	}

	g.file.Comment("Patterns maps each variable name to its source pattern.")
	g.file.Var().Id("Patterns").Op("=").Map(jen.String()).String().Values(
		jen.DictFunc(func(d jen.Dict) {
			for _, p := range g.config.Patterns {
				d[jen.Lit(p.Name)] = jen.Lit(p.Pattern)
			}
		}),
	)
	return nil
}

func (g *Generator) declare(p Pattern, q gramquery.Query) {
	clauses := gramquery.Clauses(q)
	g.file.Comment(fmt.Sprintf("%s holds the gram clauses of %s.", p.Name, quoteComment(p.Pattern)))

	if clauses == nil {
		g.file.Comment("The pattern imposes no gram constraint.")
		g.file.Var().Id(p.Name).Index().Index().String()
		g.file.Line()
		g.logger.Debug("pattern has no gram constraint", "name", p.Name, "pattern", p.Pattern)
		return
	}

	values := make([]jen.Code, len(clauses))
	for i, clause := range clauses {
		grams := make([]jen.Code, len(clause))
		for j, gram := range clause {
			grams[j] = jen.Lit(gram)
		}
		values[i] = jen.Values(grams...)
	}
	g.file.Var().Id(p.Name).Op("=").Index().Index().String().Values(values...)
	g.file.Line()
	g.logger.Debug("pattern clauses generated", "name", p.Name, "clauses", len(clauses))
}

// Render writes the formatted source to w.
func (g *Generator) Render(w io.Writer) error {
	return g.file.Render(w)
}

// Save writes the formatted source to path.
func (g *Generator) Save(path string) error {
	if err := g.file.Save(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// quoteComment renders a pattern for a line comment.
func quoteComment(pattern string) string {
	return fmt.Sprintf("%q", pattern)
}
