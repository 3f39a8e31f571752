package render

import (
	"strings"

	"github.com/roach88/regram/internal/gramquery"
)

const (
	// DefaultField is the index field holding document grams.
	DefaultField = "gram"

	// DefaultMatchAll is the always-match query used for ANY.
	DefaultMatchAll = "*:*"
)

// Options configures IndexQueryString.
type Options struct {
	Field    string // Gram field name; DefaultField when empty
	MatchAll string // Rendering of ANY; DefaultMatchAll when empty
}

// DefaultOptions returns Options with every default filled in.
func DefaultOptions() Options {
	return Options{Field: DefaultField, MatchAll: DefaultMatchAll}
}

func (o Options) withDefaults() Options {
	if o.Field == "" {
		o.Field = DefaultField
	}
	if o.MatchAll == "" {
		o.MatchAll = DefaultMatchAll
	}
	return o
}

// IndexQueryString renders q in Lucene boolean syntax.
//
// Every AND/OR is parenthesized, so the result never depends on operator
// precedence. Children appear in canonical order, making the output stable
// for equal queries:
//
//	(gram:"dat" AND (gram:"bcd" OR gram:"pqr"))
func IndexQueryString(q gramquery.Query, opts Options) string {
	opts = opts.withDefaults()
	var b strings.Builder
	writeIndexQuery(&b, q, opts)
	return b.String()
}

func writeIndexQuery(b *strings.Builder, q gramquery.Query, opts Options) {
	if gramquery.IsAny(q) {
		b.WriteString(opts.MatchAll)
		return
	}
	switch n := q.(type) {
	case gramquery.Leaf:
		b.WriteString(opts.Field)
		b.WriteString(`:"`)
		b.WriteString(escapeTerm(n.Gram))
		b.WriteString(`"`)
	case gramquery.And:
		writeIndexGroup(b, n.Children(), " AND ", opts)
	case gramquery.Or:
		writeIndexGroup(b, n.Children(), " OR ", opts)
	}
}

func writeIndexGroup(b *strings.Builder, children []gramquery.Query, op string, opts Options) {
	if len(children) == 1 {
		writeIndexQuery(b, children[0], opts)
		return
	}
	b.WriteString("(")
	for i, child := range children {
		if i > 0 {
			b.WriteString(op)
		}
		writeIndexQuery(b, child, opts)
	}
	b.WriteString(")")
}

// escapeTerm escapes characters that end or escape a quoted phrase.
func escapeTerm(s string) string {
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
