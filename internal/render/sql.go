package render

import (
	"fmt"
	"strings"

	"github.com/roach88/regram/internal/gramquery"
)

// OrderByDocID is appended to every compiled statement.
const OrderByDocID = " ORDER BY doc_id ASC COLLATE BINARY"

// SQLCompiler compiles gram queries to parameterized SQL for SQLite.
//
// The statement returns one column, doc_id, naming every document whose
// postings satisfy the query.
//
// CRITICAL: ALL statements end with a deterministic ORDER BY.
// CRITICAL: Grams are parameterized, never interpolated.
type SQLCompiler struct {
	// Postings is the (gram, doc_id) table.
	Postings string

	// Documents is the table scanned for ANY; its key column is id.
	Documents string
}

// NewSQLCompiler creates a compiler for the gramindex schema.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{
		Postings:  "postings",
		Documents: "documents",
	}
}

// Compile converts q to SQL. Returns (sql, params, error).
//
// Leaf:           SELECT doc_id FROM postings WHERE gram = ?
// AND of leaves:  ... WHERE gram IN (?, ?) GROUP BY doc_id HAVING COUNT(DISTINCT gram) = 2
// AND:            operands joined with INTERSECT
// OR:             operands joined with UNION
// ANY:            SELECT id AS doc_id FROM documents
func (c *SQLCompiler) Compile(q gramquery.Query) (string, []any, error) {
	if q == nil {
		return "", nil, fmt.Errorf("cannot compile nil query")
	}
	body, params, err := c.compileNode(q)
	if err != nil {
		return "", nil, err
	}
	return body + OrderByDocID, params, nil
}

func (c *SQLCompiler) compileNode(q gramquery.Query) (string, []any, error) {
	if gramquery.IsAny(q) {
		return c.compileAll(), nil, nil
	}
	switch n := q.(type) {
	case gramquery.Leaf:
		return c.compileLeaf(n)
	case gramquery.And:
		return c.compileAnd(n)
	case gramquery.Or:
		return c.compileCompound(n.Children(), " UNION ")
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

func (c *SQLCompiler) compileAll() string {
	return fmt.Sprintf("SELECT id AS doc_id FROM %s", c.Documents)
}

func (c *SQLCompiler) compileLeaf(l gramquery.Leaf) (string, []any, error) {
	sql := fmt.Sprintf("SELECT doc_id FROM %s WHERE gram = ?", c.Postings)
	return sql, []any{l.Gram}, nil
}

// compileAnd uses a single grouped scan when every child is a leaf, and
// INTERSECT otherwise. ANY children are the identity and are dropped.
func (c *SQLCompiler) compileAnd(a gramquery.And) (string, []any, error) {
	var grams []string
	var rest []gramquery.Query
	for _, child := range a.Children() {
		if gramquery.IsAny(child) {
			continue
		}
		if leaf, ok := child.(gramquery.Leaf); ok {
			grams = append(grams, leaf.Gram)
			continue
		}
		rest = append(rest, child)
	}

	switch {
	case len(grams) == 0 && len(rest) == 0:
		return c.compileAll(), nil, nil
	case len(rest) == 0 && len(grams) == 1:
		return c.compileLeaf(gramquery.NewLeaf(grams[0]))
	case len(rest) == 0:
		return c.compileLeafGroup(grams)
	}

	operands := rest
	if len(grams) > 0 {
		leaves := make([]gramquery.Query, len(grams))
		for i, g := range grams {
			leaves[i] = gramquery.NewLeaf(g)
		}
		// Grouped scan for the leaves, INTERSECT with the rest.
		operands = append([]gramquery.Query{gramquery.NewAnd(leaves...)}, rest...)
	}
	return c.compileCompound(operands, " INTERSECT ")
}

// compileLeafGroup matches documents holding every gram. Grams are
// distinct (set semantics), so the HAVING count is exact.
func (c *SQLCompiler) compileLeafGroup(grams []string) (string, []any, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(grams)), ", ")
	sql := fmt.Sprintf("SELECT doc_id FROM %s WHERE gram IN (%s) GROUP BY doc_id HAVING COUNT(DISTINCT gram) = %d",
		c.Postings, placeholders, len(grams))

	params := make([]any, len(grams))
	for i, g := range grams {
		params[i] = g
	}
	return sql, params, nil
}

// compileCompound joins operands with a compound operator. SQLite does not
// allow parenthesized compound operands, so each is wrapped in a subquery.
func (c *SQLCompiler) compileCompound(children []gramquery.Query, op string) (string, []any, error) {
	if len(children) == 1 {
		return c.compileNode(children[0])
	}

	parts := make([]string, 0, len(children))
	var params []any
	for _, child := range children {
		sql, childParams, err := c.compileNode(child)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, "SELECT doc_id FROM ("+sql+")")
		params = append(params, childParams...)
	}
	return strings.Join(parts, op), params, nil
}
