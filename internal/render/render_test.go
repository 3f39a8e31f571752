package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/regram/internal/gramquery"
)

func leaf(g string) gramquery.Query {
	return gramquery.NewLeaf(g)
}

// datQuery is OR(AND("bcd","dat"), AND("dat","pqr")).
func datQuery() gramquery.Query {
	return gramquery.NewOr(
		gramquery.NewAnd(leaf("dat"), leaf("pqr")),
		gramquery.NewAnd(leaf("dat"), leaf("bcd")),
	)
}

func TestIndexQueryString(t *testing.T) {
	tests := []struct {
		name  string
		query gramquery.Query
		want  string
	}{
		{"leaf", leaf("abc"), `gram:"abc"`},
		{"any", gramquery.Any(), `*:*`},
		{"empty and", gramquery.NewAnd(), `*:*`},
		{"and", gramquery.NewAnd(leaf("bcd"), leaf("abc")), `(gram:"abc" AND gram:"bcd")`},
		{"or", gramquery.NewOr(leaf("uci"), leaf("ics")), `(gram:"ics" OR gram:"uci")`},
		{"nested", datQuery(), `((gram:"bcd" AND gram:"dat") OR (gram:"dat" AND gram:"pqr"))`},
		{"single child", gramquery.NewAnd(leaf("abc")), `gram:"abc"`},
		{"escaped", leaf(`a"\`), `gram:"a\"\\"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IndexQueryString(tt.query, Options{}))
		})
	}
}

func TestIndexQueryString_Options(t *testing.T) {
	opts := Options{Field: "trigram", MatchAll: "ALL"}

	assert.Equal(t, `trigram:"abc"`, IndexQueryString(leaf("abc"), opts))
	assert.Equal(t, "ALL", IndexQueryString(gramquery.Any(), opts))
	assert.Equal(t, DefaultOptions(), Options{}.withDefaults())
}

func TestIndexQueryString_OrderIndependent(t *testing.T) {
	a := gramquery.NewOr(gramquery.NewAnd(leaf("x11"), leaf("x22")), leaf("y33"))
	b := gramquery.NewOr(leaf("y33"), gramquery.NewAnd(leaf("x22"), leaf("x11")))
	assert.Equal(t, IndexQueryString(a, Options{}), IndexQueryString(b, Options{}))
}

func TestTree(t *testing.T) {
	out := Tree(datQuery())

	assert.Contains(t, out, "GramQuery")
	assert.Contains(t, out, "OR")
	assert.Contains(t, out, "AND")
	assert.Contains(t, out, `"bcd"`)
	assert.Contains(t, out, `"pqr"`)
}

func TestTree_Any(t *testing.T) {
	out := TreeWithRoot("simplified", gramquery.Any())
	assert.Contains(t, out, "simplified")
	assert.Contains(t, out, "ANY")
}

func TestSQLCompiler_Leaf(t *testing.T) {
	sql, params, err := NewSQLCompiler().Compile(leaf("abc"))
	require.NoError(t, err)
	assert.Equal(t, "SELECT doc_id FROM postings WHERE gram = ? ORDER BY doc_id ASC COLLATE BINARY", sql)
	assert.Equal(t, []any{"abc"}, params)
}

func TestSQLCompiler_Any(t *testing.T) {
	sql, params, err := NewSQLCompiler().Compile(gramquery.Any())
	require.NoError(t, err)
	assert.Equal(t, "SELECT id AS doc_id FROM documents ORDER BY doc_id ASC COLLATE BINARY", sql)
	assert.Empty(t, params)
}

func TestSQLCompiler_AndOfLeaves(t *testing.T) {
	q := gramquery.NewAnd(leaf("bcd"), leaf("abc"))

	sql, params, err := NewSQLCompiler().Compile(q)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT doc_id FROM postings WHERE gram IN (?, ?) GROUP BY doc_id HAVING COUNT(DISTINCT gram) = 2"+
			" ORDER BY doc_id ASC COLLATE BINARY",
		sql)
	assert.Equal(t, []any{"abc", "bcd"}, params)
}

func TestSQLCompiler_Or(t *testing.T) {
	sql, params, err := NewSQLCompiler().Compile(datQuery())
	require.NoError(t, err)

	group := "SELECT doc_id FROM postings WHERE gram IN (?, ?) GROUP BY doc_id HAVING COUNT(DISTINCT gram) = 2"
	assert.Equal(t,
		"SELECT doc_id FROM ("+group+") UNION SELECT doc_id FROM ("+group+")"+
			" ORDER BY doc_id ASC COLLATE BINARY",
		sql)
	assert.Equal(t, []any{"bcd", "dat", "dat", "pqr"}, params)
}

func TestSQLCompiler_MixedAnd(t *testing.T) {
	q := gramquery.NewAnd(leaf("dat"), gramquery.NewOr(leaf("bcd"), leaf("pqr")))

	sql, params, err := NewSQLCompiler().Compile(q)
	require.NoError(t, err)

	leafSQL := "SELECT doc_id FROM postings WHERE gram = ?"
	assert.Equal(t,
		"SELECT doc_id FROM ("+leafSQL+") INTERSECT "+
			"SELECT doc_id FROM (SELECT doc_id FROM ("+leafSQL+") UNION SELECT doc_id FROM ("+leafSQL+"))"+
			" ORDER BY doc_id ASC COLLATE BINARY",
		sql)
	assert.Equal(t, []any{"dat", "bcd", "pqr"}, params)
}

func TestSQLCompiler_AndDropsAny(t *testing.T) {
	q := gramquery.NewAnd(leaf("abc"), gramquery.Any())

	sql, params, err := NewSQLCompiler().Compile(q)
	require.NoError(t, err)
	assert.Equal(t, "SELECT doc_id FROM postings WHERE gram = ? ORDER BY doc_id ASC COLLATE BINARY", sql)
	assert.Equal(t, []any{"abc"}, params)
}

func TestSQLCompiler_Nil(t *testing.T) {
	_, _, err := NewSQLCompiler().Compile(nil)
	assert.Error(t, err)
}

func TestSQLCompiler_AlwaysOrdered(t *testing.T) {
	queries := []gramquery.Query{
		leaf("abc"),
		gramquery.Any(),
		datQuery(),
		gramquery.NewAnd(leaf("dat"), gramquery.NewOr(leaf("bcd"), leaf("pqr"))),
	}
	for _, q := range queries {
		sql, _, err := NewSQLCompiler().Compile(q)
		require.NoError(t, err)
		assert.Contains(t, sql, OrderByDocID, "query %s", q)
	}
}
