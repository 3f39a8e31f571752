package gramindex

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/regram/internal/gramquery"
	"github.com/roach88/regram/internal/testutil"
	"github.com/roach88/regram/internal/translate"
)

func TestCandidates_Queries(t *testing.T) {
	idx, _ := openTestIndex(t, Options{})
	addAll(t, idx, testutil.Documents...)
	ctx := context.Background()

	tests := []struct {
		name  string
		query gramquery.Query
		want  []string
	}{
		{"leaf", gramquery.NewLeaf("dat"), []string{"doc-0001", "doc-0002", "doc-0003"}},
		{"and", testutil.AndOf("dat", "bcd"), []string{"doc-0002"}},
		{"or", testutil.OrOf("pqr", "uci"), []string{"doc-0003", "doc-0005", "doc-0006"}},
		{"dnf", gramquery.NewOr(testutil.AndOf("dat", "bcd"), testutil.AndOf("dat", "pqr")), []string{"doc-0002", "doc-0003"}},
		{"mixed", gramquery.NewAnd(gramquery.NewLeaf("dat"), testutil.OrOf("bcd", "pqr")), []string{"doc-0002", "doc-0003"}},
		{"missing", gramquery.NewLeaf("zzz"), []string{}},
		{"any", gramquery.Any(), []string{"doc-0001", "doc-0002", "doc-0003", "doc-0004", "doc-0005", "doc-0006"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := idx.Candidates(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCandidates_CachesCompiledQueries(t *testing.T) {
	idx, _ := openTestIndex(t, Options{})
	addAll(t, idx, testutil.Documents...)
	ctx := context.Background()

	a := testutil.AndOf("dat", "bcd")
	b := testutil.AndOf("bcd", "dat")

	first, err := idx.Candidates(ctx, a)
	require.NoError(t, err)
	second, err := idx.Candidates(ctx, b)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, idx.cache.len(), "equal queries share one compiled statement")
}

func TestCandidates_CacheIsBounded(t *testing.T) {
	idx, _ := openTestIndex(t, Options{CacheSize: 2})
	addAll(t, idx, testutil.Documents...)
	ctx := context.Background()

	for _, gram := range []string{"dat", "bcd", "pqr", "uci"} {
		_, err := idx.Candidates(ctx, gramquery.NewLeaf(gram))
		require.NoError(t, err)
	}
	assert.Equal(t, 2, idx.cache.len())

	ids, err := idx.Candidates(ctx, gramquery.NewLeaf("dat"))
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-0001", "doc-0002", "doc-0003"}, ids, "evicted queries recompile")
}

func TestQueryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := newQueryCache(2)
	c.put("a", compiledQuery{sql: "A"})
	c.put("b", compiledQuery{sql: "B"})
	_, ok := c.get("a")
	require.True(t, ok)

	c.put("c", compiledQuery{sql: "C"})
	_, ok = c.get("b")
	assert.False(t, ok, "b was least recently used")
	got, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A", got.sql)
	assert.Equal(t, 2, c.len())
}

func TestQueryCache_Disabled(t *testing.T) {
	c := newQueryCache(-1)
	c.put("a", compiledQuery{sql: "A"})
	_, ok := c.get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.len())
}

func TestCandidates_GramLengthMismatch(t *testing.T) {
	idx, _ := openTestIndex(t, Options{})

	_, err := idx.Candidates(context.Background(), gramquery.NewLeaf("data"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGramLengthMismatch)
}

// Every document the regex matches must be a candidate.
func TestCandidates_SoundForTranslatedPatterns(t *testing.T) {
	idx, _ := openTestIndex(t, Options{})
	ids := addAll(t, idx, testutil.Documents...)
	ctx := context.Background()

	patterns := []string{
		"data*(bcd|pqr)",
		"uci|ics",
		"ucirvine",
		"dat.*base",
		"(?i)DATA",
		"[a-d]at",
		"ma?chine",
		"e{1,2}",
		"learn(ing)?",
	}

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			q, err := translate.Translate(pattern)
			require.NoError(t, err)

			candidates, err := idx.Candidates(ctx, q)
			require.NoError(t, err)

			re := regexp.MustCompile(pattern)
			for i, body := range testutil.Documents {
				if re.MatchString(body) {
					assert.Contains(t, candidates, ids[i], "%q matches %q but was filtered out", pattern, body)
				}
			}
		})
	}
}

func TestDocumentsAndCount(t *testing.T) {
	idx, _ := openTestIndex(t, Options{})
	ctx := context.Background()

	docs, err := idx.Documents(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.NotNil(t, docs)

	addAll(t, idx, "one two", "three four")

	docs, err = idx.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, int64(1), docs[0].Seq)
	assert.Equal(t, "three four", docs[1].Body)

	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestGet_NotFound(t *testing.T) {
	idx, _ := openTestIndex(t, Options{})

	_, err := idx.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
