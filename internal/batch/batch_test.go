package batch

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/regram/internal/gramquery"
	"github.com/roach88/regram/internal/regexast"
	"github.com/roach88/regram/internal/translate"
)

func newTranslator(t *testing.T) *translate.Translator {
	t.Helper()
	tr, err := translate.New(translate.DefaultConfig())
	require.NoError(t, err)
	return tr
}

func TestTranslate_PreservesOrder(t *testing.T) {
	tr := newTranslator(t)

	patterns := make([]string, 50)
	for i := range patterns {
		patterns[i] = fmt.Sprintf("abc%03d", i)
	}

	results, err := Translate(context.Background(), tr, patterns, Options{Concurrency: 4})
	require.NoError(t, err)
	require.Len(t, results, len(patterns))

	for i, r := range results {
		assert.Equal(t, patterns[i], r.Pattern)
		require.NoError(t, r.Err)
		want, err := tr.Translate(patterns[i])
		require.NoError(t, err)
		assert.True(t, gramquery.Equal(want, r.Query), "pattern %q", patterns[i])
	}
}

func TestTranslate_Stages(t *testing.T) {
	tr := newTranslator(t)
	patterns := []string{"(abc|abd)e"}

	raw, err := Translate(context.Background(), tr, patterns, Options{Stage: StageRaw})
	require.NoError(t, err)
	dnf, err := Translate(context.Background(), tr, patterns, Options{Stage: StageDNF})
	require.NoError(t, err)
	simplified, err := Translate(context.Background(), tr, patterns, Options{})
	require.NoError(t, err)

	assert.True(t, gramquery.IsDNF(dnf[0].Query))
	assert.True(t, gramquery.IsDNF(simplified[0].Query))
	assert.True(t, gramquery.Equal(simplified[0].Query, gramquery.SimplifyDNF(dnf[0].Query)))
	assert.True(t, gramquery.Equal(dnf[0].Query, gramquery.ToDNF(raw[0].Query)))
}

func TestTranslate_KeepsPerPatternErrors(t *testing.T) {
	tr := newTranslator(t)

	results, err := Translate(context.Background(), tr, []string{"abc", "a(b", "xyz"}, Options{})
	require.NoError(t, err)

	assert.NoError(t, results[0].Err)
	assert.True(t, regexast.IsParseError(results[1].Err))
	assert.Nil(t, results[1].Query)
	assert.NoError(t, results[2].Err)

	first := FirstError(results)
	require.Error(t, first)
	assert.Contains(t, first.Error(), `"a(b"`)
	assert.Nil(t, FirstError(results[:1]))
}

func TestTranslate_Cancelled(t *testing.T) {
	tr := newTranslator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Translate(ctx, tr, []string{"abc", "def"}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTranslate_Empty(t *testing.T) {
	results, err := Translate(context.Background(), newTranslator(t), nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestParseStage(t *testing.T) {
	s, err := ParseStage("")
	require.NoError(t, err)
	assert.Equal(t, StageSimplified, s)

	s, err = ParseStage("dnf")
	require.NoError(t, err)
	assert.Equal(t, StageDNF, s)

	_, err = ParseStage("final")
	assert.Error(t, err)

	_, err = Translate(context.Background(), newTranslator(t), []string{"abc"}, Options{Stage: "final"})
	assert.Error(t, err)
}
