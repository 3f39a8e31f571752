package codegen

import (
	"bytes"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/regram/internal/translate"
)

func generate(t *testing.T, patterns ...Pattern) string {
	t.Helper()
	tr, err := translate.New(translate.DefaultConfig())
	require.NoError(t, err)

	g, err := New(Config{Package: "grams", Patterns: patterns, Translator: tr})
	require.NoError(t, err)
	require.NoError(t, g.Generate())

	var buf bytes.Buffer
	require.NoError(t, g.Render(&buf))
	return buf.String()
}

func TestGenerate_Clauses(t *testing.T) {
	src := generate(t,
		Pattern{Name: "Data", Pattern: "data*(bcd|pqr)"},
		Pattern{Name: "Word", Pattern: "abcd"},
	)

	assert.Contains(t, src, "// Code generated by regram. DO NOT EDIT.")
	assert.Contains(t, src, "package grams")
	assert.Contains(t, src, "const GramLength = 3")
	assert.Contains(t, src, `var Data = [][]string{{"bcd", "dat"}, {"dat", "pqr"}}`)
	assert.Contains(t, src, `var Word = [][]string{{"abc", "bcd"}}`)
	assert.Contains(t, src, `"Data": "data*(bcd|pqr)"`)

	_, err := parser.ParseFile(token.NewFileSet(), "grams.go", src, parser.ParseComments)
	assert.NoError(t, err, "generated source must parse:\n%s", src)
}

func TestGenerate_AnyIsNil(t *testing.T) {
	src := generate(t, Pattern{Name: "Anything", Pattern: "a.*b"})

	assert.Contains(t, src, "var Anything [][]string")
	assert.Contains(t, src, "no gram constraint")
}

func TestGenerate_TranslationError(t *testing.T) {
	tr, err := translate.New(translate.DefaultConfig())
	require.NoError(t, err)

	g, err := New(Config{Package: "grams", Patterns: []Pattern{{Name: "Bad", Pattern: "a(b"}}, Translator: tr})
	require.NoError(t, err)

	err = g.Generate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bad")
}

func TestNew_RejectsBadNames(t *testing.T) {
	tr, err := translate.New(translate.DefaultConfig())
	require.NoError(t, err)

	_, err = New(Config{Package: "my-pkg", Translator: tr})
	assert.Error(t, err)

	_, err = New(Config{Package: "grams", Translator: tr, Patterns: []Pattern{{Name: "1x", Pattern: "abc"}}})
	assert.Error(t, err)

	_, err = New(Config{Package: "grams", Translator: tr, Patterns: []Pattern{
		{Name: "X", Pattern: "abc"},
		{Name: "X", Pattern: "def"},
	}})
	assert.Error(t, err)

	_, err = New(Config{Package: "grams"})
	assert.Error(t, err)
}

func TestNew_RejectsReservedNames(t *testing.T) {
	tr, err := translate.New(translate.DefaultConfig())
	require.NoError(t, err)

	for _, name := range []string{"GramLength", "Patterns", "init", "_"} {
		t.Run(name, func(t *testing.T) {
			_, err := New(Config{Package: "grams", Translator: tr, Patterns: []Pattern{{Name: name, Pattern: "abc"}}})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "reserved")
		})
	}
}

func TestSave(t *testing.T) {
	tr, err := translate.New(translate.DefaultConfig())
	require.NoError(t, err)

	g, err := New(Config{Package: "grams", Patterns: []Pattern{{Name: "Hello", Pattern: "hello"}}, Translator: tr})
	require.NoError(t, err)
	require.NoError(t, g.Generate())

	path := filepath.Join(t.TempDir(), "grams.go")
	require.NoError(t, g.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `var Hello = [][]string{{"ell", "hel", "llo"}}`)
}
