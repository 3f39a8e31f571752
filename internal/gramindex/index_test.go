package gramindex

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/regram/internal/testutil"
)

// openTestIndex opens a fresh file-backed index with sequential IDs.
func openTestIndex(t *testing.T, opts Options) (*Index, string) {
	t.Helper()
	if opts.IDs == nil {
		opts.IDs = testutil.NewSequenceIDGenerator("doc")
	}
	path := filepath.Join(t.TempDir(), "index.db")
	idx, err := Open(path, opts)
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx, path
}

// addAll indexes every body and returns the generated IDs.
func addAll(t *testing.T, idx *Index, bodies ...string) []string {
	t.Helper()
	ids := make([]string, 0, len(bodies))
	for _, body := range bodies {
		id, err := idx.Add(context.Background(), body)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	_, path := openTestIndex(t, Options{})

	_, err := os.Stat(path)
	assert.NoError(t, err, "database file should exist")
}

func TestOpen_Pragmas(t *testing.T) {
	idx, _ := openTestIndex(t, Options{})
	ctx := context.Background()

	assert.NoError(t, idx.verifyPragma(ctx, "journal_mode", "wal"))
	assert.NoError(t, idx.verifyPragma(ctx, "foreign_keys", "1"))
	assert.NoError(t, idx.verifyPragma(ctx, "busy_timeout", "5000"))
	assert.NoError(t, idx.verifyPragma(ctx, "user_version", "1"))
}

func TestOpen_DefaultGramLength(t *testing.T) {
	idx, _ := openTestIndex(t, Options{})
	assert.Equal(t, DefaultGramLength, idx.GramLength())
	assert.False(t, idx.Normalized())
}

func TestOpen_ReopenKeepsGramLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")

	first, err := Open(path, Options{GramLength: 4})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	// Zero accepts the stored length.
	second, err := Open(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, 4, second.GramLength())
	require.NoError(t, second.Close())

	_, err = Open(path, Options{GramLength: 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGramLengthMismatch)
}

func TestOpen_NormalizeMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")

	first, err := Open(path, Options{Normalize: true})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	_, err = Open(path, Options{Normalize: false})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNormalizeMismatch)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")

	for i := 0; i < 3; i++ {
		idx, err := Open(path, Options{})
		require.NoError(t, err, "Open() iteration %d", i)
		require.NoError(t, idx.Close())
	}
}

func TestOpen_Memory(t *testing.T) {
	idx, err := Open(":memory:", Options{IDs: testutil.NewSequenceIDGenerator("m")})
	require.NoError(t, err)
	defer idx.Close()

	id, err := idx.Add(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "m-0001", id)
}

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}
	a := gen.Generate()
	b := gen.Generate()

	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestGrams(t *testing.T) {
	assert.Equal(t, []string{"abc", "bca", "cab"}, Grams("abcab", 3, false))
	assert.Nil(t, Grams("ab", 3, false))
	assert.Equal(t, []string{"\u65e5\u672c\u8a9e"}, Grams("\u65e5\u672c\u8a9e", 3, false))
	assert.Equal(t, []string{"aaa"}, Grams("aaaaa", 3, false))

	// NFC composes e + combining acute into one rune.
	assert.Equal(t, []string{"af\u00e9", "caf"}, Grams("cafe\u0301", 3, true))
	assert.Len(t, Grams("cafe\u0301", 3, false), 3)
}
