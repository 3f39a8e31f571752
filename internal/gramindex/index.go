package gramindex

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added index on postings.doc_id for document deletes
const currentSchemaVersion = 1

// DefaultGramLength is used when Options.GramLength is zero and the index
// is new.
const DefaultGramLength = 3

const (
	metaGramLength = "gram_length"
	metaNormalize  = "normalize"
)

// Options configures Open.
type Options struct {
	// GramLength is the gram size in runes. Zero accepts the stored length
	// of an existing index, or DefaultGramLength for a new one.
	GramLength int

	// Normalize applies Unicode NFC to document bodies before gramming.
	// Must match the translator's setting.
	Normalize bool

	// IDs generates document IDs for Add. Defaults to UUIDv7Generator.
	IDs IDGenerator

	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger

	// CacheSize bounds the compiled query cache. Zero means
	// DefaultCacheSize; a negative value disables the cache.
	CacheSize int
}

// Index is an n-gram inverted index stored in SQLite.
// Uses WAL mode for concurrent read access.
type Index struct {
	db         *sql.DB
	gramLength int
	normalize  bool
	ids        IDGenerator
	logger     *slog.Logger

	cache *queryCache // gramquery.ID -> compiled SQL
}

// Open creates or opens an index at path (":memory:" for a scratch index).
// Applies required pragmas and migrations automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// Returns an error wrapping ErrGramLengthMismatch or ErrNormalizeMismatch
// when opts disagree with an existing index.
func Open(path string, opts Options) (*Index, error) {
	// Open database (creates file if doesn't exist)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	// A single connection also keeps ":memory:" databases alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	gramLength, err := resolveMeta(db, opts)
	if err != nil {
		db.Close()
		return nil, err
	}

	idx := &Index{
		db:         db,
		gramLength: gramLength,
		normalize:  opts.Normalize,
		ids:        opts.IDs,
		logger:     opts.Logger,
		cache:      newQueryCache(cacheSize(opts.CacheSize)),
	}
	if idx.ids == nil {
		idx.ids = UUIDv7Generator{}
	}
	if idx.logger == nil {
		idx.logger = slog.Default()
	}
	return idx, nil
}

func cacheSize(n int) int {
	if n == 0 {
		return DefaultCacheSize
	}
	return n
}

// Close closes the database connection.
func (x *Index) Close() error {
	if x.db == nil {
		return nil
	}
	return x.db.Close()
}

// GramLength returns the gram size the index was built with.
func (x *Index) GramLength() int {
	return x.gramLength
}

// Normalized reports whether document bodies are NFC-normalized.
func (x *Index) Normalized() bool {
	return x.normalize
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// This function is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 indexes postings by document so cascading deletes do not
// scan the whole postings table.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_postings_doc ON postings(doc_id)`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// resolveMeta records gram length and normalization on first open and
// checks them on every later open.
func resolveMeta(db *sql.DB, opts Options) (int, error) {
	stored, ok, err := readMeta(db, metaGramLength)
	if err != nil {
		return 0, err
	}

	if !ok {
		gramLength := opts.GramLength
		if gramLength == 0 {
			gramLength = DefaultGramLength
		}
		if gramLength < 1 {
			return 0, fmt.Errorf("invalid gram length %d", gramLength)
		}
		if err := writeMeta(db, metaGramLength, strconv.Itoa(gramLength)); err != nil {
			return 0, err
		}
		if err := writeMeta(db, metaNormalize, strconv.FormatBool(opts.Normalize)); err != nil {
			return 0, err
		}
		return gramLength, nil
	}

	gramLength, err := strconv.Atoi(stored)
	if err != nil {
		return 0, fmt.Errorf("corrupt %s %q: %w", metaGramLength, stored, err)
	}
	if opts.GramLength != 0 && opts.GramLength != gramLength {
		return 0, fmt.Errorf("%w: index built with %d, requested %d",
			ErrGramLengthMismatch, gramLength, opts.GramLength)
	}

	storedNorm, _, err := readMeta(db, metaNormalize)
	if err != nil {
		return 0, err
	}
	if storedNorm != strconv.FormatBool(opts.Normalize) {
		return 0, fmt.Errorf("%w: index built with normalize=%s", ErrNormalizeMismatch, storedNorm)
	}
	return gramLength, nil
}

func readMeta(db *sql.DB, key string) (string, bool, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM index_meta WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read meta %s: %w", key, err)
	}
	return value, true, nil
}

func writeMeta(db *sql.DB, key, value string) error {
	_, err := db.Exec(`INSERT INTO index_meta (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return fmt.Errorf("write meta %s: %w", key, err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (x *Index) verifyPragma(ctx context.Context, name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := x.db.QueryRowContext(ctx, query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
