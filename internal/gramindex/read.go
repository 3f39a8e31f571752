package gramindex

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/regram/internal/gramquery"
	"github.com/roach88/regram/internal/render"
)

// Document is a stored document.
type Document struct {
	ID   string
	Seq  int64
	Body string
}

type compiledQuery struct {
	sql    string
	params []any
}

// Candidates returns the IDs of documents that satisfy q, in binary ID
// order. ANY selects every document.
//
// Every leaf of q must have the index's gram length; otherwise the error
// wraps ErrGramLengthMismatch.
//
// Returns empty slice (not nil) if no document qualifies.
func (x *Index) Candidates(ctx context.Context, q gramquery.Query) ([]string, error) {
	if !gramquery.IsAny(q) {
		if err := gramquery.Validate(q, x.gramLength); err != nil {
			return nil, fmt.Errorf("candidates: %w: %v", ErrGramLengthMismatch, err)
		}
	}

	compiled, err := x.compile(q)
	if err != nil {
		return nil, fmt.Errorf("candidates: %w", err)
	}

	rows, err := x.db.QueryContext(ctx, compiled.sql, compiled.params...)
	if err != nil {
		return nil, fmt.Errorf("candidates: query: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("candidates: scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("candidates: iterate: %w", err)
	}

	x.logger.Debug("candidates selected",
		"query", q.String(),
		"candidates", len(ids),
	)
	return ids, nil
}

// compile returns the SQL for q, reusing earlier compilations of equal
// queries.
func (x *Index) compile(q gramquery.Query) (compiledQuery, error) {
	id := gramquery.ID(q)
	if cached, ok := x.cache.get(id); ok {
		return cached, nil
	}

	sqlText, params, err := render.NewSQLCompiler().Compile(q)
	if err != nil {
		return compiledQuery{}, err
	}
	compiled := compiledQuery{sql: sqlText, params: params}

	x.cache.put(id, compiled)
	return compiled, nil
}

// Get returns the document with the given ID, or an error wrapping
// ErrNotFound.
func (x *Index) Get(ctx context.Context, id string) (Document, error) {
	var doc Document
	err := x.db.QueryRowContext(ctx, `
		SELECT id, seq, body
		FROM documents
		WHERE id = ?
	`, id).Scan(&doc.ID, &doc.Seq, &doc.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("get document %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Document{}, fmt.Errorf("get document %s: %w", id, err)
	}
	return doc, nil
}

// Documents returns every document ordered by seq.
//
// Returns empty slice (not nil) for an empty index.
func (x *Index) Documents(ctx context.Context) ([]Document, error) {
	rows, err := x.db.QueryContext(ctx, `
		SELECT id, seq, body
		FROM documents
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Seq, &doc.Body); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

// Count returns the number of documents.
func (x *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := x.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}
