package gramindex

import (
	"context"
	"database/sql"
	"fmt"
)

// Add indexes body under a generated ID and returns the ID.
func (x *Index) Add(ctx context.Context, body string) (string, error) {
	id := x.ids.Generate()
	if err := x.AddWithID(ctx, id, body); err != nil {
		return "", err
	}
	return id, nil
}

// AddWithID indexes body under id.
//
// The document row and all its postings are written in one transaction.
// Returns an error wrapping ErrDuplicateID if id already exists.
func (x *Index) AddWithID(ctx context.Context, id, body string) error {
	grams := Grams(body, x.gramLength, x.normalize)

	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("add document: begin: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("add document: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("add document %s: %w", id, ErrDuplicateID)
	}

	// Logical clock: next seq after the highest assigned so far.
	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM documents`).Scan(&seq); err != nil {
		return fmt.Errorf("add document: next seq: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO documents (id, seq, body)
		VALUES (?, ?, ?)
	`, id, seq, body); err != nil {
		return fmt.Errorf("add document: %w", err)
	}

	if err := insertPostings(ctx, tx, id, grams); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("add document: commit: %w", err)
	}

	x.logger.Debug("document indexed",
		"id", id,
		"seq", seq,
		"grams", len(grams),
	)
	return nil
}

func insertPostings(ctx context.Context, tx *sql.Tx, id string, grams []string) error {
	if len(grams) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO postings (gram, doc_id)
		VALUES (?, ?)
		ON CONFLICT DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("add postings: prepare: %w", err)
	}
	defer stmt.Close()

	for _, g := range grams {
		if _, err := stmt.ExecContext(ctx, g, id); err != nil {
			return fmt.Errorf("add posting %q: %w", g, err)
		}
	}
	return nil
}

// Remove deletes a document and its postings. Removing an unknown ID
// returns an error wrapping ErrNotFound.
func (x *Index) Remove(ctx context.Context, id string) error {
	res, err := x.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("remove document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove document: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("remove document %s: %w", id, ErrNotFound)
	}
	return nil
}
