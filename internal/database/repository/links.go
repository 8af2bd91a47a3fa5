package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/jask/linkview/internal/database"
)

// LinkRepo stores named, ordered lists of URL strings.
type LinkRepo struct {
	db *sql.DB
}

func NewLinkRepo(db *sql.DB) *LinkRepo { return &LinkRepo{db: db} }

// Load returns the list stored under key. ok is false when nothing was ever
// stored under that key; an empty stored list returns ok=true.
func (r *LinkRepo) Load(ctx context.Context, key string) (urls []string, ok bool, err error) {
	var found string
	err = r.db.QueryRowContext(ctx, `SELECT key FROM link_lists WHERE key = ?`, key).Scan(&found)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	entries, err := r.Entries(ctx, key)
	if err != nil {
		return nil, false, err
	}
	urls = make([]string, 0, len(entries))
	for _, e := range entries {
		urls = append(urls, e.URL)
	}
	return urls, true, nil
}

// Entries returns the rows of the list stored under key in position order.
func (r *LinkRepo) Entries(ctx context.Context, key string) ([]SavedLink, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, list_key, position, url FROM saved_links WHERE list_key = ? ORDER BY position
	`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SavedLink
	for rows.Next() {
		var e SavedLink
		if err := rows.Scan(&e.ID, &e.ListKey, &e.Position, &e.URL); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Save replaces the list stored under key with urls, preserving order.
func (r *LinkRepo) Save(ctx context.Context, key string, urls []string) error {
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		return saveTx(ctx, tx, key, urls)
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func saveTx(ctx context.Context, tx *sql.Tx, key string, urls []string) error {
	if _, err := tx.ExecContext(ctx, `
	INSERT INTO link_lists(key, updated_at) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET updated_at=excluded.updated_at;
	`, key, database.Now()); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM saved_links WHERE list_key = ?`, key); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO saved_links(id, list_key, position, url) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, u := range urls {
		if _, err := stmt.ExecContext(ctx, uuid.NewString(), key, i, u); err != nil {
			return err
		}
	}
	return nil
}
