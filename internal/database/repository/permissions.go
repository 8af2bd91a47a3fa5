package repository

import (
	"context"
	"database/sql"

	"github.com/jask/linkview/internal/database"
)

// PermissionRepo handles persisted authorization decisions.
type PermissionRepo struct {
	db *sql.DB
}

func NewPermissionRepo(db *sql.DB) *PermissionRepo { return &PermissionRepo{db: db} }

func (r *PermissionRepo) Get(ctx context.Context, name string) (*Permission, error) {
	row := r.db.QueryRowContext(ctx, `SELECT name, status, updated_at FROM permissions WHERE name = ?`, name)
	var p Permission
	if err := row.Scan(&p.Name, &p.Status, &p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PermissionRepo) Upsert(ctx context.Context, name, status string) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO permissions(name, status, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET status=excluded.status, updated_at=excluded.updated_at;
	`, name, status, database.Now())
	return err
}
