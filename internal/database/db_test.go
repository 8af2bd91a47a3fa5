package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrationsAreIdempotent(t *testing.T) {
	for _, driver := range []string{DriverCGO, DriverPure} {
		t.Run(driver, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "m.db")
			require.NoError(t, RunMigrations(driver, path))
			require.NoError(t, RunMigrations(driver, path))

			db, err := Open(driver, path)
			require.NoError(t, err)
			defer db.Close()
			for _, table := range []string{"link_lists", "saved_links", "permissions"} {
				var name string
				err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
				require.NoError(t, err, table)
			}
		})
	}
}

func TestUnknownDriver(t *testing.T) {
	_, err := Open("postgres", filepath.Join(t.TempDir(), "x.db"))
	require.Error(t, err)
}

func TestWithTxRollsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tx.db")
	require.NoError(t, RunMigrations(DriverCGO, path))
	db, err := Open(DriverCGO, path)
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("boom")
	err = WithTx(context.Background(), db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO link_lists(key, updated_at) VALUES ('k', ?)`, Now()); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM link_lists`).Scan(&n))
	require.Zero(t, n)

	require.NoError(t, WithTx(context.Background(), db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO link_lists(key, updated_at) VALUES ('k', ?)`, Now())
		return err
	}))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM link_lists`).Scan(&n))
	require.Equal(t, 1, n)
}
