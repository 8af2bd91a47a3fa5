package permission

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/linkview/internal/database"
	"github.com/jask/linkview/internal/database/repository"
)

type memBackend struct {
	rows map[string]string
	err  error
}

func (b *memBackend) Get(_ context.Context, name string) (*repository.Permission, error) {
	if b.err != nil {
		return nil, b.err
	}
	st, ok := b.rows[name]
	if !ok {
		return nil, nil
	}
	return &repository.Permission{Name: name, Status: st}, nil
}

func (b *memBackend) Upsert(_ context.Context, name, status string) error {
	if b.err != nil {
		return b.err
	}
	b.rows[name] = status
	return nil
}

func TestRequestPromptsOnlyWhenUndetermined(t *testing.T) {
	ctx := context.Background()
	b := &memBackend{rows: map[string]string{}}
	s := NewService(b, Location)

	prompt, err := s.Request(ctx)
	require.NoError(t, err)
	require.True(t, prompt)
	require.False(t, s.Authorized(ctx))

	require.NoError(t, s.Set(ctx, Denied))
	prompt, err = s.Request(ctx)
	require.NoError(t, err)
	require.False(t, prompt)
	require.Equal(t, "denied", b.rows[Location])
}

func TestOnChangeFiresOnTransitionsOnly(t *testing.T) {
	ctx := context.Background()
	s := NewService(&memBackend{rows: map[string]string{}}, Location)
	var got []Status
	s.OnChange(func(st Status) { got = append(got, st) })

	require.NoError(t, s.Set(ctx, Granted))
	require.NoError(t, s.Set(ctx, Granted))
	require.NoError(t, s.Set(ctx, Denied))
	require.Equal(t, []Status{Granted, Denied}, got)
}

func TestUnknownStoredValueIsUndetermined(t *testing.T) {
	s := NewService(&memBackend{rows: map[string]string{Location: "restricted"}}, Location)
	st, err := s.Status(context.Background())
	require.NoError(t, err)
	require.Equal(t, Undetermined, st)
}

func TestBackendErrorsAreWrapped(t *testing.T) {
	boom := errors.New("locked")
	s := NewService(&memBackend{rows: map[string]string{}, err: boom}, Location)
	_, err := s.Status(context.Background())
	require.ErrorIs(t, err, boom)
	require.False(t, s.Authorized(context.Background()))
}

func TestDecisionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "perm.db")
	require.NoError(t, database.RunMigrations(database.DriverPure, path))
	db, err := database.Open(database.DriverPure, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, NewService(repository.NewPermissionRepo(db), Location).Set(ctx, Granted))

	again := NewService(repository.NewPermissionRepo(db), Location)
	require.True(t, again.Authorized(ctx))
}

func TestConcurrentUse(t *testing.T) {
	ctx := context.Background()
	s := NewService(&memBackend{rows: map[string]string{}}, Location)

	var mu sync.Mutex
	var seen []Status
	s.OnChange(func(st Status) {
		// handlers run outside the lock and may read back
		cur, err := s.Status(ctx)
		assert.NoError(t, err)
		mu.Lock()
		seen = append(seen, cur)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			st := Denied
			if i%2 == 0 {
				st = Granted
			}
			_, _ = s.Request(ctx)
			assert.NoError(t, s.Set(ctx, st))
			_ = s.Authorized(ctx)
		}(i)
	}
	wg.Wait()

	final, err := s.Status(ctx)
	require.NoError(t, err)
	require.Contains(t, []Status{Denied, Granted}, final)
	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
}
