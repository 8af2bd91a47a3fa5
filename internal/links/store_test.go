package links

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/linkview/internal/database"
	"github.com/jask/linkview/internal/database/repository"
)

type memBackend struct {
	lists map[string][]string
	saves int
	err   error
}

func newMemBackend() *memBackend { return &memBackend{lists: map[string][]string{}} }

func (b *memBackend) Load(_ context.Context, key string) ([]string, bool, error) {
	l, ok := b.lists[key]
	return append([]string(nil), l...), ok, nil
}

func (b *memBackend) Save(_ context.Context, key string, urls []string) error {
	if b.err != nil {
		return b.err
	}
	b.saves++
	b.lists[key] = append([]string{}, urls...)
	return nil
}

func loaded(t *testing.T, b Backend) *Store {
	t.Helper()
	s := NewStore(b)
	_, err := s.Load(context.Background())
	require.NoError(t, err)
	return s
}

func TestLoadReturnsDefaultsWhenNothingPersisted(t *testing.T) {
	s := NewStore(newMemBackend())
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, Defaults, got)

	got[0] = "mutated"
	require.Equal(t, "https://www.apple.com", s.Links()[0], "Links must hand out copies")
	require.Equal(t, "https://www.apple.com", Defaults[0])
}

func TestAddAppendsAndPersists(t *testing.T) {
	b := newMemBackend()
	s := loaded(t, b)
	before := s.Len()

	require.NoError(t, s.Add(context.Background(), "https://x.example"))
	require.Equal(t, before+1, s.Len())
	require.Equal(t, "https://x.example", s.Links()[s.Len()-1])
	require.Equal(t, s.Links(), b.lists[Key])
	require.Equal(t, 1, b.saves)
}

func TestAddEmptyIsNoop(t *testing.T) {
	b := newMemBackend()
	s := loaded(t, b)
	before := s.Links()

	require.NoError(t, s.Add(context.Background(), ""))
	require.Equal(t, before, s.Links())
	require.Zero(t, b.saves)
}

func TestAddAllowsDuplicates(t *testing.T) {
	s := loaded(t, newMemBackend())
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, "https://dup.example"))
	require.NoError(t, s.Add(ctx, "https://dup.example"))
	l := s.Links()
	require.Equal(t, "https://dup.example", l[len(l)-1])
	require.Equal(t, "https://dup.example", l[len(l)-2])
}

func TestDeleteShiftsFollowingEntries(t *testing.T) {
	b := newMemBackend()
	b.lists[Key] = []string{"a", "b", "c", "d"}
	s := loaded(t, b)

	require.NoError(t, s.Delete(context.Background(), 1))
	require.Equal(t, []string{"a", "c", "d"}, s.Links())
	require.Equal(t, []string{"a", "c", "d"}, b.lists[Key])
}

func TestDeleteSeveralIndices(t *testing.T) {
	b := newMemBackend()
	b.lists[Key] = []string{"a", "b", "c", "d", "e"}
	s := loaded(t, b)

	require.NoError(t, s.Delete(context.Background(), 0, 3, 3, 9, -1))
	require.Equal(t, []string{"b", "c", "e"}, s.Links())
	require.Equal(t, 1, b.saves)
}

func TestDeleteNothingInRangeDoesNotPersist(t *testing.T) {
	b := newMemBackend()
	b.lists[Key] = []string{"a"}
	s := loaded(t, b)

	require.NoError(t, s.Delete(context.Background(), 4))
	require.Equal(t, []string{"a"}, s.Links())
	require.Zero(t, b.saves)
}

func TestSaveErrorIsWrapped(t *testing.T) {
	boom := errors.New("disk full")
	b := newMemBackend()
	s := loaded(t, b)
	b.err = boom

	err := s.Add(context.Background(), "https://x.example")
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "save links")
}

func TestFailedSaveLeavesListUnchanged(t *testing.T) {
	ctx := context.Background()
	b := newMemBackend()
	b.lists[Key] = []string{"https://a", "https://b"}
	s := loaded(t, b)
	b.err = errors.New("disk full")

	require.Error(t, s.Add(ctx, "https://c"))
	require.Equal(t, []string{"https://a", "https://b"}, s.Links())

	require.Error(t, s.Delete(ctx, 0))
	require.Equal(t, []string{"https://a", "https://b"}, s.Links())

	n, err := s.Import(ctx, strings.NewReader("[[link]]\nurl = \"https://d\"\n"))
	require.Error(t, err)
	require.Zero(t, n)
	require.Equal(t, []string{"https://a", "https://b"}, s.Links())
	require.Equal(t, []string{"https://a", "https://b"}, b.lists[Key])

	b.err = nil
	require.NoError(t, s.Add(ctx, "https://c"))
	require.Equal(t, []string{"https://a", "https://b", "https://c"}, s.Links())
}

func TestFilter(t *testing.T) {
	b := newMemBackend()
	b.lists[Key] = []string{
		"https://www.apple.com",
		"https://maps.google.com",
		"https://www.bing.com/maps",
		"not a url",
	}
	s := loaded(t, b)

	require.Equal(t, []int{0, 1, 2, 3}, s.Filter(""))
	require.Equal(t, []int{1, 2}, s.Filter("MAPS"))
	require.Equal(t, []int{0}, s.Filter("aple.com"), "typo within two edits of the host")
	require.Equal(t, []int{3}, s.Filter("a url"))
	require.Empty(t, s.Filter("zzzzzzzz"))
}

func TestExportImport(t *testing.T) {
	src := loaded(t, newMemBackend())
	var buf bytes.Buffer
	require.NoError(t, src.Export(&buf))
	require.Contains(t, buf.String(), "[[link]]")

	b := newMemBackend()
	b.lists[Key] = []string{}
	dst := loaded(t, b)
	n, err := dst.Import(context.Background(), &buf)
	require.NoError(t, err)
	require.Equal(t, len(Defaults), n)
	require.Equal(t, Defaults, dst.Links())
	require.Equal(t, 1, b.saves)
}

func TestImportSkipsBlankAndRejectsGarbage(t *testing.T) {
	b := newMemBackend()
	b.lists[Key] = []string{}
	s := loaded(t, b)

	n, err := s.Import(context.Background(), strings.NewReader("[[link]]\nurl = \"  \"\n"))
	require.NoError(t, err)
	require.Zero(t, n)
	require.Zero(t, b.saves)

	_, err = s.Import(context.Background(), strings.NewReader("[[link]\nurl="))
	require.Error(t, err)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "links.db")
	require.NoError(t, database.RunMigrations(database.DriverCGO, path))
	db, err := database.Open(database.DriverCGO, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := loaded(t, repository.NewLinkRepo(db))
	require.NoError(t, s.Delete(ctx, 0, 1, 2))
	require.Empty(t, s.Links())

	reopened := loaded(t, repository.NewLinkRepo(db))
	require.Empty(t, reopened.Links(), "an emptied list must not fall back to defaults")

	require.NoError(t, reopened.Add(ctx, "https://kept.example"))
	again := loaded(t, repository.NewLinkRepo(db))
	require.Equal(t, []string{"https://kept.example"}, again.Links())
}
