// Package links holds the persisted, ordered list of saved URLs.
package links

import (
	"context"
	"fmt"
	"slices"
	"sort"
)

// Key is the name the saved list is persisted under.
const Key = "savedLinks"

// Defaults is the list returned when nothing has been persisted yet.
var Defaults = []string{
	"https://www.apple.com",
	"https://maps.google.com",
	"https://www.bing.com/maps",
}

// Backend reads and writes a named ordered list of strings.
type Backend interface {
	Load(ctx context.Context, key string) ([]string, bool, error)
	Save(ctx context.Context, key string, urls []string) error
}

// Store keeps the in-memory list and writes it through to the backend on every mutation.
type Store struct {
	backend Backend
	links   []string
}

func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// Load reads the persisted list, or the defaults when none was persisted.
func (s *Store) Load(ctx context.Context) ([]string, error) {
	urls, ok, err := s.backend.Load(ctx, Key)
	if err != nil {
		return nil, fmt.Errorf("load links: %w", err)
	}
	if !ok {
		urls = slices.Clone(Defaults)
	}
	s.links = urls
	return s.Links(), nil
}

// Links returns a copy of the current list.
func (s *Store) Links() []string {
	return slices.Clone(s.links)
}

func (s *Store) Len() int { return len(s.links) }

// Add appends link and persists. Empty links are ignored.
func (s *Store) Add(ctx context.Context, link string) error {
	if link == "" {
		return nil
	}
	return s.commit(ctx, append(slices.Clone(s.links), link))
}

// Delete removes the entries at the given positions and persists.
// Out-of-range and repeated indices are ignored.
func (s *Store) Delete(ctx context.Context, indices ...int) error {
	drop := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(s.links) {
			drop[i] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return nil
	}
	order := make([]int, 0, len(drop))
	for i := range drop {
		order = append(order, i)
	}
	// remove from the back so earlier positions stay valid
	sort.Sort(sort.Reverse(sort.IntSlice(order)))
	next := slices.Clone(s.links)
	for _, i := range order {
		next = slices.Delete(next, i, i+1)
	}
	return s.commit(ctx, next)
}

// commit persists next and only then makes it the current list, so a failed
// write leaves memory matching storage.
func (s *Store) commit(ctx context.Context, next []string) error {
	if err := s.backend.Save(ctx, Key, next); err != nil {
		return fmt.Errorf("save links: %w", err)
	}
	s.links = next
	return nil
}
