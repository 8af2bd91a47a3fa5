package links

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

type exchangeFile struct {
	Link []exchangeLink `toml:"link"`
}

type exchangeLink struct {
	URL string `toml:"url"`
}

// Export writes the current list as a TOML document of [[link]] tables.
func (s *Store) Export(w io.Writer) error {
	doc := exchangeFile{Link: make([]exchangeLink, 0, len(s.links))}
	for _, l := range s.links {
		doc.Link = append(doc.Link, exchangeLink{URL: l})
	}
	if err := toml.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("encode links: %w", err)
	}
	return nil
}

// Import appends every non-empty link from a TOML document written by Export
// and persists once. It returns how many links were added.
func (s *Store) Import(ctx context.Context, r io.Reader) (int, error) {
	var doc exchangeFile
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return 0, fmt.Errorf("decode links: %w", err)
	}
	next := slices.Clone(s.links)
	for _, l := range doc.Link {
		if u := strings.TrimSpace(l.URL); u != "" {
			next = append(next, u)
		}
	}
	added := len(next) - len(s.links)
	if added == 0 {
		return 0, nil
	}
	if err := s.commit(ctx, next); err != nil {
		return 0, err
	}
	return added, nil
}
