package links

import (
	"net/url"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxHostDistance is how many edits a query may be from a link's host and still match.
const maxHostDistance = 2

// Filter returns the positions of links matching query. A link matches when it
// contains the query (case-insensitive) or its host, with or without a leading
// "www.", is within a couple of edits of the query. An empty query matches all.
func (s *Store) Filter(query string) []int {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]int, 0, len(s.links))
	for i, link := range s.links {
		if q == "" || matches(link, q) {
			out = append(out, i)
		}
	}
	return out
}

func matches(link, q string) bool {
	lower := strings.ToLower(link)
	if strings.Contains(lower, q) {
		return true
	}
	u, err := url.Parse(lower)
	if err != nil || u.Host == "" {
		return false
	}
	host := u.Hostname()
	for _, h := range []string{host, strings.TrimPrefix(host, "www.")} {
		if levenshtein.ComputeDistance(h, q) <= maxHostDistance {
			return true
		}
	}
	return false
}
