package repository

import "time"

// SavedLink represents a saved_links row.
type SavedLink struct {
	ID       string
	ListKey  string
	Position int
	URL      string
}

// Permission represents a permissions row.
type Permission struct {
	Name      string
	Status    string
	UpdatedAt time.Time
}
