package domain

import "time"

// Category groups products; it owns zero or more Product rows.
type Category struct {
	ID        int
	Title     string
	ImageURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
