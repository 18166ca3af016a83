package domain

import "time"

// User is the account holder. Its credential lives in a separate record
// keyed by user id and is loaded explicitly.
type User struct {
	ID        int
	FirstName string
	LastName  string
	ImageURL  string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
