package domain

import "time"

// Account is the domain entity for a user account. Username is unique and
// immutable; the record is never mutated after registration.
type Account struct {
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
