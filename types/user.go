package types

import "time"

// User represents an account in the system.
type User struct {
	// ID is the unique identifier of the user.
	// Zero means the user has not been persisted yet.
	ID int `json:"id" db:"id"`

	// Name is the user's display or full name.
	Name string `json:"name" db:"name"`

	// Email is the user's email address. Welcome mail is sent here.
	Email string `json:"email" db:"email"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
