package domain

import "time"

// UserType distinguishes the two account kinds the campus API serves.
type UserType string

const (
	UserTypeStudent UserType = "student"
	UserTypeClub    UserType = "club"
)

// Valid reports whether ut is one of the known account kinds.
func (ut UserType) Valid() bool {
	return ut == UserTypeStudent || ut == UserTypeClub
}

type User struct {
	ID           int
	Identifier   string // external student or club number
	Email        string
	PasswordHash string
	UserType     UserType
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the verified identity extracted from a valid access token.
// Authorization reads UserID and UserType from here, never from a database
// lookup.
type Principal struct {
	UserID   int
	UserType UserType
	Subject  string
}
