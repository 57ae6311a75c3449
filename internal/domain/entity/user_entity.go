package entity

import (
	"time"
)

// User is a registered account.
// Passwords are stored as bcrypt hashes in PasswordHash.
type User struct {
	ID           string
	Email        string
	Nickname     string
	PasswordHash string
	CreatedAt    time.Time
}
