package domain

import (
	"strings"
	"time"
)

// User is an account of the tracker. The email address is the login identifier.
type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Email        string    `bson:"email" json:"email"`    // Unique, see NormalizeEmail
	PasswordHash string    `bson:"passwordHash" json:"-"` // Never expose this via JSON
	IsActive     bool      `bson:"isActive" json:"isActive"`
	IsAdmin      bool      `bson:"isAdmin" json:"isAdmin"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsStaff reports whether the user may use the admin endpoints.
func (u *User) IsStaff() bool {
	return u.IsAdmin
}

// NormalizeEmail trims the address and lower-cases its domain part.
// The local part is kept as typed.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}
