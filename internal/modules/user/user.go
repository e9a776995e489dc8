package user

import (
	"time"
)

// User represents a user in the system.
// This is the core entity for the user module, used across the repository, service, and handler layers.
//
// IsActive and WasActivated carry distinct meanings: IsActive can be toggled
// by staff actions later, while WasActivated is sticky - once a user has
// completed activation it stays true forever.
type User struct {
	ID                    string     `db:"id"`
	FirstName             string     `db:"first_name"`
	LastName              string     `db:"last_name"`
	Email                 string     `db:"email"`
	PasswordHash          string     `db:"password_hash"`
	DateOfBirth           *time.Time `db:"date_of_birth"`
	IsActive              bool       `db:"is_active"`
	WasActivated          bool       `db:"was_activated"`
	IsStaff               bool       `db:"is_staff"`
	IsSuperuser           bool       `db:"is_superuser"`
	ActivationEmailSentAt *time.Time `db:"activation_email_sent_at"`
	CreatedAt             time.Time  `db:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at"`
}

// VerificationToken is the one-time 6-digit code mailed to a user after
// registration. Each user owns at most one row; reissuing overwrites it in
// place. Expiry is a derived check against ExpiresAt, rows are only removed
// on successful verification.
type VerificationToken struct {
	UserID    string    `db:"user_id"`
	Code      string    `db:"code"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsExpired reports whether the code is past its expiry at the given instant.
func (v *VerificationToken) IsExpired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}

type OAuthProvider string

const (
	OAuthProviderGOOGLE OAuthProvider = "google"
)

// OAuthState holds the CSRF state and PKCE verifier for an in-flight social login.
type OAuthState struct {
	State     string        `db:"state"`
	Provider  OAuthProvider `db:"provider"`
	UserID    *string       `db:"user_id"`
	Verifier  string        `db:"verifier"`
	ExpiresAt time.Time     `db:"expires_at"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}
