package entity

import "time"

// User is the credential record keyed by phone.
type User struct {
	Phone    string
	Username string
	OTP      *OTP
	// HashedRefreshToken is empty when the user has no active session.
	HashedRefreshToken string
}

// HasSession reports whether a refresh hash is stored for the user.
func (u User) HasSession() bool {
	return u.HashedRefreshToken != ""
}

// Subject returns the identity carried in issued tokens.
func (u User) Subject() Subject {
	return Subject{Phone: u.Phone, Username: u.Username}
}

// Subject is the stable identity of an authenticated user.
type Subject struct {
	Phone    string
	Username string
}

type OTP struct {
	Code     int
	ExpireAt time.Time
}

// Expired reports whether the challenge window has closed at now.
func (o OTP) Expired(now time.Time) bool {
	return now.After(o.ExpireAt)
}

// Pending reports whether a new challenge is still blocked at now.
func (o OTP) Pending(now time.Time) bool {
	return now.Before(o.ExpireAt)
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
