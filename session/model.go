package session

import "time"

// ProfileKind is the account category selected before login. It decides
// which credential set applies and where a successful login navigates.
type ProfileKind string

const (
	ProfileCompany ProfileKind = "company"
	ProfileStudent ProfileKind = "student"
)

// Valid reports whether p is one of the known profiles.
func (p ProfileKind) Valid() bool {
	return p == ProfileCompany || p == ProfileStudent
}

// Display returns the human-readable profile name used in notifications
// and avatar URLs.
func (p ProfileKind) Display() string {
	switch p {
	case ProfileCompany:
		return "Company"
	case ProfileStudent:
		return "Student"
	}
	return "Unknown"
}

// User is the authenticated identity constructed by the gateway on a
// successful login. Immutable once built.
type User struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	DisplayName string      `json:"name"`
	Profile     ProfileKind `json:"profile"`
	AvatarURL   string      `json:"avatar"`
}

// Record is the single persisted session slot. Expires is epoch
// milliseconds and is always in the future at creation; a past value is
// treated as absent on read.
type Record struct {
	User    User   `json:"user"`
	Token   string `json:"token"`
	Expires int64  `json:"expires"`
}

// ExpiresAt returns the expiry instant.
func (r *Record) ExpiresAt() time.Time {
	return time.UnixMilli(r.Expires)
}

// Remaining returns how long the record stays valid from now. Zero or
// negative means expired.
func (r *Record) Remaining(now time.Time) time.Duration {
	return r.ExpiresAt().Sub(now)
}
