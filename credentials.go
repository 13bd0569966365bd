package nexusauth

import "context"

// CredentialRecord is the expected email/password pair for one profile.
type CredentialRecord struct {
	Email    string
	Password string
}

// CredentialRepository is the pluggable credential table behind the
// gateway. Lookup returns the record for a profile, false when the profile
// has none, and an error only for backend faults (which surface to the
// caller as connection failures, never as wrong credentials).
type CredentialRepository interface {
	Lookup(ctx context.Context, profile ProfileKind) (CredentialRecord, bool, error)
}

// StaticCredentials is an in-memory CredentialRepository keyed by profile.
type StaticCredentials map[ProfileKind]CredentialRecord

func (s StaticCredentials) Lookup(_ context.Context, profile ProfileKind) (CredentialRecord, bool, error) {
	rec, ok := s[profile]
	return rec, ok, nil
}

// DefaultCredentials is the demo table the simulated backend ships with.
func DefaultCredentials() StaticCredentials {
	return StaticCredentials{
		ProfileCompany: {Email: "contact@company.com", Password: "company123"},
		ProfileStudent: {Email: "student@university.edu", Password: "student123"},
	}
}
