package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

// DefaultMinLength is the password length floor applied when the caller
// passes a non-positive minimum.
const DefaultMinLength = 8

// DefaultEmailPattern is the RFC-lite shape accepted for emails:
// non-whitespace local part, non-whitespace domain with at least one dot.
const DefaultEmailPattern = `^[^\s@]+@[^\s@]+\.[^\s@]+$`

var defaultEmailRE = regexp.MustCompile(DefaultEmailPattern)

var (
	// ErrEmailRequired is returned when the email is empty after trimming.
	ErrEmailRequired = errors.New("email required")
	// ErrEmailFormat is returned when the email does not match the pattern.
	ErrEmailFormat = errors.New("invalid email format")
	// ErrPasswordRequired is returned when the password is empty.
	ErrPasswordRequired = errors.New("password required")
	// ErrPasswordTooShort is returned when the password is shorter than the
	// configured minimum.
	ErrPasswordTooShort = errors.New("password too short")
)

// Strength is the advisory password strength level. It never gates a
// submission.
type Strength uint8

const (
	StrengthNone Strength = iota
	StrengthWeak
	StrengthMedium
	StrengthStrong
)

func (s Strength) String() string {
	switch s {
	case StrengthNone:
		return "none"
	case StrengthWeak:
		return "weak"
	case StrengthMedium:
		return "medium"
	case StrengthStrong:
		return "strong"
	}
	return "unknown"
}

// Email checks value against pattern (nil means DefaultEmailPattern).
// The value is trimmed before the empty check, matching the submit path
// which normalizes input the same way.
func Email(value string, pattern *regexp.Regexp) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return ErrEmailRequired
	}
	if pattern == nil {
		pattern = defaultEmailRE
	}
	if !pattern.MatchString(value) {
		return ErrEmailFormat
	}
	return nil
}

// Password checks that value is present and at least min runes long.
// Exactly min passes. min <= 0 falls back to DefaultMinLength.
func Password(value string, min int) error {
	if value == "" {
		return ErrPasswordRequired
	}
	if min <= 0 {
		min = DefaultMinLength
	}
	if len([]rune(value)) < min {
		return ErrPasswordTooShort
	}
	return nil
}

// Score computes the strength level from four independent rules: length of
// at least eight, an uppercase letter, a digit, and a symbol. 0 satisfied
// rules map to None, 1-2 to Weak, 3 to Medium, 4 to Strong.
func Score(value string) Strength {
	score := 0
	if len([]rune(value)) >= 8 {
		score++
	}
	var hasUpper, hasDigit, hasSymbol bool
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			hasSymbol = true
		}
	}
	if hasUpper {
		score++
	}
	if hasDigit {
		score++
	}
	if hasSymbol {
		score++
	}

	switch {
	case score == 0:
		return StrengthNone
	case score <= 2:
		return StrengthWeak
	case score == 3:
		return StrengthMedium
	default:
		return StrengthStrong
	}
}

// Form reports whether both field validators pass. It is the synchronous
// gate that must hold before any gateway call is attempted.
func Form(email, password string, min int, pattern *regexp.Regexp) bool {
	return Email(email, pattern) == nil && Password(password, min) == nil
}
