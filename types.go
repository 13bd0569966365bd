package nexusauth

import (
	"time"

	"github.com/nexuslabs/nexusauth/session"
	"github.com/nexuslabs/nexusauth/validation"
)

// ProfileKind and User are owned by the session package (they are the
// persisted model) and re-exported here as the public vocabulary of the
// controller API.
type (
	ProfileKind = session.ProfileKind
	User        = session.User
)

const (
	ProfileCompany = session.ProfileCompany
	ProfileStudent = session.ProfileStudent
)

// Credentials is one submit attempt. Ephemeral: built per attempt,
// discarded once the attempt resolves.
type Credentials struct {
	Email    string
	Password string
	Profile  ProfileKind
}

// LoginData is the success payload of a gateway call: a freshly minted
// user and token plus the granted session lifetime.
type LoginData struct {
	User  User
	Token string
	TTL   time.Duration
}

// State is the controller's position in the login state machine. The
// transient fields-invalid condition surfaces as field-error events while
// the state remains StateLoggedOut.
type State uint8

const (
	StateLoggedOut State = iota
	StateAuthenticating
	StateLoggedIn
)

func (s State) String() string {
	switch s {
	case StateLoggedOut:
		return "logged_out"
	case StateAuthenticating:
		return "authenticating"
	case StateLoggedIn:
		return "logged_in"
	}
	return "unknown"
}

// Field identifies a credential input for field-level error and focus
// events.
type Field string

const (
	FieldEmail    Field = "email"
	FieldPassword Field = "password"
)

// NotificationKind classifies transient global notifications.
type NotificationKind string

const (
	NotifySuccess  NotificationKind = "success"
	NotifyError    NotificationKind = "error"
	NotifyInfo     NotificationKind = "info"
	NotifyFeedback NotificationKind = "feedback"
)

// EventType discriminates the outbound event stream.
type EventType string

const (
	// EventNotification carries a transient global message (Kind, Message,
	// DisplayFor).
	EventNotification EventType = "notification"
	// EventFieldError attaches a message to one input; an empty Message
	// clears the decoration.
	EventFieldError EventType = "field_error"
	// EventFocus asks the presentation layer to focus one input.
	EventFocus EventType = "focus"
	// EventStrength is the advisory password strength level.
	EventStrength EventType = "strength"
	// EventNavigate signals readiness to navigate, once per successful
	// login. The controller never navigates itself.
	EventNavigate EventType = "navigate"
)

// Event is one outbound notification to the presentation layer. Only the
// fields relevant to Type are populated.
type Event struct {
	Timestamp  time.Time           `json:"timestamp"`
	Type       EventType           `json:"type"`
	Kind       NotificationKind    `json:"kind,omitempty"`
	Message    string              `json:"message,omitempty"`
	DisplayFor time.Duration       `json:"display_for,omitempty"`
	Field      Field               `json:"field,omitempty"`
	Strength   validation.Strength `json:"strength,omitempty"`
	Route      string              `json:"route,omitempty"`
}

// routeFor maps the selected profile to its post-login destination.
func routeFor(p ProfileKind) string {
	switch p {
	case ProfileCompany:
		return "/company/dashboard"
	case ProfileStudent:
		return "/student/dashboard"
	}
	return "/dashboard"
}
