package nexusauth

import "errors"

var (
	// ErrWrongCredentials is returned when email and password do not match
	// the record for the selected profile. A correct pair submitted under
	// the wrong profile fails with this, never silently succeeds.
	ErrWrongCredentials = errors.New("wrong email or password")
	// ErrConnectionFailed is the transport-fault result: cancellation,
	// deadline expiry, or a credential-backend failure during login.
	ErrConnectionFailed = errors.New("connection failed")
	// ErrValidationFailed is the umbrella result of a submit blocked by
	// local field validation; individual field errors go out as events.
	ErrValidationFailed = errors.New("validation failed")
	// ErrLoginInFlight rejects a submit issued while a previous attempt is
	// still resolving. At most one gateway call is in flight per controller.
	ErrLoginInFlight = errors.New("login already in flight")
	// ErrAlreadyAuthenticated rejects a submit issued while logged in.
	ErrAlreadyAuthenticated = errors.New("already authenticated")
	// ErrControllerClosed is returned by operations on a torn-down
	// controller, including attempts whose resolution arrived after Close.
	ErrControllerClosed = errors.New("controller closed")
)
