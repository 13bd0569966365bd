package nexusauth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/nexuslabs/nexusauth/internal/clock"
	"github.com/nexuslabs/nexusauth/session"
	"github.com/nexuslabs/nexusauth/validation"
)

// Controller owns the application state of the login front-end and drives
// the session state machine: LoggedOut -> Authenticating -> LoggedIn, with
// expiry or logout forcing the way back. It is the only writer of that
// state; collaborators (store, gateway, timer) never mutate it.
//
// All mutations serialize behind one mutex because timer expiry and login
// completion are logically concurrent events in a multi-threaded host. A
// generation counter suppresses continuations that resolve after the state
// they belong to was torn down.
type Controller struct {
	cfg     Config
	emailRE *regexp.Regexp

	store   *session.Store
	gateway *Gateway
	events  *eventDispatcher
	metrics *Metrics
	clk     clock.Clock

	mu       sync.Mutex
	state    State
	profile  ProfileKind
	user     *User
	timer    *sessionTimer
	gen      uint64
	closed   bool
	uiTimers map[uint64]clock.Timer
	uiSeq    uint64
}

// State returns the current machine state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Profile returns the currently selected profile.
func (c *Controller) Profile() ProfileKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile
}

// IsAuthenticated reports whether a user is logged in. It is true exactly
// when CurrentUser is non-nil.
func (c *Controller) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user != nil
}

// CurrentUser returns a copy of the authenticated user, or nil.
func (c *Controller) CurrentUser() *User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// Metrics exposes the controller's counters.
func (c *Controller) Metrics() *Metrics { return c.metrics }

// EventsDropped reports outbound events discarded under DropIfFull.
func (c *Controller) EventsDropped() uint64 { return c.events.Dropped() }

// SelectProfile switches the selected profile. It is orthogonal to the
// login state machine: legal in any state, and it never cancels an
// in-flight attempt (the attempt keeps the profile it was submitted with).
func (c *Controller) SelectProfile(kind ProfileKind) {
	if !kind.Valid() {
		return
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.profile = kind
	c.mu.Unlock()

	c.notify(NotifyFeedback, kind.Display()+" profile selected")
}

// OnEmailChanged reacts to live input: it clears the email field error.
// It never gates submission by itself, and it does not normalize the
// draft value; the email is trimmed and lower-cased once, at Submit.
func (c *Controller) OnEmailChanged(string) {
	c.emit(Event{Type: EventFieldError, Field: FieldEmail})
}

// OnPasswordChanged reacts to live input: it clears the password field
// error and emits the advisory strength level for the new value.
func (c *Controller) OnPasswordChanged(value string) {
	c.emit(Event{Type: EventFieldError, Field: FieldPassword})
	c.emit(Event{Type: EventStrength, Strength: validation.Score(value)})
}

// Submit runs one login attempt with the currently selected profile.
//
// The local validation gate short-circuits before any gateway call: field
// errors go out as events and the attempt resolves ErrValidationFailed.
// While an attempt is in flight further submits resolve ErrLoginInFlight.
// The gateway call itself runs on the calling goroutine; ctx bounds it,
// and a ctx cut short surfaces as the connection-error outcome.
func (c *Controller) Submit(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrControllerClosed
	}
	switch c.state {
	case StateAuthenticating:
		c.mu.Unlock()
		c.metrics.inc(MetricLoginRejected)
		return ErrLoginInFlight
	case StateLoggedIn:
		c.mu.Unlock()
		return ErrAlreadyAuthenticated
	}

	emailErr := validation.Email(email, c.emailRE)
	passErr := validation.Password(password, c.cfg.Password.MinLength)
	if emailErr != nil || passErr != nil {
		c.mu.Unlock()
		c.metrics.inc(MetricLoginBlocked)
		if emailErr != nil {
			c.emit(Event{Type: EventFieldError, Field: FieldEmail, Message: c.fieldMessage(emailErr)})
		}
		if passErr != nil {
			c.emit(Event{Type: EventFieldError, Field: FieldPassword, Message: c.fieldMessage(passErr)})
		}
		return ErrValidationFailed
	}

	creds := Credentials{Email: email, Password: password, Profile: c.profile}
	gen := c.gen
	c.state = StateAuthenticating
	c.mu.Unlock()

	data, err := c.gateway.Login(ctx, creds)

	c.mu.Lock()
	if c.closed || c.gen != gen {
		// Torn down while in flight; the resolution is abandoned.
		c.mu.Unlock()
		return ErrControllerClosed
	}
	if err != nil {
		c.state = StateLoggedOut
		c.mu.Unlock()
		c.completeFailure(err)
		return err
	}
	c.completeSuccessLocked(ctx, gen, data)
	c.mu.Unlock()
	return nil
}

// completeSuccessLocked finishes a successful attempt: persist, arm the
// expiry timer, flip state, notify, and schedule the navigate intent.
// Caller holds c.mu.
func (c *Controller) completeSuccessLocked(ctx context.Context, gen uint64, data *LoginData) {
	if err := c.store.Save(ctx, data.User, data.Token, data.TTL); err != nil {
		// The session simply will not survive a restart; the login itself
		// stands.
		c.metrics.inc(MetricStorageFault)
	} else {
		c.metrics.inc(MetricSessionSaved)
	}

	user := data.User
	c.user = &user
	c.state = StateLoggedIn
	c.timer.start(data.TTL, func() { c.expire(gen) })
	c.metrics.inc(MetricLoginSuccess)

	route := routeFor(user.Profile)
	c.scheduleLocked(c.cfg.UI.SuccessRedirectDelay, gen, func() {
		c.emit(Event{Type: EventNavigate, Route: route})
	})

	c.notify(NotifySuccess, fmt.Sprintf("Welcome back, %s!", user.DisplayName))
}

// completeFailure surfaces a failed attempt: error notification, bounded
// field decoration on both inputs, and focus back on the email field.
func (c *Controller) completeFailure(err error) {
	msg := c.failureMessage(err)
	if errors.Is(err, ErrConnectionFailed) {
		c.metrics.inc(MetricConnectionError)
	} else {
		c.metrics.inc(MetricLoginFailure)
	}

	c.notify(NotifyError, msg)
	c.emit(Event{Type: EventFieldError, Field: FieldEmail, Message: msg})
	c.emit(Event{Type: EventFieldError, Field: FieldPassword, Message: msg})
	c.emit(Event{Type: EventFocus, Field: FieldEmail})

	c.mu.Lock()
	gen := c.gen
	c.scheduleLocked(c.cfg.UI.FieldErrorClear, gen, func() {
		c.emit(Event{Type: EventFieldError, Field: FieldEmail})
		c.emit(Event{Type: EventFieldError, Field: FieldPassword})
	})
	c.mu.Unlock()
}

// Logout ends the session: state reset, stored record cleared, expiry
// timer cancelled. Calling it while already logged out is a no-op, and it
// does not abandon an in-flight attempt.
func (c *Controller) Logout(ctx context.Context) {
	c.mu.Lock()
	if c.closed || c.state != StateLoggedIn {
		c.mu.Unlock()
		return
	}
	c.resetLocked()
	c.metrics.inc(MetricLogout)
	c.mu.Unlock()

	if err := c.store.Clear(ctx); err != nil {
		c.metrics.inc(MetricStorageFault)
	}
}

// expire is the timer callback: an internally triggered logout with its
// own informational notification. gen ties it to the session it was armed
// for, so a logout or teardown in between makes it a no-op.
func (c *Controller) expire(gen uint64) {
	c.mu.Lock()
	if c.closed || c.gen != gen || c.state != StateLoggedIn {
		c.mu.Unlock()
		return
	}
	c.resetLocked()
	c.metrics.inc(MetricSessionExpired)
	c.mu.Unlock()

	if err := c.store.Clear(context.Background()); err != nil {
		c.metrics.inc(MetricStorageFault)
	}
	c.notify(NotifyInfo, "Your session has expired. Please log in again.")
}

// resetLocked returns AppState to its logged-out defaults. Caller holds
// c.mu. The generation bump abandons every continuation armed for the
// ended session.
func (c *Controller) resetLocked() {
	c.gen++
	c.state = StateLoggedOut
	c.user = nil
	c.timer.cancel()
}

// restore asks the store for an unexpired session at construction time.
// A restored session keeps its original expiry: the timer is armed for
// the remaining time, never the full duration.
func (c *Controller) restore(ctx context.Context) {
	rec, err := c.store.Load(ctx)
	if err != nil {
		// Fail open to logged-out.
		c.metrics.inc(MetricStorageFault)
		return
	}
	if rec == nil {
		return
	}

	remaining := rec.Remaining(c.clk.Now())
	if remaining <= 0 {
		return
	}

	c.mu.Lock()
	user := rec.User
	c.user = &user
	c.state = StateLoggedIn
	c.profile = user.Profile
	gen := c.gen
	c.timer.start(remaining, func() { c.expire(gen) })
	c.mu.Unlock()
	c.metrics.inc(MetricSessionRestored)
}

// Close tears the controller down: pending continuations are abandoned,
// timers cancelled, and the event dispatcher drained. Idempotent. The
// persisted session is left alone so it can be restored by the next
// controller.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.gen++
	c.timer.cancel()
	for _, t := range c.uiTimers {
		t.Stop()
	}
	c.uiTimers = nil
	c.mu.Unlock()

	c.events.Close()
}

// scheduleLocked arms a one-shot UI continuation (navigate, field-error
// clear) tied to gen. Caller holds c.mu. A close or reset that landed
// while the attempt was resolving leaves nothing to schedule.
func (c *Controller) scheduleLocked(d time.Duration, gen uint64, fn func()) {
	if c.closed || c.gen != gen {
		return
	}
	id := c.uiSeq
	c.uiSeq++
	c.uiTimers[id] = c.clk.AfterFunc(d, func() {
		c.mu.Lock()
		delete(c.uiTimers, id)
		live := !c.closed && c.gen == gen
		c.mu.Unlock()
		if live {
			fn()
		}
	})
}

func (c *Controller) notify(kind NotificationKind, message string) {
	c.emit(Event{
		Type:       EventNotification,
		Kind:       kind,
		Message:    message,
		DisplayFor: c.cfg.UI.NotificationDisplay,
	})
}

func (c *Controller) emit(event Event) {
	event.Timestamp = c.clk.Now()
	c.events.Emit(context.Background(), event)
}

func (c *Controller) fieldMessage(err error) string {
	switch {
	case errors.Is(err, validation.ErrEmailRequired):
		return "Email is required"
	case errors.Is(err, validation.ErrEmailFormat):
		return "Invalid email format"
	case errors.Is(err, validation.ErrPasswordRequired):
		return "Password is required"
	case errors.Is(err, validation.ErrPasswordTooShort):
		return fmt.Sprintf("Password must be at least %d characters", c.cfg.Password.MinLength)
	}
	return "Invalid input"
}

func (c *Controller) failureMessage(err error) string {
	switch {
	case errors.Is(err, ErrWrongCredentials):
		return "Wrong email or password"
	case errors.Is(err, validation.ErrEmailFormat), errors.Is(err, validation.ErrEmailRequired):
		return "Invalid email format"
	case errors.Is(err, validation.ErrPasswordTooShort), errors.Is(err, validation.ErrPasswordRequired):
		return fmt.Sprintf("Password must be at least %d characters", c.cfg.Password.MinLength)
	}
	return "Connection error. Please try again."
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
