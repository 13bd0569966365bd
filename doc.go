// Package nexusauth is the client-side authentication core of the Nexus
// login front-end: credential validation, the asynchronous login protocol,
// session persistence with expiry, and automatic expiry-triggered logout.
//
// The presentation layer is an external collaborator. It forwards user
// intents into the [Controller] (Submit, SelectProfile, Logout, input
// change) and renders the typed [Event] stream the controller emits
// (notifications, field errors, focus, strength advisories, navigation).
//
// Controllers are built through [Builder]:
//
//	ctrl, err := nexusauth.New().
//		WithRedis(rdb).
//		WithEventSink(sink).
//		Build()
//
// Controller methods are safe to call from multiple goroutines; all state
// transitions serialize behind one mutex, and at most one login attempt is
// in flight at a time.
//
// # Architecture boundaries
//
// nexusauth is the public surface. It exposes [Controller], [Builder],
// [Config], the [Event] model, and the [Gateway] with its pluggable
// [CredentialRepository] and [TokenSource]. Field validation lives in the
// validation package, the persisted session slot in the session package,
// and time in internal/clock.
//
// # What this package must NOT do
//
//   - Render anything or perform navigation itself; it only emits intents.
//   - Talk to a real network; the gateway simulates the round-trip behind
//     a contract real transports can implement later.
//   - Let a storage fault escalate past logged-out; corrupt or unreadable
//     persisted sessions read as absent.
package nexusauth
