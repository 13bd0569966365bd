// Package session provides Redis-backed persistence for the single session
// slot a client holds, with lazy expiry enforced on read.
//
// # Wire format
//
// The record is stored as JSON under one well-known key:
//
//	{"user":{...},"token":"...","expires":<epoch-ms>}
//
// This shape is an external contract: prior sessions written by other
// implementations of the same front-end must load unchanged.
//
// # Architecture boundaries
//
// This package owns the [Store] (Redis operations) and the persisted model
// ([Record], [User], [ProfileKind]). It does not decide what a valid login
// is or when to log a user out — that policy belongs to the Controller.
//
// # What this package must NOT do
//
//   - Import nexusauth or validation (no upward imports).
//   - Return an expired or unparseable record as valid; both read as
//     absent and are deleted as a side effect.
package session
