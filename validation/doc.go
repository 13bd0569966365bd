// Package validation implements the local credential checks that gate a
// login attempt: email shape, password length, and the advisory password
// strength score.
//
// All functions are pure. Failures are sentinel errors so callers can map
// them to field-level messages with errors.Is.
//
// # Architecture boundaries
//
// This package owns field validation only. What to do with a failure —
// surfacing it, clearing it, blocking a submit — is the Controller's job.
//
// # What this package must NOT do
//
//   - Perform I/O or touch the credential table.
//   - Import any other package of this module.
package validation
