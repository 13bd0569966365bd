// Package internal contains helper utilities that are intentionally private
// to nexusauth, currently secure random token and identifier generation.
//
// # Sub-packages
//
//   - clock — injectable wall-time and one-shot scheduling abstraction
//
// # What this package must NOT do
//
//   - Export types that appear in the public nexusauth API.
//   - Be imported by any package outside the nexusauth module.
package internal
