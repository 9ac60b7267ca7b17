package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Application stores and resume blob
// stores return these (optionally wrapped) so the service can translate them into
// domain errors without knowing which backend produced them.
//
//   - ErrNotFound: no record or object exists under the requested key
//   - ErrConflict: a record with the same identity already exists
//   - ErrUnavailable: the backing system could not be reached
//
// Submission validation failures are not infrastructure facts; they use
// pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
