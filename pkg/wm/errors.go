package wm

import "errors"

// Sentinel errors for the recoverable conditions §7 enumerates. None of
// these are ever fatal: callers observe them (typically via the returned
// error from a Space method, or a log line) and the affected window,
// edge, or rule is the only thing that loses functionality.
var (
	// ErrProtocolViolation marks a malformed or out-of-sequence request
	// from a client (e.g. configure on a window already destroyed).
	// The offending request is dropped; processing continues.
	ErrProtocolViolation = errors.New("wincore: protocol violation by client")

	// ErrUnresponsiveClient marks a window whose ping has not been
	// acknowledged within the configured timeout.
	ErrUnresponsiveClient = errors.New("wincore: client unresponsive")

	// ErrDependencyUnavailable marks a lost external collaborator
	// (decoration factory returned nil, output set came back empty).
	ErrDependencyUnavailable = errors.New("wincore: external dependency unavailable")

	// ErrInvalidRule marks a rule that failed to parse or validate; it
	// is skipped and every other rule still loads.
	ErrInvalidRule = errors.New("wincore: invalid rule")

	// ErrInvalidLayout marks a persisted subspace layout that failed to
	// parse or validate; the manager falls back to one default subspace.
	ErrInvalidLayout = errors.New("wincore: invalid persisted subspace layout")

	// ErrNotFound is returned by lookups (window, subspace, rule) that
	// found nothing matching the given id.
	ErrNotFound = errors.New("wincore: not found")

	// ErrBusy is returned when an operation that requires exclusivity
	// (starting move/resize while another window already has it) is
	// attempted while that exclusivity is already held.
	ErrBusy = errors.New("wincore: operation already in progress")
)
