package tracker

import "errors"

var (
	// ErrFetchFailed means the remote source returned nothing usable.
	// The operation was aborted before any stored state changed.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrClassifierFailed means sentiment scoring was unavailable.
	// Reconciliation treats it as non-fatal.
	ErrClassifierFailed = errors.New("classifier failed")

	// ErrStorage means a transaction could not be committed.
	ErrStorage = errors.New("storage failure")

	// ErrInvalidRequest means caller-supplied parameters were rejected.
	ErrInvalidRequest = errors.New("invalid request")

	ErrVideoNotFound       = errors.New("video not found")
	ErrVideoAlreadyTracked = errors.New("video already tracked")
)
