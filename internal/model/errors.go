package model

import "errors"

var (
	// ErrNotFound is returned by stores when no row matches.
	ErrNotFound = errors.New("not found")

	// ErrInvalidToken is the single user-facing failure of verify-and-act
	// flows. Malformed, unknown, mismatched, expired and conflicting tokens
	// all collapse into it so the caller cannot tell which check failed.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrInvalidOwner is returned when issuance is requested for an owner
	// without a persisted identity.
	ErrInvalidOwner = errors.New("owner has no persisted identity")
)
