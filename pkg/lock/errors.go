package lock

import "errors"

var (
	// ErrNotReady is reported for pointer input that arrives before the
	// grid has been laid out.
	ErrNotReady = errors.New("grid not laid out")

	// ErrClosed is returned by Widget methods after Close.
	ErrClosed = errors.New("widget closed")

	// ErrGestureActive is returned when the secret is changed outside Idle.
	ErrGestureActive = errors.New("gesture in progress")

	// ErrInvalidCode is returned for codes that cannot be traced.
	ErrInvalidCode = errors.New("invalid code")
)
