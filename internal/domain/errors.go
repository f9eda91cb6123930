package domain

import "errors"

var (
	// ErrNotFound covers a missing jam, song, attendee or registration.
	ErrNotFound = errors.New("not found")
	// ErrConflict means the entity already exists (e.g. song already queued).
	ErrConflict = errors.New("already exists")
	// ErrAlreadyRegistered is returned when an attendee tries to register
	// for a song they are already booked on. Callers must unregister first.
	ErrAlreadyRegistered = errors.New("already registered to perform")
	// ErrInvalidIdentity means the request carried no usable voter identity.
	ErrInvalidIdentity = errors.New("invalid voter identity")
	// ErrPermissionDenied is surfaced by the access gate, never derived here.
	ErrPermissionDenied = errors.New("permission denied")
)
