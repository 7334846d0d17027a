package model

import "errors"

// ErrNotFound is returned when a referenced event or attendee does not exist.
var ErrNotFound = errors.New("not found")

// ErrEventClosed is returned when operating on an event whose date has passed.
var ErrEventClosed = errors.New("event is closed")

// ErrDuplicateRegistration is returned when the same email registers twice
// for the same event.
var ErrDuplicateRegistration = errors.New("email already registered for this event")

// ErrCapacityExceeded is returned when an event has no remaining capacity.
var ErrCapacityExceeded = errors.New("event has reached its capacity limit")

// ErrValidation is returned for malformed input such as a past event date or
// a non-positive capacity.
var ErrValidation = errors.New("validation failed")

// ErrConcurrency is returned on a lost update against a record that no
// longer exists.
var ErrConcurrency = errors.New("record was modified or removed concurrently")

// IsRegistrationRejected reports whether err is one of the four registration
// failure reasons. Callers see a single generic rejection; the distinct
// sentinel stays available for logs and tests.
func IsRegistrationRejected(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrEventClosed) ||
		errors.Is(err, ErrDuplicateRegistration) ||
		errors.Is(err, ErrCapacityExceeded)
}
