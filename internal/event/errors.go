package event

import "errors"

// ErrEmptyTitle is returned when a create request has a blank title; nothing is stored.
var ErrEmptyTitle = errors.New("event title is required")

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("event not found")

// ErrAmbiguous is returned when an id prefix matches more than one record.
var ErrAmbiguous = errors.New("event reference is ambiguous")

// ErrPersist wraps failures to read, encode or write the stored collection.
// The previously stored collection is left intact when it is returned.
var ErrPersist = errors.New("event storage failed")
