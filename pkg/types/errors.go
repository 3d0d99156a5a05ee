package types

import "errors"

// Field validation errors. Returned when a value fails the field's predicate;
// the field keeps its previous value.
var (
	ErrInvalidName     = errors.New("name must not be empty")
	ErrInvalidPhone    = errors.New("phone must be valid text")
	ErrInvalidBirthday = errors.New("birthday must be a calendar date")
)

// Address book errors.
var (
	ErrContactNotFound = errors.New("contact not found")
	ErrNilRecord       = errors.New("record is nil")
)

// Store errors. ErrNoPriorData is informational: the store has never been
// written, and the caller should start with an empty book.
var (
	ErrNoPriorData     = errors.New("no previous data found")
	ErrCorruptData     = errors.New("persisted data is malformed")
	ErrStoreClosed     = errors.New("store is closed")
	ErrBackendEmpty    = errors.New("backend must not be empty")
	ErrBackendUnknown  = errors.New("unknown backend")
	ErrFileNameInvalid = errors.New("file name must be a base name")
)
