package contract

import "errors"

// ErrNotFound is returned by targeted updates that matched no row.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("record already exists")
