package store

import "errors"

// ErrNotFound is returned when no sheet row matches a lookup.
var ErrNotFound = errors.New("row not found")
