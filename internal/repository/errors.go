package repository

import "errors"

// ErrNotFound is returned when no row matches a point lookup or update
var ErrNotFound = errors.New("record not found")
