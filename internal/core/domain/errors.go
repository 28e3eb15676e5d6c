package domain

import "errors"

// ErrRunNotFound is returned by run journals for unknown run IDs.
var ErrRunNotFound = errors.New("run not found")
