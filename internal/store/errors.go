package store

import "errors"

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the entity already exists.
	ErrConflict = errors.New("already exists")

	// ErrInvalidReference indicates a foreign key points at a missing entity.
	ErrInvalidReference = errors.New("invalid reference")
)
