package db

import "errors"

var (
	// ErrNotFound is returned when a record with the given key does not exist
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a write violates a uniqueness constraint
	ErrDuplicate = errors.New("duplicate record")

	// ErrCapacityReached is returned when an assignment insert finds its event full
	ErrCapacityReached = errors.New("event capacity reached")
)
