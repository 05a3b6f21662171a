package repositories

import "errors"

var (
	// ErrDuplicate is returned when a unique constraint rejects an insert
	ErrDuplicate = errors.New("record already exists")

	// ErrReferenced is returned when a restricted row is still referenced
	ErrReferenced = errors.New("record is still referenced")
)
