package repository

import "errors"

var (
	// ErrEntryNotFound indicates the history index is out of range
	ErrEntryNotFound = errors.New("history entry not found")

	// ErrRepositoryUnavailable indicates the backing store could not be written
	ErrRepositoryUnavailable = errors.New("repository unavailable")
)
