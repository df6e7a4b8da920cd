package service

import "errors"

// Service-level errors.
var (
	// ErrEmptyQuery indicates a search was requested with no query text.
	ErrEmptyQuery = errors.New("search query is empty")

	// ErrSyncInProgress indicates a sync run was requested while another
	// run holds the guard.
	ErrSyncInProgress = errors.New("sync already in progress")
)
