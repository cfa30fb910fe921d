package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedRepository indicates an unknown repository name.
	ErrUnsupportedRepository = errors.New("unsupported repository")

	// ErrRunInProgress indicates a collection run is already active
	// on the collector instance.
	ErrRunInProgress = errors.New("collection run in progress")

	// ErrRunNotFound indicates no run exists for the given run ID.
	ErrRunNotFound = errors.New("run not found")

	// Validation errors. These occur before any network call and are
	// always recoverable by correcting the input.

	// ErrInvalidSearchTerm indicates a search term is empty or blank.
	ErrInvalidSearchTerm = errors.New("invalid search term")

	// ErrInvalidSearchType indicates a search type is not in the
	// repository's declared option set.
	ErrInvalidSearchType = errors.New("invalid search type")

	// Authentication errors. These are fatal for a run: no combination
	// can succeed without valid credentials.

	// ErrAuthRequired indicates the repository requires credentials but
	// none were configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the configured credentials were rejected.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrRateLimited indicates the API rate limit retry budget was
	// exhausted for a combination. Sibling combinations proceed.
	ErrRateLimited = errors.New("rate limited")
)
