// Package tui provides the interactive terminal UI for curator, built
// on Bubbletea. It walks the user from repository selection through
// run setup to live collection progress.
package tui

import "errors"

// ErrMissingRunner is returned when the collection runner is not provided.
var ErrMissingRunner = errors.New("tui: collection runner is required")

// ErrMissingCatalog is returned when the repository catalog is not provided.
var ErrMissingCatalog = errors.New("tui: repository catalog is required")
