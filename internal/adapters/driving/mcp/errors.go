// Package mcp provides an MCP (Model Context Protocol) server adapter
// for curator. It lets AI assistants run collections and browse
// repositories and run history.
package mcp

import "errors"

// ErrMissingRunner is returned when the collection runner is not provided.
var ErrMissingRunner = errors.New("mcp: collection runner is required")

// ErrMissingCatalog is returned when the repository catalog is not provided.
var ErrMissingCatalog = errors.New("mcp: repository catalog is required")
