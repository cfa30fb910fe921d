// Package domain contains the core business entities for Curator.
// This package has no dependencies on other internal packages or
// external frameworks, keeping business logic pure and testable.
package domain
