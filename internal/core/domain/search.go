package domain

import (
	"fmt"
	"strings"
)

// Query identifies one search combination against a repository.
// Term is empty for type-only and plain-enumeration repositories;
// Type is empty for term-only repositories.
type Query struct {
	// Term is the free-text search keyword.
	Term string

	// Type is the enumerated category constraining search scope.
	Type string
}

// Key returns the deterministic identity for the combination,
// used as the map key for per-combination results and as the
// output filename stem.
func (q Query) Key() string {
	switch {
	case q.Term != "" && q.Type != "":
		return q.Term + "_" + q.Type
	case q.Term != "":
		return q.Term
	case q.Type != "":
		return q.Type
	default:
		return "all"
	}
}

// String returns a human-readable description for status messages.
func (q Query) String() string {
	switch {
	case q.Term != "" && q.Type != "":
		return fmt.Sprintf("%s %s", q.Term, q.Type)
	case q.Term != "":
		return q.Term
	case q.Type != "":
		return q.Type
	default:
		return "all records"
	}
}

// SearchParameters holds the user-supplied inputs for a collection run.
// Terms and Types preserve insertion order; the cartesian expansion in
// BuildQueries iterates terms in the outer loop and types in the inner
// loop, so result ordering is deterministic.
type SearchParameters struct {
	Terms []string
	Types []string
}

// ValidateSearchTerm checks that a search term is a non-blank string.
func ValidateSearchTerm(term string) error {
	if strings.TrimSpace(term) == "" {
		return fmt.Errorf("%w: term must be a non-empty string", ErrInvalidSearchTerm)
	}
	return nil
}

// ValidateSearchType checks that a search type is drawn from the
// repository's declared option set.
func ValidateSearchType(searchType string, options []string) error {
	if strings.TrimSpace(searchType) == "" {
		return fmt.Errorf("%w: type must be a non-empty string", ErrInvalidSearchType)
	}
	for _, opt := range options {
		if searchType == opt {
			return nil
		}
	}
	return fmt.Errorf("%w: %q is not one of %v", ErrInvalidSearchType, searchType, options)
}

// ValidateTermAndType validates both halves of a term+type combination.
// It succeeds iff both independent validations succeed.
func ValidateTermAndType(term, searchType string, options []string) error {
	if err := ValidateSearchTerm(term); err != nil {
		return err
	}
	return ValidateSearchType(searchType, options)
}

// BuildQueries expands search parameters into the ordered list of
// combinations for a run. Terms drive the outer loop and types the
// inner loop, preserving input insertion order. An empty parameter set
// yields the single plain-enumeration query.
func BuildQueries(params SearchParameters) []Query {
	switch {
	case len(params.Terms) > 0 && len(params.Types) > 0:
		queries := make([]Query, 0, len(params.Terms)*len(params.Types))
		for _, term := range params.Terms {
			for _, searchType := range params.Types {
				queries = append(queries, Query{Term: term, Type: searchType})
			}
		}
		return queries
	case len(params.Terms) > 0:
		queries := make([]Query, 0, len(params.Terms))
		for _, term := range params.Terms {
			queries = append(queries, Query{Term: term})
		}
		return queries
	case len(params.Types) > 0:
		queries := make([]Query, 0, len(params.Types))
		for _, searchType := range params.Types {
			queries = append(queries, Query{Type: searchType})
		}
		return queries
	default:
		return []Query{{}}
	}
}
