// Package collectors provides the shared machinery that repository
// collectors are built from: a rate-limit aware HTTP client with
// bounded retries, pagination cursors, and search/metadata record
// merging.
//
// Repository-specific collectors live in subpackages (zenodo, dryad,
// figshare, openml, pwc) and implement the driven.Collector port on
// top of this package.
package collectors
