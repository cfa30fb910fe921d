// Package file provides a JSON-file-backed credential store. The file
// maps repository names to credential fields:
//
//	{
//	  "figshare": {"token": "..."},
//	  "openml": "plain-api-key"
//	}
//
// A bare string entry is shorthand for {"token": ...}.
package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/curatorhq/curator-cli/internal/core/domain"
	"github.com/curatorhq/curator-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.CredentialStore = (*Store)(nil)

// Store reads and writes per-repository credentials in a single JSON
// file. The file is re-read on every lookup so external edits are
// picked up without restarting.
type Store struct {
	path string
}

// NewStore creates a credential store at path. If path is empty,
// defaults to ~/.curator/credentials.json.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".curator", "credentials.json")
	}
	return &Store{path: path}, nil
}

// Path returns the credential file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the credentials for a repository. A missing file or
// missing entry yields an empty mapping, not an error.
func (s *Store) Get(repository string) (domain.Credentials, error) {
	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	creds, ok := entries[repository]
	if !ok {
		return domain.Credentials{}, nil
	}
	return creds, nil
}

// Set stores the credentials for a repository, creating the file with
// owner-only permissions if needed.
func (s *Store) Set(repository string, creds domain.Credentials) error {
	entries, err := s.load()
	if err != nil {
		return err
	}
	if len(creds) == 0 {
		delete(entries, repository)
	} else {
		entries[repository] = creds
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("creating credentials directory: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("writing credentials file: %w", err)
	}
	return nil
}

// Repositories returns the repository names with stored credentials,
// sorted.
func (s *Store) Repositories() ([]string, error) {
	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// load parses the credential file. Entries may be either a field
// mapping or a bare token string.
func (s *Store) load() (map[string]domain.Credentials, error) {
	entries := make(map[string]domain.Credentials)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return entries, nil
		}
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing credentials file: %w", err)
	}

	for repository, value := range raw {
		var fields map[string]string
		if err := json.Unmarshal(value, &fields); err == nil {
			entries[repository] = domain.Credentials(fields)
			continue
		}
		var token string
		if err := json.Unmarshal(value, &token); err == nil {
			entries[repository] = domain.Credentials{"token": token}
			continue
		}
		return nil, fmt.Errorf("parsing credentials for %s: unsupported entry shape", repository)
	}

	return entries, nil
}
