// Package jsonfile persists collection results as JSON files, one file
// per (term, type) combination under a per-repository directory.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/curatorhq/curator-cli/internal/core/domain"
	"github.com/curatorhq/curator-cli/internal/core/ports/driven"
	"github.com/curatorhq/curator-cli/internal/logger"
)

// Ensure Writer implements the interface.
var _ driven.ResultWriter = (*Writer)(nil)

// Writer writes combination results to
// {save_dir}/{repository}/{key}.json.
type Writer struct {
	saveDir string
}

// NewWriter creates a writer rooted at saveDir. If saveDir is empty,
// defaults to ~/.curator/output.
func NewWriter(saveDir string) (*Writer, error) {
	if saveDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		saveDir = filepath.Join(home, ".curator", "output")
	}
	return &Writer{saveDir: saveDir}, nil
}

// Dir returns the output root directory.
func (w *Writer) Dir() string {
	return w.saveDir
}

// Write persists one combination's records. An empty record slice is a
// no-op so failed or empty combinations leave no file behind.
func (w *Writer) Write(ctx context.Context, repository string, query domain.Query, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Join(w.saveDir, repository)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}

	path := filepath.Join(dir, sanitizeFilename(query.Key())+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	logger.Debug("Wrote %d records to %s", len(records), path)
	return nil
}

// sanitizeFilename replaces characters that are unsafe in file names.
// Search terms can contain slashes and other separators.
func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		default:
			return r
		}
	}, name)
}
