package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/curatorhq/curator-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for curator resources.
	uriScheme = "curator://"

	// runListLimit caps the runs resource payload.
	runListLimit = 50
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing repositories.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "repositories",
		Name:        "repositories",
		Description: "Repositories available for collection",
		MIMEType:    "application/json",
	}, s.handleRepositoriesResource)

	// Static resource for recent runs.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "runs",
		Name:        "runs",
		Description: "Recent collection runs, newest first",
		MIMEType:    "application/json",
	}, s.handleRunsResource)

	// Template for a single run.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "runs/{runId}",
		Name:        "run",
		Description: "Summary of one collection run",
		MIMEType:    "application/json",
	}, s.handleRunResource)
}

// handleRepositoriesResource returns the repository catalog.
func (s *Server) handleRepositoriesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	infos := s.ports.Catalog.Repositories()

	repos := make([]RepositoryOutput, len(infos))
	for i, info := range infos {
		repos[i] = RepositoryOutput{
			Name:          info.Name,
			SupportsTerms: info.SupportsTerms,
			SupportsTypes: info.SupportsTypes,
			TypeOptions:   info.TypeOptions,
			RequiresAuth:  info.RequiresAuth,
		}
	}

	data, err := json.MarshalIndent(repos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling repositories: %w", err)
	}

	return jsonResource(req.Params.URI, data), nil
}

// runInfo is the serialised form of a run record.
type runInfo struct {
	ID         string   `json:"id"`
	Repository string   `json:"repository"`
	Terms      []string `json:"terms,omitempty"`
	Types      []string `json:"types,omitempty"`
	Status     string   `json:"status"`
	Records    int      `json:"records"`
	Failures   int      `json:"failures"`
	Message    string   `json:"message,omitempty"`
	StartedAt  string   `json:"started_at"`
	EndedAt    string   `json:"ended_at,omitempty"`
}

func newRunInfo(rec *domain.RunRecord) runInfo {
	info := runInfo{
		ID:         rec.ID,
		Repository: rec.Repository,
		Terms:      rec.Terms,
		Types:      rec.Types,
		Status:     string(rec.Status),
		Records:    rec.Records,
		Failures:   rec.Failures,
		Message:    rec.Message,
		StartedAt:  rec.StartedAt.Format(time.RFC3339),
	}
	if !rec.EndedAt.IsZero() {
		info.EndedAt = rec.EndedAt.Format(time.RFC3339)
	}
	return info
}

// handleRunsResource returns recent runs from the history store.
func (s *Server) handleRunsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return jsonResource(req.Params.URI, []byte("[]")), nil
	}

	records, err := s.ports.History.List(ctx, runListLimit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	infos := make([]runInfo, len(records))
	for i := range records {
		infos[i] = newRunInfo(&records[i])
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling runs: %w", err)
	}

	return jsonResource(req.Params.URI, data), nil
}

// handleRunResource returns one run by ID.
func (s *Server) handleRunResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	runID := extractRunID(req.Params.URI)
	if runID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	rec, err := s.ports.History.Get(ctx, runID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("getting run: %w", err)
	}

	data, err := json.MarshalIndent(newRunInfo(rec), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling run: %w", err)
	}

	return jsonResource(req.Params.URI, data), nil
}

func jsonResource(uri string, data []byte) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}
}

// extractRunID extracts the run ID from a URI like curator://runs/{runId}.
func extractRunID(uri string) string {
	const prefix = uriScheme + "runs/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
