package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/curatorhq/curator-cli/internal/core/domain"
	"github.com/curatorhq/curator-cli/internal/core/ports/driving"
)

// CollectInput is the input schema for the collect tool.
type CollectInput struct {
	Repository string   `json:"repository" jsonschema:"the repository to collect from"`
	Terms      []string `json:"terms,omitempty" jsonschema:"search terms, one per combination"`
	Types      []string `json:"types,omitempty" jsonschema:"search types, one per combination"`
	Flatten    bool     `json:"flatten,omitempty" jsonschema:"flatten nested record structures in the output"`
}

// CollectOutput is the output schema for the collect tool.
type CollectOutput struct {
	RunID        string              `json:"run_id"`
	Status       string              `json:"status"`
	Records      int                 `json:"records"`
	Failures     int                 `json:"failures"`
	Combinations []CombinationOutput `json:"combinations"`
}

// CombinationOutput reports one (term, type) combination result.
type CombinationOutput struct {
	Term    string `json:"term,omitempty"`
	Type    string `json:"type,omitempty"`
	Records int    `json:"records"`
	Error   string `json:"error,omitempty"`
}

// ListRepositoriesInput is the input schema for the list_repositories tool.
type ListRepositoriesInput struct{}

// ListRepositoriesOutput is the output schema for the list_repositories tool.
type ListRepositoriesOutput struct {
	Repositories []RepositoryOutput `json:"repositories"`
}

// RepositoryOutput describes one available repository.
type RepositoryOutput struct {
	Name          string   `json:"name"`
	SupportsTerms bool     `json:"supports_terms"`
	SupportsTypes bool     `json:"supports_types"`
	TypeOptions   []string `json:"type_options,omitempty"`
	RequiresAuth  bool     `json:"requires_auth"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "collect",
		Description: "Collect metadata from a research data repository",
	}, s.handleCollect)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_repositories",
		Description: "List the repositories available for collection",
	}, s.handleListRepositories)
}

// handleCollect handles the collect tool invocation. The run executes
// synchronously; per-combination failures are reported in the output
// rather than as a tool error.
func (s *Server) handleCollect(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CollectInput,
) (*mcp.CallToolResult, CollectOutput, error) {
	req := driving.RunRequest{
		Repository: input.Repository,
		Params: domain.SearchParameters{
			Terms: input.Terms,
			Types: input.Types,
		},
		Flatten: input.Flatten,
	}

	state, err := s.ports.Runner.Run(ctx, req)
	if err != nil {
		return nil, CollectOutput{}, err
	}

	output := CollectOutput{
		RunID:        state.RunID,
		Status:       string(state.Status),
		Records:      state.RecordsCollected(),
		Failures:     state.FailureCount(),
		Combinations: make([]CombinationOutput, len(state.Outcomes)),
	}
	for i, outcome := range state.Outcomes {
		output.Combinations[i] = CombinationOutput{
			Term:    outcome.Query.Term,
			Type:    outcome.Query.Type,
			Records: outcome.Records,
			Error:   outcome.Err,
		}
	}

	return nil, output, nil
}

// handleListRepositories handles the list_repositories tool invocation.
func (s *Server) handleListRepositories(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListRepositoriesInput,
) (*mcp.CallToolResult, ListRepositoriesOutput, error) {
	infos := s.ports.Catalog.Repositories()

	output := ListRepositoriesOutput{
		Repositories: make([]RepositoryOutput, len(infos)),
	}
	for i, info := range infos {
		output.Repositories[i] = RepositoryOutput{
			Name:          info.Name,
			SupportsTerms: info.SupportsTerms,
			SupportsTypes: info.SupportsTypes,
			TypeOptions:   info.TypeOptions,
			RequiresAuth:  info.RequiresAuth,
		}
	}

	return nil, output, nil
}
