package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/curatorhq/curator-cli/internal/core/domain"
	"github.com/curatorhq/curator-cli/internal/core/ports/driving"
)

var (
	collectTerms   []string
	collectTypes   []string
	collectFlatten bool
	collectRetries int
)

var collectCmd = &cobra.Command{
	Use:   "collect [repository]",
	Short: "Run a collection against a repository",
	Long: `Runs a collection against a research data repository.

Search terms and types are expanded into every (term, type) combination.
Each combination is searched, enriched with record metadata where the
repository provides it, and written to the output directory. A failing
combination does not stop its siblings.

Press Ctrl+C to terminate a run; it stops at the next page boundary.

Examples:
  curator collect zenodo --term "climate change"
  curator collect figshare --term cats --term dogs --type articles
  curator collect openml --type datasets --type tasks`,
	Args: cobra.ExactArgs(1),
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().StringArrayVarP(&collectTerms, "term", "t", nil, "search term (repeatable)")
	collectCmd.Flags().StringArrayVarP(&collectTypes, "type", "T", nil, "search type (repeatable)")
	collectCmd.Flags().BoolVar(&collectFlatten, "flatten", false, "flatten nested record structures in the output")
	collectCmd.Flags().IntVar(&collectRetries, "max-retries", 0, "rate-limit retry budget (0 = configured default)")
	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	if collectionRunner == nil {
		return errors.New("collection service not configured")
	}

	flatten := collectFlatten
	types := collectTypes
	retries := collectRetries
	if configStore != nil {
		if !cmd.Flags().Changed("flatten") {
			flatten = configStore.GetBool("output.flatten")
		}
		if len(types) == 0 {
			types = configStore.GetStringSlice("collect.default_types")
		}
		if retries == 0 {
			retries = configStore.GetInt("collect.max_retries")
		}
	}

	req := driving.RunRequest{
		RunID:      uuid.New().String(),
		Repository: args[0],
		Params: domain.SearchParameters{
			Terms: collectTerms,
			Types: types,
		},
		Flatten:    flatten,
		MaxRetries: retries,
	}

	cmd.Printf("Collecting from %s...\n", req.Repository)

	// Ctrl+C requests cooperative termination rather than killing the
	// process mid-write.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return collectWithProgress(ctx, cmd, collectionRunner, req)
}

// collectWithProgress runs the collection while displaying progress
// polled from the runner.
func collectWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	runner driving.CollectionRunner,
	req driving.RunRequest,
) error {
	type runResult struct {
		state domain.RunState
		err   error
	}

	resultCh := make(chan runResult, 1)
	go func() {
		state, err := runner.Run(context.Background(), req)
		resultCh <- runResult{state: state, err: err}
	}()

	// Poll status every 500ms
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	interrupt := ctx.Done()
	for {
		select {
		case <-interrupt:
			cmd.Println("\nTerminating run...")
			_ = runner.Terminate(req.RunID)
			// Keep draining resultCh; a second Ctrl+C kills the process.
			interrupt = nil
		case res := <-resultCh:
			if res.err != nil {
				return fmt.Errorf("collection failed: %w", res.err)
			}
			return printRunSummary(cmd, res.state)
		case <-ticker.C:
			// Best effort; the run may have just finished.
			state, err := runner.Status(req.RunID)
			if err == nil {
				printRunProgress(cmd, state)
			}
		}
	}
}

func printRunProgress(cmd *cobra.Command, state domain.RunState) {
	if state.Progress.Determinate {
		cmd.Printf("\r[%3.0f%%] %s", state.Progress.Fraction*100, state.LastMessage)
		return
	}
	if state.LastMessage != "" {
		cmd.Printf("\r%s", state.LastMessage)
	}
}

func printRunSummary(cmd *cobra.Command, state domain.RunState) error {
	cmd.Println()
	for _, outcome := range state.Outcomes {
		if outcome.Failed() {
			cmd.Printf("  %s: failed (%s)\n", outcome.Query, outcome.Err)
		} else {
			cmd.Printf("  %s: %d records\n", outcome.Query, outcome.Records)
		}
	}

	if state.Status == domain.RunFailed {
		return fmt.Errorf("run failed: %s", state.LastMessage)
	}

	cmd.Printf("Collected %d records across %d combinations (%d failed).\n",
		state.RecordsCollected(), len(state.Outcomes), state.FailureCount())
	return nil
}
