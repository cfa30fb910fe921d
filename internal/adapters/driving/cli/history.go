package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/curatorhq/curator-cli/internal/core/domain"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past collection runs",
	Long: `Lists finished collection runs from the run history, newest first.
Use 'history show' to inspect a single run.`,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show one run in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs to list")
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyStore == nil {
		return errors.New("run history not configured")
	}

	records, err := historyStore.List(context.Background(), historyLimit)
	if err != nil {
		return fmt.Errorf("listing run history: %w", err)
	}
	if len(records) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	cmd.Printf("  %-36s %-16s %-10s %8s %8s  %s\n",
		"RUN", "REPOSITORY", "STATUS", "RECORDS", "FAILED", "STARTED")
	for _, rec := range records {
		cmd.Printf("  %-36s %-16s %-10s %8d %8d  %s\n",
			rec.ID, rec.Repository, rec.Status, rec.Records, rec.Failures,
			rec.StartedAt.Format(time.RFC3339))
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyStore == nil {
		return errors.New("run history not configured")
	}

	rec, err := historyStore.Get(context.Background(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("run %s not found", args[0])
		}
		return fmt.Errorf("loading run: %w", err)
	}

	cmd.Printf("Run %s\n", rec.ID)
	cmd.Printf("  Repository: %s\n", rec.Repository)
	if len(rec.Terms) > 0 {
		cmd.Printf("  Terms:      %s\n", strings.Join(rec.Terms, ", "))
	}
	if len(rec.Types) > 0 {
		cmd.Printf("  Types:      %s\n", strings.Join(rec.Types, ", "))
	}
	cmd.Printf("  Status:     %s\n", rec.Status)
	cmd.Printf("  Records:    %d\n", rec.Records)
	cmd.Printf("  Failures:   %d\n", rec.Failures)
	if rec.Message != "" {
		cmd.Printf("  Message:    %s\n", rec.Message)
	}
	cmd.Printf("  Started:    %s\n", rec.StartedAt.Format(time.RFC3339))
	if !rec.EndedAt.IsZero() {
		cmd.Printf("  Ended:      %s\n", rec.EndedAt.Format(time.RFC3339))
	}
	return nil
}
