package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/curatorhq/curator-cli/internal/core/ports/driving"
)

var reposCmd = &cobra.Command{
	Use:   "repos [repository]",
	Short: "List available repositories",
	Long: `Lists the repositories curator can collect from, with the search
axes each one supports. With a repository name, shows that repository
in detail.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRepos,
}

func init() {
	rootCmd.AddCommand(reposCmd)
}

func runRepos(cmd *cobra.Command, args []string) error {
	if repositoryCatalog == nil {
		return errors.New("repository catalog not configured")
	}

	if len(args) > 0 {
		info, err := repositoryCatalog.Describe(args[0])
		if err != nil {
			return fmt.Errorf("describing repository: %w", err)
		}
		printRepositoryDetail(cmd, info)
		return nil
	}

	cmd.Println("Available repositories:")
	cmd.Println()
	for _, info := range repositoryCatalog.Repositories() {
		cmd.Printf("  %-16s %s\n", info.Name, describeAxes(info))
	}
	return nil
}

func printRepositoryDetail(cmd *cobra.Command, info driving.RepositoryInfo) {
	cmd.Printf("%s\n", info.Name)
	cmd.Printf("  Search terms: %s\n", yesNo(info.SupportsTerms))
	cmd.Printf("  Search types: %s\n", yesNo(info.SupportsTypes))
	if len(info.TypeOptions) > 0 {
		cmd.Printf("  Type options: %s\n", strings.Join(info.TypeOptions, ", "))
	}
	cmd.Printf("  Requires auth: %s\n", yesNo(info.RequiresAuth))
	if info.RequiresAuth {
		cmd.Printf("\nSet credentials with: curator auth set %s\n", info.Name)
	}
}

func describeAxes(info driving.RepositoryInfo) string {
	var axes []string
	if info.SupportsTerms {
		axes = append(axes, "terms")
	}
	if info.SupportsTypes {
		axes = append(axes, fmt.Sprintf("types (%s)", strings.Join(info.TypeOptions, ", ")))
	}
	desc := strings.Join(axes, ", ")
	if desc == "" {
		desc = "plain enumeration"
	}
	if info.RequiresAuth {
		desc += "  [auth required]"
	}
	return desc
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
