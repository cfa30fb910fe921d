package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/curatorhq/curator-cli/internal/core/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage repository credentials",
	Long: `Store, list, and remove API credentials for repositories that
require authentication.

Credentials are kept in a JSON file under the curator config directory
with owner-only permissions.

Examples:
  # Prompt for a token (input is hidden)
  curator auth set figshare

  # Non-interactive
  curator auth set figshare --token "xxx"

  # List repositories with stored credentials
  curator auth list

  # Remove stored credentials
  curator auth remove figshare`,
}

var authSetCmd = &cobra.Command{
	Use:   "set [repository]",
	Short: "Store an API token for a repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthSet,
}

var authListCmd = &cobra.Command{
	Use:   "list",
	Short: "List repositories with stored credentials",
	RunE:  runAuthList,
}

var authRemoveCmd = &cobra.Command{
	Use:   "remove [repository]",
	Short: "Remove stored credentials for a repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthRemove,
}

var authSetToken string

func init() {
	authSetCmd.Flags().StringVar(&authSetToken, "token", "", "API token (prompted when omitted)")

	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authListCmd)
	authCmd.AddCommand(authRemoveCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthSet(cmd *cobra.Command, args []string) error {
	if credentialStore == nil {
		return errors.New("credential store not configured")
	}
	repository := args[0]

	// Catch typos before storing anything.
	if repositoryCatalog != nil {
		if _, err := repositoryCatalog.Describe(repository); err != nil {
			return fmt.Errorf("unknown repository %q", repository)
		}
	}

	token := authSetToken
	if token == "" {
		var err error
		token, err = promptToken(cmd, repository)
		if err != nil {
			return err
		}
	}
	if strings.TrimSpace(token) == "" {
		return errors.New("token must not be empty")
	}

	if err := credentialStore.Set(repository, domain.Credentials{"token": token}); err != nil {
		return fmt.Errorf("storing credentials: %w", err)
	}

	cmd.Printf("Stored credentials for %s.\n", repository)
	return nil
}

// promptToken reads a token from stdin, hiding the input when stdin is
// a terminal.
func promptToken(cmd *cobra.Command, repository string) (string, error) {
	cmd.Printf("Enter API token for %s: ", repository)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		cmd.Println()
		if err != nil {
			return "", fmt.Errorf("reading token: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}

	// Piped input, e.g. echo "$TOKEN" | curator auth set figshare
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading token: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func runAuthList(cmd *cobra.Command, _ []string) error {
	if credentialStore == nil {
		return errors.New("credential store not configured")
	}

	names, err := credentialStore.Repositories()
	if err != nil {
		return fmt.Errorf("listing credentials: %w", err)
	}
	if len(names) == 0 {
		cmd.Println("No credentials stored.")
		return nil
	}

	cmd.Println("Repositories with stored credentials:")
	for _, name := range names {
		cmd.Printf("  %s\n", name)
	}
	return nil
}

func runAuthRemove(cmd *cobra.Command, args []string) error {
	if credentialStore == nil {
		return errors.New("credential store not configured")
	}
	repository := args[0]

	if err := credentialStore.Set(repository, nil); err != nil {
		return fmt.Errorf("removing credentials: %w", err)
	}

	cmd.Printf("Removed credentials for %s.\n", repository)
	return nil
}
