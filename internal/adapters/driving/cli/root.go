// Package cli implements the cobra command tree for the curator binary.
// Commands talk to the core services through the driving ports; the
// concrete services are injected once at startup via SetServices.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/curatorhq/curator-cli/internal/core/domain"
	"github.com/curatorhq/curator-cli/internal/core/ports/driven"
	"github.com/curatorhq/curator-cli/internal/core/ports/driving"
	"github.com/curatorhq/curator-cli/internal/logger"
)

// version is the build version, overridden at link time.
var version = "dev"

// credentialManager is the store surface the auth commands need. The
// driven CredentialStore port is read-only; the CLI also writes.
type credentialManager interface {
	Get(repository string) (domain.Credentials, error)
	Set(repository string, creds domain.Credentials) error
	Repositories() ([]string, error)
}

// Injected services. Nil services make the dependent commands fail
// with a clear error instead of panicking.
var (
	collectionRunner  driving.CollectionRunner
	repositoryCatalog driving.RepositoryCatalog
	credentialStore   credentialManager
	historyStore      driven.RunHistoryStore
	configStore       driven.ConfigStore
)

// Services bundles the ports the CLI commands depend on.
type Services struct {
	Runner      driving.CollectionRunner
	Catalog     driving.RepositoryCatalog
	Credentials credentialManager
	History     driven.RunHistoryStore
	Config      driven.ConfigStore
}

// SetServices injects the service implementations used by the commands.
func SetServices(s Services) {
	collectionRunner = s.Runner
	repositoryCatalog = s.Catalog
	credentialStore = s.Credentials
	historyStore = s.History
	configStore = s.Config
}

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "curator",
	Short: "Collect research metadata from data repositories",
	Long: `Curator collects dataset metadata from research data repositories
such as Zenodo, Dryad, Figshare, OpenML, and Papers with Code.

Search terms and types expand into (term, type) combinations. Each
combination is searched, enriched with per-record metadata where the
repository provides it, and written as a JSON file for curation.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
