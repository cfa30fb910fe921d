// The curator binary collects research dataset metadata from data
// repositories such as Zenodo, Dryad, Figshare, OpenML, and Papers
// with Code. This entrypoint wires the driven adapters into the core
// services and hands them to the cobra command tree.
package main

import (
	"context"
	"fmt"
	"os"

	configfile "github.com/curatorhq/curator-cli/internal/adapters/driven/config/file"
	credfile "github.com/curatorhq/curator-cli/internal/adapters/driven/credentials/file"
	"github.com/curatorhq/curator-cli/internal/adapters/driven/output/jsonfile"
	"github.com/curatorhq/curator-cli/internal/adapters/driven/progress/logprogress"
	"github.com/curatorhq/curator-cli/internal/adapters/driven/storage/sqlite"
	"github.com/curatorhq/curator-cli/internal/adapters/driving/cli"
	"github.com/curatorhq/curator-cli/internal/core/services"
	"github.com/curatorhq/curator-cli/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("initialising config store: %w", err)
	}
	if config.GetBool("log.verbose") {
		logger.SetVerbose(true)
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	if err := config.Watch(watchCtx, func() {
		logger.SetVerbose(config.GetBool("log.verbose"))
	}); err != nil {
		logger.Warn("config watch unavailable: %v", err)
	}

	credentials, err := credfile.NewStore("")
	if err != nil {
		return fmt.Errorf("initialising credential store: %w", err)
	}

	writer, err := jsonfile.NewWriter(config.GetString("output.save_dir"))
	if err != nil {
		return fmt.Errorf("initialising result writer: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("initialising run history: %w", err)
	}
	defer store.Close()
	history := store.HistoryStore()

	registry := services.NewCollectorRegistry()
	catalog := services.NewRepositoryCatalog(registry)
	runner := services.NewCollectionRunner(registry, writer, credentials, history, logprogress.NewReporter())

	cli.SetServices(cli.Services{
		Runner:      runner,
		Catalog:     catalog,
		Credentials: credentials,
		History:     history,
		Config:      config,
	})

	return cli.Execute()
}
