// Command recon aggregates the public email identities of a GitHub account.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/recon-cli/internal/adapters/driven/config/file"
	reportfile "github.com/custodia-labs/recon-cli/internal/adapters/driven/report/file"
	"github.com/custodia-labs/recon-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/recon-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/recon-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/recon-cli/internal/connectors/github"
	"github.com/custodia-labs/recon-cli/internal/core/domain"
	"github.com/custodia-labs/recon-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recon-cli/internal/core/ports/driving"
	"github.com/custodia-labs/recon-cli/internal/core/services"
	"github.com/custodia-labs/recon-cli/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configStore driven.ConfigStore
	fileStore, err := file.NewConfigStore("")
	if err != nil {
		logger.Warn("config unavailable, using defaults: %v", err)
		configStore = memory.NewConfigStore()
	} else {
		configStore = fileStore
	}

	// The cache is optional: scans work without it, only more expensively.
	var responseCache driven.ResponseCache
	var cacheAdmin driven.CacheMaintainer
	store, err := sqlite.NewStore("")
	if err != nil {
		logger.Warn("response cache unavailable: %v", err)
	} else {
		defer store.Close()
		responseCache = store.ResponseCache()
		cacheAdmin = store
	}

	writer := reportfile.NewWriter()

	cli.Configure(cli.Dependencies{
		Config: configStore,
		Clients: func(ctx context.Context, token string, useCache bool) (cli.Platform, error) {
			cfg := github.Config{Token: token, RequestsPerSecond: github.ProactiveRate}
			if useCache {
				cfg.Cache = responseCache
			}
			client, err := github.NewClient(ctx, cfg)
			if err != nil {
				return nil, err
			}
			return client, nil
		},
		Scanners: func(client driven.PlatformClient, cfg domain.ScanConfig) (driving.ScanService, error) {
			exporter, err := reportfile.NewExporter(cfg.OutputDir)
			if err != nil {
				return nil, err
			}
			return services.NewScanner(client, writer, exporter, cfg), nil
		},
		Classifier: services.Classifier{},
		Cache:      cacheAdmin,
	})

	return cli.Execute()
}
