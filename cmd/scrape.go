package cmd

import (
	"fmt"
	"net/url"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bmackey/catalog-scraper/internal/catalog"
	"github.com/bmackey/catalog-scraper/internal/config"
	"github.com/bmackey/catalog-scraper/internal/logging"
	"github.com/bmackey/catalog-scraper/internal/store"
)

// newScrapeCmd creates and configures the 'scrape' subcommand, which runs one
// full catalog traversal.
func newScrapeCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Runs one full catalog traversal",
		Long: `Fetches the catalog index, walks every category and subject page, and
inserts newly discovered courses into the database in batches. Courses whose
codes already exist are skipped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScrape(cmd, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "walk the catalog without writing to the database")
	return cmd
}

func runScrape(cmd *cobra.Command, dryRun bool) error {
	// A local .env is optional; deployments set env vars directly.
	_ = godotenv.Load()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !dryRun && cfg.DB.DSN == "" {
		return fmt.Errorf("db.dsn is required unless --dry-run is set")
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush

	ctx := cmd.Context()

	// Already validated as an absolute URL by config.Load.
	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}

	known := make(map[string]struct{})
	var inserter store.Inserter = store.NoOpInserter{}
	if !dryRun {
		courseStore, err := store.New(ctx, store.Config{
			DSN:             cfg.DB.DSN,
			MaxConns:        cfg.DB.MaxConns,
			MinConns:        cfg.DB.MinConns,
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer courseStore.Close()
		logger.Info("Database connection established")

		if known, err = courseStore.LoadCodes(ctx); err != nil {
			return fmt.Errorf("load existing codes: %w", err)
		}
		logger.Info("Loaded existing course codes", zap.Int("count", len(known)))
		inserter = courseStore
	} else {
		logger.Info("Dry run: database writes disabled")
	}

	fetcher := catalog.NewCollyFetcher(catalog.FetcherConfig{
		UserAgent: cfg.Scraper.UserAgent,
		Timeout:   cfg.RequestTimeout(),
		DelayMin:  cfg.DelayMin(),
		DelayMax:  cfg.DelayMax(),
	}, logger)

	batcher := store.NewBatcher(inserter, known, cfg.Scraper.BatchSize, logger)
	crawler := catalog.NewCrawler(fetcher, batcher, baseURL, logger)

	if err := crawler.Run(ctx); err != nil {
		return fmt.Errorf("run scrape: %w", err)
	}
	return nil
}
