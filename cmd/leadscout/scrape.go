package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/patpij2/server-login-sub000/internal/config"
	"github.com/patpij2/server-login-sub000/internal/database"
	"github.com/patpij2/server-login-sub000/internal/log"
	"github.com/patpij2/server-login-sub000/internal/model"
	"github.com/patpij2/server-login-sub000/internal/pipeline"
	"github.com/patpij2/server-login-sub000/internal/report"
	"github.com/spf13/cobra"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [url]...",
		Short: "Crawl websites and extract contact data",
		Long: `Scrape crawls one or more websites and extracts contact data.

For every page within the crawl budget it collects:
- Email addresses (including obfuscated forms like "name [at] example.com")
- Names, postal addresses, and social profiles found near each address
- Job titles, company names, and page meta keywords

Examples:
  # Scrape a single site
  leadscout scrape https://example.com

  # Scrape several sites in one run (at most 10)
  leadscout scrape https://a.example https://b.example

  # Read seed URLs from a file, one per line
  leadscout scrape --list seeds.txt

  # Only follow links under /team, output Markdown
  leadscout scrape --restrict-to-path /team --markdown https://example.com

  # Enable AI categorization of extracted contacts
  leadscout scrape --ai --ai-endpoint https://api.openai.com/v1/chat/completions https://example.com

Configuration file (.leadscout) example:
  sites:
    example.com:
      cookie: "session_id=abc123"
      headers:
        Authorization: "Bearer token"
      depth: 3
      delay_seconds: 2`,
		Args: cobra.ArbitraryArgs,
		RunE: runScrapeCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("depth", "d", config.DefaultMaxDepth,
		"Maximum crawl recursion depth from each seed")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to crawl per site")
	cmd.Flags().Duration("delay", config.DefaultDelay,
		"Fixed wait between successive requests to the same site")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each page fetch")
	cmd.Flags().Bool("no-robots", false,
		"Disable robots.txt compliance (use only on sites you control)")
	cmd.Flags().String("restrict-to-path", "",
		"Only follow links under this prefix, a full URL or a path (e.g. /team)")
	cmd.Flags().Bool("no-personal-data", false,
		"Collect email addresses only, skip names/addresses/social profiles")

	// Resource skipping flags (all on by default; disable with =false)
	cmd.Flags().Bool("skip-images", true,
		"Abort image fetches before the body is read")
	cmd.Flags().Bool("skip-css", true,
		"Abort stylesheet fetches before the body is read")
	cmd.Flags().Bool("skip-fonts", true,
		"Abort font fetches before the body is read")
	cmd.Flags().Bool("skip-media", true,
		"Abort audio/video fetches before the body is read")

	// Enrichment flags
	cmd.Flags().Bool("ai", false,
		"Enable AI categorization of extracted contact records")
	cmd.Flags().String("ai-endpoint", "",
		"Chat-completion endpoint for AI categorization")
	cmd.Flags().String("ai-key", "",
		"API key for the AI endpoint (or set LEADSCOUT_AI_KEY)")
	cmd.Flags().String("ai-model", "",
		"Model name for AI categorization")

	// Batch flags
	cmd.Flags().IntP("batch", "b", 1,
		"Number of sites scraped concurrently")
	cmd.Flags().StringP("list", "l", "",
		"File of seed URLs, one per line (merged with positional arguments)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .leadscout in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().String("log-file", "",
		"Write logs to a size-rotated file instead of stderr")

	return cmd
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := setupLogger(cfg)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScrape(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	// Get flag values
	var err error

	cfg.MaxDepth, err = cmd.Flags().GetInt("depth")
	if err != nil {
		return nil, err
	}

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.Delay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	noRobots, err := cmd.Flags().GetBool("no-robots")
	if err != nil {
		return nil, err
	}
	cfg.RespectRobots = !noRobots

	cfg.RestrictToPath, err = cmd.Flags().GetString("restrict-to-path")
	if err != nil {
		return nil, err
	}

	noPersonal, err := cmd.Flags().GetBool("no-personal-data")
	if err != nil {
		return nil, err
	}
	cfg.CollectPersonalData = !noPersonal

	cfg.SkipImages, err = cmd.Flags().GetBool("skip-images")
	if err != nil {
		return nil, err
	}

	cfg.SkipCSS, err = cmd.Flags().GetBool("skip-css")
	if err != nil {
		return nil, err
	}

	cfg.SkipFonts, err = cmd.Flags().GetBool("skip-fonts")
	if err != nil {
		return nil, err
	}

	cfg.SkipMedia, err = cmd.Flags().GetBool("skip-media")
	if err != nil {
		return nil, err
	}

	cfg.UseAICategorization, err = cmd.Flags().GetBool("ai")
	if err != nil {
		return nil, err
	}

	cfg.EnrichEndpoint, err = cmd.Flags().GetString("ai-endpoint")
	if err != nil {
		return nil, err
	}

	cfg.EnrichAPIKey, err = cmd.Flags().GetString("ai-key")
	if err != nil {
		return nil, err
	}
	if cfg.EnrichAPIKey == "" {
		cfg.EnrichAPIKey = os.Getenv("LEADSCOUT_AI_KEY")
	}

	cfg.EnrichModel, err = cmd.Flags().GetString("ai-model")
	if err != nil {
		return nil, err
	}

	cfg.BatchConcurrency, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.LogFile, err = cmd.Flags().GetString("log-file")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Always save to database using XDG data directory
	cfg.SaveToDB = true
	cfg.DBDir = config.DefaultDBDir()

	// Seed URLs come from positional arguments plus the optional list file
	listPath, err := cmd.Flags().GetString("list")
	if err != nil {
		return nil, err
	}
	cfg.Seeds = args
	if listPath != "" {
		listed, err := readSeedList(listPath)
		if err != nil {
			return nil, err
		}
		cfg.Seeds = append(cfg.Seeds, listed...)
	}

	return cfg, nil
}

// readSeedList reads seed URLs from a file, one per line.
// Blank lines and lines starting with # are skipped.
func readSeedList(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // Path is user-supplied by design
	if err != nil {
		return nil, fmt.Errorf("failed to read seed list: %w", err)
	}
	defer f.Close()

	var seeds []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		seeds = append(seeds, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read seed list: %w", err)
	}
	return seeds, nil
}

// setupLogger creates a structured logger based on the configuration.
// Logs go through the redacting handler so API keys and credentials in
// site configs never reach the log output.
func setupLogger(cfg *config.Config) *slog.Logger {
	if cfg.LogFile != "" {
		return log.NewRotatingLogger(cfg.LogFile, cfg.Verbose)
	}
	return log.NewSecureLogger(os.Stderr, cfg.Verbose)
}

// runScrape executes the batch scrape.
func runScrape(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting scrape",
		"seeds", len(cfg.Seeds),
		"maxDepth", cfg.MaxDepth,
		"maxPages", cfg.MaxPages,
		"concurrency", cfg.BatchConcurrency,
		"respectRobots", cfg.RespectRobots,
	)

	// Open database connection if saving is enabled
	var db *database.LeadDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	fmt.Fprintf(os.Stderr, "Scraping %d site(s)...\n", len(cfg.Seeds))
	startTime := time.Now()

	batch, err := pipeline.ScrapeBatch(ctx, cfg, cfg.Seeds, pipeline.RunOptions{
		DB:     db,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	elapsed := time.Since(startTime)
	for i, result := range batch.Results {
		if result.Success {
			fmt.Fprintf(os.Stderr, "[%d/%d] %s: %d emails from %d pages\n",
				i+1, batch.TotalURLs, result.URL, result.TotalEmails, result.PagesVisited)
		} else {
			fmt.Fprintf(os.Stderr, "[%d/%d] %s: failed: %s\n",
				i+1, batch.TotalURLs, result.URL, result.Error)
		}
	}
	fmt.Fprintf(os.Stderr, "Completed in %s\n\n", elapsed.Round(time.Millisecond))

	// Generate and output the report
	if err := outputReport(cfg, batch); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	// Save to database if enabled
	if db != nil {
		id, err := db.SaveBatch(ctx, batch)
		if err != nil {
			logger.Error("failed to save batch", "error", err)
		} else {
			logger.Info("batch saved to database", "id", id)
		}
	}

	return nil
}

// outputReport writes the batch report in the requested format.
func outputReport(cfg *config.Config, batch *model.BatchResult) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports may contain personal data; owner-only permissions.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		// CSV export (default)
		writer = report.NewCSVWriter(output)
	}

	_, err := writer.Write(batch)
	return err
}
