// Package cli provides the command-line interface for starsite.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/breaker"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/config"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/cost"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/db"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/guard"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/llm"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config and db client
	cfg      config.Config
	dbClient *db.Client
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "starsite",
	Short: "Marketing site content pipeline",
	Long: `Starsite runs the autonomous content pipeline for the agency website:
seeding the work queue from coverage gaps, generating content through the
LLM API under budget and cap guardrails, and syncing the coverage tracker
from the strategy document.

The same jobs run on a cron schedule through the server's trigger
endpoints; the CLI exists for manual runs and inspection.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip DB connection for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		// Load config
		cfg = config.Load()

		// Connect to database
		ctx := context.Background()
		dbCfg := db.Config{
			URL:       cfg.SurrealDBURL,
			Namespace: cfg.SurrealDBNamespace,
			Database:  cfg.SurrealDBDatabase,
			Username:  cfg.SurrealDBUser,
			Password:  cfg.SurrealDBPass,
			AuthLevel: cfg.SurrealDBAuthLevel,
		}

		var err error
		dbClient, err = db.NewClient(ctx, dbCfg, nil)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}

		// Initialize schema
		if err := dbClient.InitSchema(ctx); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		// Close database connection
		if dbClient != nil {
			if err := dbClient.Close(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
			}
		}
	},
}

// cliLogger builds a pipeline logger writing to stderr, with event
// persistence through the connected store.
func cliLogger() *pipeline.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return pipeline.NewLogger(log, dbClient)
}

// newBreaker builds the circuit breaker for the generation API over the
// connected store.
func newBreaker() *breaker.Breaker {
	return breaker.New(pipeline.GenerationDependency, breaker.Config{
		Threshold: cfg.BreakerThreshold,
		Cooldown:  cfg.BreakerCooldown,
	}, dbClient)
}

// newOrchestrator wires a full generation run from the loaded config.
func newOrchestrator() (*pipeline.Orchestrator, error) {
	model, err := llm.NewModel(cfg)
	if err != nil {
		return nil, fmt.Errorf("init model: %w", err)
	}

	b := newBreaker()
	g := guard.New(guard.Config{
		DailyBudgetUSD:  cfg.DailyBudgetUSD,
		BrandVoiceMin:   cfg.BrandVoiceMin,
		TitleSimilarity: cfg.TitleSimilarity,
		ConfigReady:     cfg.HasGenerationKey(),
	}, dbClient, b)

	return pipeline.NewOrchestrator(pipeline.OrchestratorConfig{
		MaxBatchSize:    cfg.MaxBatchSize,
		MaxAttempts:     cfg.MaxAttempts,
		RunDeadline:     cfg.RunDeadline,
		GenerateTimeout: cfg.GenerateTimeout,
	}, dbClient, g, b, model, cost.NewEstimator(cost.DefaultRates), cliLogger()), nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(costsCmd)
}
