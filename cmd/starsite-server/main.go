package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/breaker"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/config"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/cost"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/db"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/guard"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/llm"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/metrics"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/pipeline"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/server"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/strategy"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	logger, closeLog := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer func() {
		if err := closeLog(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := db.NewClient(ctx, db.Config{
		URL:       cfg.SurrealDBURL,
		Namespace: cfg.SurrealDBNamespace,
		Database:  cfg.SurrealDBDatabase,
		Username:  cfg.SurrealDBUser,
		Password:  cfg.SurrealDBPass,
		AuthLevel: cfg.SurrealDBAuthLevel,
	}, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Warn("failed to close database", "error", err)
		}
	}()

	if err := client.InitSchema(ctx); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}

	model, err := llm.NewModel(cfg)
	if err != nil {
		return fmt.Errorf("init model: %w", err)
	}

	b := breaker.New(pipeline.GenerationDependency, breaker.Config{
		Threshold: cfg.BreakerThreshold,
		Cooldown:  cfg.BreakerCooldown,
	}, client)
	g := guard.New(guard.Config{
		DailyBudgetUSD:  cfg.DailyBudgetUSD,
		BrandVoiceMin:   cfg.BrandVoiceMin,
		TitleSimilarity: cfg.TitleSimilarity,
		ConfigReady:     cfg.HasGenerationKey(),
	}, client, b)

	plog := pipeline.NewLogger(logger, client)
	orchestrator := pipeline.NewOrchestrator(pipeline.OrchestratorConfig{
		MaxBatchSize:    cfg.MaxBatchSize,
		MaxAttempts:     cfg.MaxAttempts,
		RunDeadline:     cfg.RunDeadline,
		GenerateTimeout: cfg.GenerateTimeout,
	}, client, g, b, model, cost.NewEstimator(cost.DefaultRates), plog)
	seeder := pipeline.NewSeeder(client, plog)
	syncer := pipeline.NewCoverageSyncer(client, plog)

	collector := metrics.NewCollector()

	jobs := server.Jobs{
		Seed: func(ctx context.Context) (string, error) {
			s, err := seeder.Run(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("scanned %d, enqueued %d, skipped %d", s.Scanned, s.Total(), s.Skipped), nil
		},
		Generate: func(ctx context.Context) (string, error) {
			start := time.Now()
			s, err := orchestrator.Run(ctx)
			if err != nil {
				return "", err
			}
			if s.Blocked {
				return fmt.Sprintf("blocked: %s", s.BlockReason), nil
			}
			collector.RecordGenerationLatency(time.Since(start))
			collector.RecordItems(metrics.ItemCompleted, s.Completed)
			collector.RecordItems(metrics.ItemFailed, s.Failed)
			collector.RecordItems(metrics.ItemSkippedCap, s.SkippedCap)
			collector.RecordItems(metrics.ItemSkippedBudget, s.SkippedBudget)
			collector.RecordItems(metrics.ItemSkippedBreaker, s.SkippedBreaker)
			collector.RecordCost(s.TotalCost)
			return fmt.Sprintf("attempted %d, completed %d, failed %d, cost $%.4f",
				s.Attempted, s.Completed, s.Failed, s.TotalCost), nil
		},
		Sync: func(ctx context.Context) (string, error) {
			strat, err := strategy.Load(cfg.StrategyPath)
			if err != nil {
				return "", err
			}
			s, err := syncer.Run(ctx, strat)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("synced %d queries, %d upserted, %d failed", s.Queries, s.Upserted, s.Failed), nil
		},
	}

	srv := server.New(cfg, client, jobs, collector, logger)
	logger.Info("starting server", "port", cfg.ServerPort)
	return srv.Run(ctx)
}
