// Command ingest runs one ingestion pass against the configured store and
// prints the result as JSON.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"

	"github.com/riskibarqy/nba-props/internal/app"
	"github.com/riskibarqy/nba-props/internal/config"
	"github.com/riskibarqy/nba-props/internal/observability"
	"github.com/riskibarqy/nba-props/internal/platform/logging"
)

const runTimeout = 45 * time.Minute

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 2
	}
	// The schedule belongs to the api process.
	cfg.IngestSchedule = ""

	logger := logging.New(cfg.AppEnv, cfg.LogLevel).With("service", cfg.ServiceName, "command", "ingest")
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		return 1
	}
	defer func() { _ = application.Close(context.Background()) }()

	result, err := application.Ingestion.Run(ctx)
	if err != nil {
		logger.Error("ingestion failed", "error", err)
		return 1
	}

	out, err := sonic.ConfigStd.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Error("encode result", "error", err)
		return 1
	}
	fmt.Println(string(out))
	return 0
}
