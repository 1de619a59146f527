package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/gridcast/internal/adapters/modelstore"
	"github.com/okian/gridcast/internal/adapters/provider"
	"github.com/okian/gridcast/internal/app"
	"github.com/okian/gridcast/internal/config"
	"github.com/okian/gridcast/pkg/logger"
	"github.com/okian/gridcast/pkg/metrics"
)

func main() {
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout); err != nil {
		logger.Get().Error(ctx, "evaluation failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

// run loads configuration, evaluates every configured target and prints one
// summary line per evaluated target to out.
func run(ctx context.Context, out io.Writer) error {
	log := logger.Get()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	log.Info(ctx, "starting evaluation",
		logger.Strings("targets", cfg.Targets),
		logger.Int("window_size", cfg.WindowSize),
		logger.String("data_path", cfg.DataPath),
		logger.String("model_dir", cfg.ModelDir),
	)

	recorder := metrics.Default()
	pipeline := app.New(
		app.WithLogger(log.Named("pipeline")),
		app.WithTargets(cfg.Targets),
		app.WithWindowSize(cfg.WindowSize),
		app.WithRecorder(recorder),
	)

	report, runErr := pipeline.Run(ctx, provider.NewCSV(cfg.DataPath), modelstore.NewDir(cfg.ModelDir))

	// Failures are recorded too, so the textfile is written either way.
	if cfg.MetricsFile != "" {
		if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn(ctx, "failed to write metrics textfile", logger.String("path", cfg.MetricsFile), logger.Error(err))
		}
	}
	if runErr != nil {
		return runErr
	}

	for _, line := range app.Summary(report) {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	log.Info(ctx, "evaluation finished",
		logger.String("run_id", report.RunID),
		logger.Int("evaluated", len(report.Results)),
		logger.Int("skipped", len(report.Skipped)),
	)
	return nil
}
