// Package cli wires the nursery commands to the service layer.
package cli

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dukerupert/nursery/internal"
	"github.com/dukerupert/nursery/internal/domain"
	"github.com/dukerupert/nursery/internal/events"
	"github.com/dukerupert/nursery/internal/service"
	"github.com/dukerupert/nursery/internal/storage"
	"github.com/dukerupert/nursery/internal/telemetry"
)

// app carries what every command needs to build its run.
type app struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer
}

// NewRootCommand builds the nursery command tree. Summaries are written to
// out and logs to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "nursery",
		Short:         "Maintain the nursery product catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.String("catalog", "", "catalog JSON file (default src/api/products.json)")
	flags.String("public-dir", "", "website public directory (default public)")
	flags.String("output-dir", "", "directory for generated spreadsheets (default .)")
	flags.String("category-map", "", "YAML file overriding the master category mapping")
	flags.String("env", "", "environment: dev or prod")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("storage-provider", "", "asset storage: local or r2")
	flags.String("database-url", "", "Postgres URL for mirror postgres")
	flags.String("nats-url", "", "NATS URL for catalog update events")
	flags.String("pushgateway-url", "", "Prometheus Pushgateway URL for run metrics")

	bind := map[string]string{
		"catalog_path":     "catalog",
		"public_dir":       "public-dir",
		"output_dir":       "output-dir",
		"category_map":     "category-map",
		"env":              "env",
		"log_level":        "log-level",
		"storage_provider": "storage-provider",
		"database_url":     "database-url",
		"nats_url":         "nats-url",
		"pushgateway_url":  "pushgateway-url",
	}
	for key, flag := range bind {
		// Unset flags fall through to the environment and defaults.
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		a.convertCommand(),
		a.exportCommand(),
		a.importCommand(),
		a.priorityCommand(),
		a.masterCommand(),
		a.analyzeCommand(),
		a.cardCommand(),
		a.imagesCommand(),
		a.mirrorCommand(),
	)
	return root
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	root := NewRootCommand(out, errOut)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// =============================================================================
// RUNNER
// =============================================================================

// run builds the configuration, logger, telemetry, event publisher and
// storage for one command, then calls fn with the resulting service.
func (a *app) run(cmd *cobra.Command, name string, fn func(ctx context.Context, svc *service.Service) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := internal.NewConfig(a.v)
	if err != nil {
		return err
	}
	logger := internal.NewLogger(a.errOut, cfg.Env, cfg.LogLevel)

	cleanup, err := telemetry.InitSentry(cfg.Sentry, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("Continuing without Sentry")
		cleanup = func() {}
	}
	defer cleanup()
	defer telemetry.RecoverWithSentry()

	runID := uuid.NewString()
	logger = logger.With().Str("command", name).Str("run_id", runID).Logger()
	metrics := telemetry.NewBatchMetrics("", name)

	publisher, err := events.Connect(cfg.NatsURL, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("Catalog events disabled")
		publisher = events.NopPublisher{}
	}
	defer publisher.Close()

	store, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		return err
	}

	svc := service.New(service.Deps{
		Config:   cfg,
		Logger:   logger,
		Events:   publisher,
		Metrics:  metrics,
		Store:    store,
		Out:      a.out,
		NewRunID: func() string { return runID },
	})

	logger.Debug().Msg("Run started")
	telemetry.AddBreadcrumb("run", name, map[string]interface{}{"run_id": runID})
	err = fn(ctx, svc)

	metrics.Finish(err)
	if pushErr := metrics.Push(ctx, cfg.PushgatewayURL); pushErr != nil {
		logger.Warn().Err(pushErr).Msg("Failed to push run metrics")
	}

	switch {
	case err == nil:
		logger.Debug().Msg("Run finished")
	case domain.IsCode(err, domain.ELOOKUP):
		logger.Warn().Err(err).Msg("Run finished with lookup errors")
	default:
		logger.Error().Err(err).Str("op", domain.ErrorOp(err)).Msg("Run failed")
		telemetry.CaptureRunError(err, name, runID, nil)
	}
	return err
}

// optionalArg returns the first positional argument, or "".
func optionalArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
