package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/d60-Lab/contact-desk/internal/app"
	"github.com/d60-Lab/contact-desk/pkg/logger"
	"github.com/d60-Lab/contact-desk/pkg/reporter"
	"github.com/d60-Lab/contact-desk/pkg/tracing"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "serve [public|admin|all]",
		Short:     "Run the public and/or admin HTTP servers",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{app.TargetPublic, app.TargetAdmin, app.TargetAll},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := app.TargetAll
			if len(args) == 1 {
				target = args[0]
			}
			return serve(cmd.Context(), target)
		},
	}
}

func serve(parent context.Context, target string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if enabled, err := reporter.Init(cfg.Sentry, cfg.Env, version); err != nil {
		logger.Warn("sentry disabled", zap.Error(err))
	} else if enabled {
		defer reporter.Flush(2 * time.Second)
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, cfg.Env)
	if err != nil {
		return err
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}

	runErr := a.Run(ctx, target)
	logger.Info("servers stopped", zap.String("target", target))

	closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.Close(closeCtx); err != nil {
		logger.Error("close application", zap.Error(err))
	}
	if err := shutdownTracing(closeCtx); err != nil {
		logger.Warn("shutdown tracing", zap.Error(err))
	}
	return runErr
}
