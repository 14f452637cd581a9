package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/medrec-lab/asclepius/pkg/cli/config"
	httpctrl "github.com/medrec-lab/asclepius/pkg/controller/http"
	"github.com/medrec-lab/asclepius/pkg/domain/interfaces"
	"github.com/medrec-lab/asclepius/pkg/service/extract"
	"github.com/medrec-lab/asclepius/pkg/service/knowledge"
	"github.com/medrec-lab/asclepius/pkg/usecase"
	"github.com/medrec-lab/asclepius/pkg/utils/logging"
)

func cmdServe(version string) *cli.Command {
	var addr string
	var catalogCfg config.Catalog
	var geminiCfg config.Gemini
	var repoCfg config.Repository
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("ASCLEPIUS_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, catalogCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			cat, err := catalogCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load clinical catalog")
			}

			pipeline, err := extract.New(cat)
			if err != nil {
				return goerr.Wrap(err, "failed to build extraction pipeline")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			// The embedding provider is optional: without it the service
			// boots in rule-based mode instead of failing.
			var embedder interfaces.EmbeddingClient
			client, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize Gemini client")
			}
			if client != nil {
				embedder = client
				logger.Info("Semantic mode enabled", "gemini", geminiCfg.LogAttrs())
			} else {
				logger.Warn("Gemini project not configured, running in rule-based mode")
			}

			kb := knowledge.Build(ctx, embedder, cat.Categories)

			ucOpts := []usecase.Option{}
			if embedder != nil {
				ucOpts = append(ucOpts, usecase.WithEmbedder(embedder))
			}

			notifier, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure Slack notifier")
			}
			if notifier != nil {
				ucOpts = append(ucOpts, usecase.WithNotifier(notifier))
				logger.Info("Slack HIGH risk alerts enabled")
			}

			uc := usecase.New(repo, kb, pipeline, ucOpts...)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpctrl.WithVersion(version)),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting HTTP server", "addr", addr, "categories", kb.Base().Len())
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logger.Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logger.Info("Server shutdown completed")
				return nil
			}
		},
	}
}
