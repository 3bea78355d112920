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

	"github.com/voiceops-lab/mnemosyne/pkg/cli/config"
	httpctrl "github.com/voiceops-lab/mnemosyne/pkg/controller/http"
	"github.com/voiceops-lab/mnemosyne/pkg/repository/guard"
	"github.com/voiceops-lab/mnemosyne/pkg/service/embedding"
	"github.com/voiceops-lab/mnemosyne/pkg/service/extract"
	"github.com/voiceops-lab/mnemosyne/pkg/usecase"
	"github.com/voiceops-lab/mnemosyne/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var authCfg config.Auth
	var repoCfg config.Repository
	var tenantsCfg config.Tenants
	var geminiCfg config.Gemini
	var sentryCfg config.Sentry
	var slackCfg config.Slack
	var archiveCfg config.Archive

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("MNEMOSYNE_ADDR"),
			Destination: &addr,
		},
	}

	flags = append(flags, authCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, tenantsCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, archiveCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			sentryCloser, err := sentryCfg.Configure(c.Version)
			if err != nil {
				return goerr.Wrap(err, "failed to configure sentry")
			}
			defer sentryCloser()

			authSecret, err := authCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure auth")
			}

			registry, err := tenantsCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load tenant registry")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			notifier, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure slack notifier")
			}

			// Every repository access goes through the isolation guard.
			guardOpts := []guard.Option{}
			if notifier != nil {
				guardOpts = append(guardOpts, guard.WithNotifier(notifier))
			}
			guarded := guard.New(repo, guardOpts...)

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}

			ucOpts := []usecase.Option{}
			if llmClient != nil {
				ucOpts = append(ucOpts,
					usecase.WithExtractor(extract.New(extract.WithLLMClient(llmClient))),
					usecase.WithEmbedder(embedding.New(llmClient)),
				)
				logging.Default().Info("LLM extraction and embedding enabled")
			} else {
				logging.Default().Info("LLM not configured, using rule-based extraction")
			}

			archiver, err := archiveCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure transcript archiver")
			}
			if archiver != nil {
				ucOpts = append(ucOpts, usecase.WithArchiver(archiver))
			}

			uc := usecase.New(guarded, registry, authSecret, ucOpts...)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
