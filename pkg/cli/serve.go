package cli

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/cli/config"
	httpctrl "github.com/secmon-lab/initiativeflow/pkg/controller/http"
	"github.com/secmon-lab/initiativeflow/pkg/service/eventbus"
	"github.com/secmon-lab/initiativeflow/pkg/usecase"
	"github.com/secmon-lab/initiativeflow/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe(version string) *cli.Command {
	var addr string
	var maxUploadSize int64
	var repoCfg config.Repository
	var identityCfg config.Identity
	var storageCfg config.Storage
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("INITIATIVEFLOW_ADDR"),
			Destination: &addr,
		},
		&cli.Int64Flag{
			Name:        "max-upload-size",
			Usage:       "Maximum attachment upload size in bytes",
			Value:       httpctrl.DefaultMaxUploadSize,
			Sources:     cli.EnvVars("INITIATIVEFLOW_MAX_UPLOAD_SIZE"),
			Destination: &maxUploadSize,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, identityCfg.Flags()...)
	flags = append(flags, identityCfg.NoAuthFlags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:     "serve",
		Category: "Server",
		Aliases:  []string{"s"},
		Usage:    "Start HTTP server",
		Flags:    flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			sentryCfg.SetRelease(version)
			flush, err := sentryCfg.Configure()
			if err != nil {
				return err
			}
			defer flush()

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.From(ctx).Error("failed to close repository", "error", err.Error())
				}
			}()

			idSvc, err := identityCfg.Configure(ctx, repoCfg.ClientOptions()...)
			if err != nil {
				return goerr.Wrap(err, "failed to configure identity provider")
			}
			authn := identityCfg.Authenticator(idSvc)
			if identityCfg.IsNoAuthMode() {
				logging.From(ctx).Warn("Running in no-auth mode (development only)", "identity", identityCfg)
			}

			blobs, closeStorage, err := storageCfg.Configure(ctx, repoCfg.ClientOptions()...)
			if err != nil {
				return goerr.Wrap(err, "failed to configure attachment storage")
			}
			defer closeStorage()

			bus := eventbus.New(eventbus.WithAsyncDelivery())
			defer bus.Wait()
			unsubscribe := bus.Subscribe(eventbus.LogHandler)
			defer unsubscribe()

			ucOpts := []usecase.Option{
				usecase.WithIdentityProvider(idSvc),
				usecase.WithErrorBus(bus),
			}
			if blobs != nil {
				ucOpts = append(ucOpts, usecase.WithBlobStorage(blobs))
			}
			uc := usecase.New(repo, ucOpts...)

			httpHandler := httpctrl.New(uc,
				httpctrl.WithAuthenticator(authn),
				httpctrl.WithMaxUploadSize(maxUploadSize),
			)
			// Live streams end when the base context is cancelled on shutdown
			baseCtx, cancelBase := context.WithCancel(ctx)
			defer cancelBase()
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
				BaseContext:       func(net.Listener) context.Context { return baseCtx },
			}
			server.RegisterOnShutdown(cancelBase)

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.From(ctx).Info("Starting HTTP server", "addr", addr, "repository", repoCfg, "storage", storageCfg)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.From(ctx).Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.From(ctx).Info("Server shutdown completed")
				return nil
			}
		},
	}
}
