// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/saasland/saasland/internal/auth"
	"github.com/saasland/saasland/internal/billing"
	billingpg "github.com/saasland/saasland/internal/billing/postgres"
	catalogpg "github.com/saasland/saasland/internal/catalog/postgres"
	"github.com/saasland/saasland/internal/config"
	"github.com/saasland/saasland/internal/httpapi"
	"github.com/saasland/saasland/internal/logging"
	"github.com/saasland/saasland/internal/mailer"
	"github.com/saasland/saasland/internal/newsletter"
	newsletterpg "github.com/saasland/saasland/internal/newsletter/postgres"
	"github.com/saasland/saasland/internal/observability"
	profilepg "github.com/saasland/saasland/internal/profile/postgres"
	"github.com/saasland/saasland/internal/provider"
	"github.com/saasland/saasland/internal/store"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server: runs pending migrations, connects the
identity provider client and serves the JSON API and observability
endpoints until interrupted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}
	config.BindFlags(cmd.Flags())
	return cmd
}

func runServe(cmd *cobra.Command) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.Setup("saasland", version, cfg.Log.Format, cfg.Log.Level, os.Stderr)
	slog.SetDefault(logger)

	slog.Info("starting server",
		"addr", cfg.Server.Addr,
		"log_format", cfg.Log.Format,
	)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	pool, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	slog.Info("connected to database")

	migrator, err := store.NewMigrator(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to initialize migrator: %w", err)
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close() //nolint:errcheck // migration error takes precedence
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := migrator.Close(); err != nil {
		slog.Warn("error closing migrator", "error", err)
	}
	slog.Info("migrations up to date")

	// Identity provider client and session coordination.
	providerClient, err := provider.NewClient(provider.Config{
		BaseURL: cfg.Provider.BaseURL,
		APIKey:  cfg.Provider.APIKey,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create provider client: %w", err)
	}
	defer providerClient.Close()

	profileRepo := profilepg.NewProfileRepository(pool)
	bootstrapper, err := auth.NewBootstrapper(profileRepo, logger)
	if err != nil {
		return fmt.Errorf("failed to create profile bootstrapper: %w", err)
	}
	holder, err := auth.NewSessionHolder(providerClient, bootstrapper, logger)
	if err != nil {
		return fmt.Errorf("failed to create session holder: %w", err)
	}
	defer holder.Close()

	operations, err := auth.NewOperations(
		providerClient,
		cfg.PublicURL+"/auth",
		cfg.PublicURL+"/reset-password",
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create auth operations: %w", err)
	}

	// Mail delivery degrades to a logging no-op without an API key.
	var sender mailer.Sender
	if cfg.Mail.APIKey != "" {
		client, mailErr := mailer.NewClient(mailer.Config{
			BaseURL: cfg.Mail.BaseURL,
			APIKey:  cfg.Mail.APIKey,
			From:    cfg.Mail.From,
			Logger:  logger,
		})
		if mailErr != nil {
			return fmt.Errorf("failed to create mail client: %w", mailErr)
		}
		sender = client
	} else {
		slog.Warn("mail API key not configured, email delivery disabled")
		sender = mailer.NopSender{Logger: logger}
	}

	catalogRepo := catalogpg.NewCatalogRepository(pool, logger)
	billingSvc := billing.NewService(
		billingpg.NewSubscriptionRepository(pool),
		profileRepo,
		catalogRepo,
		logger,
	)
	newsletterSvc := newsletter.NewService(
		newsletterpg.NewSignupRepository(pool),
		sender,
		cfg.Mail.From,
		logger,
	)

	// Observability server (metrics + health probes).
	var metrics *observability.Metrics
	var obsServer *observability.Server
	if cfg.Metrics.Addr != "" {
		obsServer = observability.NewServer(cfg.Metrics.Addr, func() bool {
			return pool.Ping(ctx) == nil
		})
		metrics = obsServer.Metrics()
		obsErrChan, obsErr := obsServer.Start()
		if obsErr != nil {
			return fmt.Errorf("failed to start observability server: %w", obsErr)
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
	}

	api := httpapi.NewServer(httpapi.Config{
		Holder:     holder,
		Operations: operations,
		NewFlow: func() *auth.ResetFlow {
			flow, flowErr := auth.NewResetFlow(providerClient, func(target string) {
				slog.Debug("reset flow redirect elapsed", "target", target)
			}, logger)
			if flowErr != nil {
				// Only reachable with a nil client; the server always
				// passes one.
				panic(flowErr)
			}
			return flow
		},
		Catalog:           catalogRepo,
		Billing:           billingSvc,
		Newsletter:        newsletterSvc,
		Sender:            sender,
		MailFrom:          cfg.Mail.From,
		ContactAddr:       cfg.Mail.ContactAddr,
		Metrics:           metrics,
		Logger:            logger,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	})
	defer api.Close()

	listener, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.Addr, err)
	}

	httpSrv := &http.Server{
		Handler:      api.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			errChan <- serveErr
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("Server started")
	slog.Info("server ready", "addr", listener.Addr().String())

	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
	case err := <-errChan:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("error shutting down HTTP server", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
	}

	slog.Info("shutdown complete")
	return nil
}

// monitorServerErrors monitors a server's error channel and cancels the
// context on error so a failed auxiliary server brings the process down
// gracefully. It exits when an error arrives, the channel closes, or
// the context is cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			// Channel closed, server stopped gracefully
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
