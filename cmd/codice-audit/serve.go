package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joelkehle/codice-audit/internal/audit"
	"github.com/joelkehle/codice-audit/internal/config"
	"github.com/joelkehle/codice-audit/internal/httpapi"
	"github.com/joelkehle/codice-audit/internal/logging"
	"github.com/joelkehle/codice-audit/internal/mailer"
	"github.com/joelkehle/codice-audit/internal/notify"
	"github.com/joelkehle/codice-audit/internal/telemetry"
)

func newServeCmd(g *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP endpoint that receives audit submissions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(g.configPath, g.envFile)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config and PORT)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if missing := cfg.MissingCredentials(); len(missing) > 0 {
		logger.Warn("mail credentials not configured, notifications will fail", zap.Strings("missing", missing))
	}

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.ServiceName)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	sender := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.User,
		Password: cfg.Mail.Password,
		Timeout:  cfg.Mail.Timeout,
	})
	opts := []audit.Option{audit.WithLogger(logger)}
	if cfg.PDF.Enabled {
		opts = append(opts, audit.WithPDFRenderer(notify.NewChromiumPDFRenderer(cfg.PDF.ChromePath)))
		logger.Info("pdf attachment enabled")
	}
	svc := audit.NewService(mailer.NewDispatcher(sender, logger), audit.Addressing{
		From:           cfg.Mail.User,
		ClientFromName: cfg.Mail.ClientFromName,
		AdminFromName:  cfg.Mail.AdminFromName,
		AdminRecipient: cfg.Mail.AdminRecipient,
	}, opts...)

	handler := httpapi.NewServer(svc, httpapi.Config{
		CORSOrigin: cfg.Server.CORSOrigin,
		BodyLimit:  cfg.Server.BodyLimit,
	}, logger)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	logger.Info("audit server listening", zap.String("addr", cfg.Server.Addr), zap.String("smtp_host", cfg.Mail.Host))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", zap.Error(err))
		return err
	}
	return nil
}
