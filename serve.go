package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jagadeeshD3/portfolio/internal/config"
	"github.com/jagadeeshD3/portfolio/internal/content"
	"github.com/jagadeeshD3/portfolio/internal/logging"
	"github.com/jagadeeshD3/portfolio/internal/mail"
	"github.com/jagadeeshD3/portfolio/internal/server"
	"github.com/jagadeeshD3/portfolio/internal/store"
	"github.com/jagadeeshD3/portfolio/internal/transform"
)

type serveFlags struct {
	config string
	port   string
}

func (f *serveFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&f.config, "config", "c", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVarP(&f.port, "port", "p", "", "Port to listen on (overrides PORT)")
}

func newServeCmd(flags *serveFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), flags)
		},
	}
}

func runServe(ctx context.Context, flags *serveFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(flags.config)
	if err != nil {
		return err
	}
	if flags.port != "" {
		cfg.Port = flags.port
	}

	log, err := logging.New(logging.Options{
		Level:         cfg.Log.Level,
		HumanReadable: cfg.Log.HumanReadable,
		File:          cfg.Log.File,
		MaxSizeMB:     cfg.Log.MaxSizeMB,
		MaxBackups:    cfg.Log.MaxBackups,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	if cfg.Release {
		gin.SetMode(gin.ReleaseMode)
	}

	router, cleanup, err := buildRouter(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildRouter opens storage, starts the retention schedule and assembles the
// HTTP handlers.
func buildRouter(ctx context.Context, cfg config.Config, log zerolog.Logger) (http.Handler, func(), error) {
	portfolio, err := content.Load(cfg.ContentFile)
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	db, err := store.Open(filepath.Join(cfg.DataDir, "portfolio.db"), log)
	if err != nil {
		return nil, nil, err
	}
	retention, err := db.StartRetention(ctx, cfg.Retention.Schedule)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("invalid retention schedule: %w", err)
	}
	log.Info().Msg("Privacy: Visitor tracking enabled with hashed IP addresses")

	sender := &mail.SMTPSender{
		Host:    cfg.Mail.Host,
		Port:    cfg.Mail.Port,
		User:    cfg.Mail.User,
		Pass:    cfg.Mail.Pass,
		Timeout: cfg.Mail.Timeout,
	}
	if cfg.Mail.User == "" || cfg.Mail.Pass == "" {
		log.Warn().Msg("SMTP credentials not configured; contact messages will only be archived")
	}

	var transformer transform.Transformer
	if len(cfg.Transform.Command) > 0 {
		transformer = &transform.Command{
			Argv:    cfg.Transform.Command,
			Timeout: cfg.Transform.Timeout,
			Dir:     cfg.Transform.Dir,
		}
	}

	srv := server.New(server.Deps{
		Config:      cfg,
		Content:     portfolio,
		Store:       db,
		Relay:       mail.NewRelay(sender, db, cfg.Mail.User, cfg.Mail.To, log),
		Transformer: transformer,
		Logger:      log,
	})
	router, err := srv.Router()
	if err != nil {
		_ = stopStorage(retention, db)
		return nil, nil, fmt.Errorf("failed to build routes: %w", err)
	}
	log.Info().Msg("Admin access available at: /admin/login")
	return router, func() {
		if err := stopStorage(retention, db); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}, nil
}

// stopStorage waits for any running retention job before closing the
// database under it.
func stopStorage(retention *cron.Cron, db io.Closer) error {
	if retention != nil {
		<-retention.Stop().Done()
	}
	return db.Close()
}
