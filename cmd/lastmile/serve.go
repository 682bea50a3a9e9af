package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jengzang/lastmile-backend-go/internal/api"
	"github.com/jengzang/lastmile-backend-go/internal/auth"
	"github.com/jengzang/lastmile-backend-go/internal/dataset"
	"github.com/jengzang/lastmile-backend-go/internal/middleware"
)

var (
	servePort  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API",
	Long: `Starts the HTTP API. With --watch the data file is reloaded when it changes;
with export.schedule set the full dataset is exported on that cron spec.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Listen address (overrides server.port)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload the data file when it changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	if servePort != "" {
		cfg.Server.Port = servePort
	}
	if serveWatch {
		cfg.Data.Watch = true
	}
	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(true)
	if err != nil {
		return err
	}
	defer app.Close()

	limiter := newRateLimiter()
	if limiter != nil {
		defer limiter.Stop()
	}

	router := api.SetupRouter(api.Dependencies{
		Config:      cfg,
		Logger:      logger,
		Analytics:   app.analytics,
		Exports:     app.exports,
		Datasets:    app.datasets,
		Issuer:      auth.NewIssuer(cfg.Auth),
		RateLimiter: limiter,
	})
	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)

	var watcher *dataset.Watcher
	if cfg.Data.Watch {
		if watcher, err = dataset.NewWatcher(app.store, logger); err != nil {
			return err
		}
		if err := watcher.Start(gctx); err != nil {
			return err
		}
	}

	stopSchedule, err := app.exports.StartSchedule(gctx)
	if err != nil {
		if watcher != nil {
			watcher.Stop()
		}
		return err
	}

	g.Go(func() error {
		logger.Info("Server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
		defer cancel()
		logger.Info("Shutting down server")
		if watcher != nil {
			watcher.Stop()
		}
		stopSchedule()
		return srv.Shutdown(shutdownCtx)
	})

	// warm load; a failure is reported per request until the file is fixed
	g.Go(func() error {
		if _, err := app.store.Get(gctx); err != nil {
			logger.Warn("Initial dataset load failed", zap.Error(err))
		}
		return nil
	})

	return g.Wait()
}

// newRateLimiter returns nil when server.rate_limit is 0
func newRateLimiter() *middleware.RateLimiter {
	if cfg.Server.RateLimit <= 0 {
		return nil
	}
	return middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow.Std())
}
