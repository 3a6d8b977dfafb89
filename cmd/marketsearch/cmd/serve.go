package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/mvalldaura/marketsearch/internal/api/handlers"
	"github.com/mvalldaura/marketsearch/internal/api/middleware"
	"github.com/mvalldaura/marketsearch/internal/catalog"
	"github.com/mvalldaura/marketsearch/internal/config"
	"github.com/mvalldaura/marketsearch/internal/marketplace"
	"github.com/mvalldaura/marketsearch/internal/pager"
	"github.com/mvalldaura/marketsearch/internal/session"
	"github.com/mvalldaura/marketsearch/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level)

	mp := cfg.Marketplace

	versions := marketplace.NewAppVersionProvider(
		marketplace.WithSiteURL(mp.SiteURL),
		marketplace.WithVersionUserAgent(mp.UserAgent),
		marketplace.WithVersionTTL(mp.AppVersionTTL),
		marketplace.WithFallbackVersion(mp.FallbackAppVersion),
	)

	limiter := marketplace.NewRateLimiter(
		mp.RateLimit.PerSecond,
		mp.RateLimit.Burst,
		mp.RateLimit.DailyLimit,
	)

	client := marketplace.NewAPIClient(versions,
		marketplace.WithSearchURL(mp.SearchURL),
		marketplace.WithUserAgent(mp.UserAgent),
		marketplace.WithDeviceOS(mp.DeviceOS),
		marketplace.WithSource(mp.Source),
		marketplace.WithDefaultLocation(mp.DefaultLatitude, mp.DefaultLongitude),
		marketplace.WithSearchHTTPClient(&http.Client{Timeout: mp.Timeout}),
		marketplace.WithRateLimiter(limiter),
	)

	sessions := session.New(cfg.Sessions.Capacity, cfg.Sessions.TTL)
	links := catalog.New(cfg.Catalog.Capacity)

	ctrl := pager.New(client, sessions,
		pager.WithCatalog(links),
		pager.WithLogger(log),
	)

	// Expired sessions are dropped in the background so the store does not
	// sit full of dead entries between requests.
	janitor := cron.New()
	_, err = janitor.AddFunc("@every "+cfg.Sessions.SweepInterval.String(), func() {
		if n := sessions.Sweep(); n > 0 {
			log.Debug("swept expired sessions", "count", n)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling session sweep: %w", err)
	}
	janitor.Start()
	defer janitor.Stop()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	// Readiness fails once the upstream daily budget is exhausted; there is
	// no point routing traffic to an instance that can only say no.
	healthHandler := handlers.NewHealthHandler(func(context.Context) error {
		if limiter.Remaining() <= 0 {
			return marketplace.ErrDailyLimitReached
		}
		return nil
	})
	e.GET("/healthz", healthHandler.Healthz)
	e.GET("/readyz", healthHandler.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("marketsearch API", Version))
	handlers.RegisterToolRoutes(api, handlers.NewToolsHandler(ctrl, links, mp.SiteURL))
	handlers.RegisterSessionRoutes(api, handlers.NewSessionsHandler(sessions))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
