package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wp-temp-access/internal/activity"
	"wp-temp-access/internal/config"
	"wp-temp-access/internal/dashboard"
	"wp-temp-access/internal/directory"
	"wp-temp-access/internal/event"
	"wp-temp-access/internal/handler"
	"wp-temp-access/internal/router"
	"wp-temp-access/internal/scheduler"
	"wp-temp-access/internal/upstream"
	"wp-temp-access/internal/workflow"
)

type App struct {
	server    *http.Server
	scheduler *scheduler.Scheduler
	cleanup   []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	tokens := upstream.NewTokenStore()
	client := upstream.NewClient(cfg.UpstreamURL, cfg.CPUser, cfg.UpstreamTimeout, tokens)

	dir := directory.New(client)
	dashboardService := dashboard.NewService(client, cfg.DailyCreateCap)
	activityService := activity.NewService(client, cfg.ActivityFeedSize)

	bus := event.NewBus()
	workflowService := workflow.NewService(client, dir, bus, cfg.RevealWindow)

	// Prime the token and caches before serving, mirroring the original
	// page-load sequence. A cold upstream is tolerated: each failure is
	// logged and the first scheduler run retries.
	prime(client, dir, dashboardService, activityService)

	sched := scheduler.New(cfg.UpstreamTimeout)
	if err := sched.Add("accounts-refresh", cfg.RefreshInterval, dir.Refresh); err != nil {
		return nil, err
	}
	if err := sched.Add("dashboard-refresh", cfg.RefreshInterval, dashboardService.Refresh); err != nil {
		return nil, err
	}
	if err := sched.Add("activity-refresh", cfg.RefreshInterval, activityService.Refresh); err != nil {
		return nil, err
	}
	if err := sched.Add("token-renewal", cfg.TokenRefreshInterval, client.AcquireToken); err != nil {
		return nil, err
	}

	// Foreground mutations publish lifecycle events; refresh the derived
	// feeds immediately instead of waiting for the next poll.
	events, unsubscribe := bus.Subscribe()
	go func() {
		for e := range events {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.UpstreamTimeout)
			if err := dashboardService.Refresh(ctx); err != nil {
				slog.Warn("dashboard refresh after event failed", "event", e.Type, "error", err)
			}
			if err := activityService.Refresh(ctx); err != nil {
				slog.Warn("activity refresh after event failed", "event", e.Type, "error", err)
			}
			cancel()
		}
	}()

	appRouter := router.New(cfg, router.Handlers{
		Account:   handler.NewAccountHandler(dir, workflowService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Activity:  handler.NewActivityHandler(activityService),
		System:    handler.NewSystemHandler(client),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:    server,
		scheduler: sched,
		cleanup:   []func(){unsubscribe},
	}, nil
}

func prime(client *upstream.Client, dir *directory.Directory, dash *dashboard.Service, act *activity.Service) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := client.AcquireToken(ctx); err != nil {
		slog.Warn("initial token acquisition failed", "error", err)
	}
	if err := dir.Refresh(ctx); err != nil {
		slog.Warn("initial account refresh failed", "error", err)
	}
	if err := dash.Refresh(ctx); err != nil {
		slog.Warn("initial dashboard refresh failed", "error", err)
	}
	if err := act.Refresh(ctx); err != nil {
		slog.Warn("initial activity refresh failed", "error", err)
	}
}

func (a *App) Run() error {
	a.scheduler.Start()

	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Stop background polling first so no refresh races the shutdown.
	<-a.scheduler.Stop().Done()

	for _, cleanup := range a.cleanup {
		cleanup()
	}

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
