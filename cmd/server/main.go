package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/kandauda/tea-estate/internal/config"
	"github.com/kandauda/tea-estate/internal/repository/mongodb"
	sheetsrepo "github.com/kandauda/tea-estate/internal/repository/sheets"
	"github.com/kandauda/tea-estate/internal/scheduler"
	"github.com/kandauda/tea-estate/internal/server/handlers"
	"github.com/kandauda/tea-estate/internal/server/router"
	advisorsvc "github.com/kandauda/tea-estate/internal/service/advisor"
	reminderssvc "github.com/kandauda/tea-estate/internal/service/reminders"
	reportingsvc "github.com/kandauda/tea-estate/internal/service/reporting"
	"github.com/kandauda/tea-estate/internal/service/snapshot"
	"github.com/kandauda/tea-estate/pkg/clients/gemini"
	"github.com/kandauda/tea-estate/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	repo, err := mongodb.NewRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName, cfg.Estate.ID, baseLogger.Named("repo.mongodb"))
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()

	hub := snapshot.NewHub(repo, baseLogger.Named("svc.snapshot"))
	if err := hub.Run(hubCtx); err != nil {
		baseLogger.Fatal("failed to load initial store snapshot", zap.Error(err))
	}

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		baseLogger.Warn("unknown timezone, falling back to local", zap.String("timezone", cfg.Reporting.Timezone))
		loc = time.Local
	}

	reportingSvc := reportingsvc.NewService(baseLogger.Named("svc.reporting"))
	remindersSvc := reminderssvc.NewService(baseLogger.Named("svc.reminders"))

	var aiClient gemini.Client
	if cfg.AI.GeminiKey != "" {
		aiClient = gemini.NewClient(cfg.AI.GeminiKey)
		baseLogger.Info("gemini advice client enabled")
	} else {
		baseLogger.Warn("gemini api key missing, advice endpoint disabled")
	}
	advisorSvc := advisorsvc.NewService(aiClient, baseLogger.Named("svc.advisor"))

	var exporter sheetsrepo.Exporter
	if cfg.SheetsEnabled() {
		exporter, err = sheetsrepo.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		baseLogger.Info("spreadsheet backup enabled")
	}

	engine := router.New(router.Handlers{
		Records:   handlers.NewRecordsHandler(repo, hub, baseLogger.Named("handlers.records")),
		Prices:    handlers.NewPricesHandler(repo, hub, baseLogger.Named("handlers.prices")),
		Dashboard: handlers.NewDashboardHandler(hub, reportingSvc, remindersSvc, advisorSvc, loc, baseLogger.Named("handlers.dashboard")),
		Reports:   handlers.NewReportsHandler(hub, reportingSvc, exporter, baseLogger.Named("handlers.reports")),
		Settings:  handlers.NewSettingsHandler(repo, hub, baseLogger.Named("handlers.settings")),
		Auth:      handlers.NewAuthHandler(repo, baseLogger.Named("handlers.auth")),
	}, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, hub, reportingSvc, remindersSvc, repo, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
