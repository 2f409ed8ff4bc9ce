package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	redisclient "github.com/sachinottawa/call-agent-backend/internal/clients/redis"
	"github.com/sachinottawa/call-agent-backend/internal/config"
	"github.com/sachinottawa/call-agent-backend/internal/db"
	"github.com/sachinottawa/call-agent-backend/internal/handlers"
	"github.com/sachinottawa/call-agent-backend/internal/logger"
	"github.com/sachinottawa/call-agent-backend/internal/observability"
	"github.com/sachinottawa/call-agent-backend/internal/repos"
	"github.com/sachinottawa/call-agent-backend/internal/server"
	"github.com/sachinottawa/call-agent-backend/internal/services"
	"github.com/sachinottawa/call-agent-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Config
	cfg, err := config.Load(log)
	if err != nil {
		log.Error("Config load failed", "error", err)
		os.Exit(1)
	}

	// Tracing
	shutdownTracing := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: utils.GetEnv("ENVIRONMENT", "development", log),
	})

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	uploadRepo := repos.NewUploadRepo(thePG, log)
	callEventRepo := repos.NewCallEventRepo(thePG, log)
	userRepo := repos.NewUserRepo(thePG, log)
	graphDataRepo := repos.NewGraphDataRepo(thePG, log)

	// Chart cache (optional)
	var chartCache redisclient.ChartCache
	if cfg.RedisAddr != "" {
		chartCache, err = redisclient.NewChartCache(log, cfg.RedisAddr, cfg.ChartCacheTTL)
		if err != nil {
			log.Warn("Chart cache unavailable, serving uncached", "error", err)
			chartCache = nil
		} else {
			defer chartCache.Close()
		}
	}

	// Services
	log.Info("Setting up services from main...")
	uploadService := services.NewUploadService(thePG, log, uploadRepo, callEventRepo, chartCache)
	graphDataService := services.NewGraphDataService(thePG, log, userRepo, graphDataRepo)
	chartService := services.NewChartService(thePG, log, callEventRepo, chartCache)

	// Handlers
	log.Info("Setting up handlers from main...")
	chartHandler := handlers.NewChartHandler(chartService)
	uploadHandler := handlers.NewUploadHandler(uploadService)
	graphDataHandler := handlers.NewGraphDataHandler(graphDataService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AllowedOrigins:   cfg.AllowedOrigins,
		ServiceName:      cfg.ServiceName,
		EnableTracing:    observability.Enabled(),
		ChartHandler:     chartHandler,
		UploadHandler:    uploadHandler,
		GraphDataHandler: graphDataHandler,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if shutdownTracing != nil {
			_ = shutdownTracing(shutdownCtx)
		}
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
