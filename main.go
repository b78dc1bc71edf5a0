package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ellarises/internal/pkg/config"
	"github.com/FACorreiaa/go-ellarises/internal/pkg/logger"
	"github.com/FACorreiaa/go-ellarises/internal/routes"
	"github.com/FACorreiaa/go-ellarises/internal/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file, using environment variables")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize logger
	zlog, err := logger.Init(cfg.LogLevel, !cfg.IsProduction(), zap.String("service", cfg.Observability.ServiceName))
	if err != nil {
		return err
	}
	defer func() { _ = zlog.Sync() }()

	// Initialize observability
	appMetrics, otelShutdown, err := server.InitObservability(cfg.Observability, zlog)
	if err != nil {
		return err
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			zlog.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
		}
	}()

	// Create server
	srv, err := server.New(context.Background(), cfg, zlog)
	if err != nil {
		return err
	}
	defer srv.Close()

	router, err := server.SetupRouter(server.RouterDeps{
		Config:  cfg,
		Logger:  zlog,
		Metrics: appMetrics,
		Store:   srv.SessionStore(),
		Repos:   routes.NewPostgresRepositories(srv.GetDBPool(), zlog),
	})
	if err != nil {
		zlog.Error("Failed to setup router", zap.Error(err))
		return err
	}
	srv.SetRouter(router)

	// pprof listens on a separate address, not exposed publicly
	pprofServer := server.StartPprofServer(cfg.Observability.PprofAddr, zlog)

	httpServer := srv.HTTPServer()

	done := make(chan struct{})
	go server.GracefulShutdown(zlog, done, httpServer, pprofServer)

	zlog.Info("Server starting",
		zap.String("port", cfg.ServerPort),
		zap.String("env", cfg.Env),
		zap.String("session_backend", cfg.Session.Backend))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zlog.Error("Server error", zap.Error(err))
		return err
	}

	<-done
	zlog.Info("Graceful shutdown complete")

	return nil
}
