package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/plantaops/planta-dashboard/internal/ai"
	"github.com/plantaops/planta-dashboard/internal/api"
	"github.com/plantaops/planta-dashboard/internal/cache"
	"github.com/plantaops/planta-dashboard/internal/config"
	"github.com/plantaops/planta-dashboard/internal/service"
	"github.com/plantaops/planta-dashboard/internal/sheets"
	"github.com/plantaops/planta-dashboard/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	source, err := sheets.NewClient(ctx, cfg.Sheets)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to the plant workbook")
	}

	snapshots, err := cache.New(cfg.Cache)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize snapshot cache")
	}

	services := &api.Services{
		Reports:  service.NewReports(source, snapshots),
		Analyzer: ai.NewAnalyzer(cfg.AI),
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
