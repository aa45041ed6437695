// backend-go/cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/scmdash/backend-go/internal/api"
	"github.com/andresuchdata/scmdash/backend-go/internal/cache"
	"github.com/andresuchdata/scmdash/backend-go/internal/config"
	"github.com/andresuchdata/scmdash/backend-go/internal/drive"
	"github.com/andresuchdata/scmdash/backend-go/internal/pipeline"
	"github.com/andresuchdata/scmdash/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/scmdash/backend-go/internal/scheduler"
	"github.com/andresuchdata/scmdash/backend-go/internal/service"
	"github.com/andresuchdata/scmdash/backend-go/internal/snapshot"
	"github.com/andresuchdata/scmdash/backend-go/internal/storage"
	"github.com/andresuchdata/scmdash/backend-go/pkg/logger"
	"github.com/gin-gonic/gin"
)

const evictSchedule = "*/5 * * * *"

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.Configure(cfg.Log.Format, cfg.Log.Level)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	opts := service.Options{
		ArchivePrefix: cfg.Storage.Prefix,
		Pipeline:      pipeline.DefaultConfig(),
	}

	if cfg.Cache.Enabled {
		summaryCache, err := cache.NewSummaryCache(cfg.Cache)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Summary cache unavailable, continuing without it")
		} else {
			opts.Cache = summaryCache
		}
	}

	if cfg.Database.Enabled {
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		if err := db.EnsureSchema(ctx); err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to prepare database schema")
		}
		opts.Runs = postgres.NewUploadRunRepository(db)
	}

	if cfg.Storage.Enabled {
		objects, err := storage.NewMinioClient(ctx, storage.MinioConfig{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize object storage")
		}
		opts.Objects = objects
	}

	dashboard := service.NewDashboardService(snapshot.NewStore(), opts)
	services := &api.Services{Dashboard: dashboard}

	jobs := scheduler.New()
	if ttl := time.Duration(cfg.App.SessionTTLMinutes) * time.Minute; ttl > 0 {
		err := jobs.Add("evict-sessions", evictSchedule, func(ctx context.Context) error {
			dashboard.EvictIdle(ttl)
			return nil
		})
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to schedule session eviction")
		}
	}

	if cfg.Drive.Enabled {
		driveService, err := drive.NewService(ctx, cfg.Drive.CredentialsJSON)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize Google Drive service")
		}
		syncer := drive.NewSyncer(
			drive.NewDownloader(driveService, cfg.Drive.DownloadConcurrency),
			dashboard,
			cfg.Drive.FolderID,
			cfg.Drive.SessionID,
		)
		services.Drive = drive.NewHandler(driveService, syncer)

		if cfg.Drive.SyncSchedule != "" && cfg.Drive.FolderID != "" {
			err := jobs.Add("drive-sync", cfg.Drive.SyncSchedule, func(ctx context.Context) error {
				_, _, err := syncer.Sync(ctx, false)
				return err
			})
			if err != nil {
				logger.Log.Fatal().Err(err).Msg("Failed to schedule drive sync")
			}
		}
	}

	jobs.Start()
	defer jobs.Stop()

	// Initialize HTTP server
	router := api.NewRouter(services, api.RouterConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxUploadBytes: cfg.Server.MaxUploadBytes(),
	})
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
