package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/lumafx/lumafx/internal/coordinator"
	"github.com/lumafx/lumafx/internal/engine"
	"github.com/lumafx/lumafx/internal/http/handlers"
	"github.com/lumafx/lumafx/internal/http/httpapi"
	"github.com/lumafx/lumafx/internal/infra"
	"github.com/lumafx/lumafx/internal/presets"
	"github.com/lumafx/lumafx/internal/shaders"
	"github.com/lumafx/lumafx/internal/staging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	var stagingStore staging.Store
	switch cfg.StagingBackend {
	case "s3":
		stagingStore, err = staging.NewS3Store(ctx, staging.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
		})
	default:
		stagingStore, err = staging.NewFileStore(cfg.StagingDir)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize staging store")
	}

	presetStore, err := presets.NewStore(cfg.PresetDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize preset store")
	}

	store := coordinator.NewStore(logger)
	hub := handlers.NewHub()

	eng := engine.New(stagingStore, store, hub, logger)
	eng.WaitTimeout = cfg.RenderWait

	app := &handlers.App{
		Store:     store,
		Engine:    eng,
		Staging:   stagingStore,
		Presets:   presetStore,
		Shaders:   shaders.NewLibrary(cfg.ShaderDir),
		Hub:       hub,
		OutputDir: cfg.OutputDir,
		Log:       logger,
	}

	router := httpapi.NewRouter(app, cfg.AllowedOrigins)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
