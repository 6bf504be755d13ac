package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"sitegen/internal/http/handlers"
	httpapi "sitegen/internal/http/httpapi"
	"sitegen/internal/infra"
	"sitegen/internal/pipeline"
	"sitegen/internal/providers/genai"
	"sitegen/internal/providers/image"
	"sitegen/internal/storage"
	"sitegen/internal/template"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	model := genai.NewClient(genai.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Logger:  &logger,
	})
	if !model.Configured() {
		logger.Warn().Msg("GEMINI_API_KEY not set, generation requests will fail")
	}

	images := image.NewUnsplashProvider(image.Options{
		AccessKey: cfg.UnsplashAccessKey,
		BaseURL:   cfg.UnsplashBaseURL,
		Logger:    &logger,
	})

	store, err := template.NewStore()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load template catalog")
	}

	var uploader storage.Uploader
	if cfg.S3Bucket != "" {
		s3Store, err := storage.NewS3Store(context.Background(), cfg.S3Bucket, cfg.AWSRegion)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize s3 storage")
		}
		uploader = s3Store
		logger.Info().Str("bucket", cfg.S3Bucket).Str("region", cfg.AWSRegion).Msg("hosting generated sites on s3")
	} else {
		fileStore, err := storage.NewFileStore("data")
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize local storage")
		}
		uploader = fileStore
		logger.Info().Str("path", fileStore.BasePath()).Msg("S3_BUCKET not set, storing generated sites locally")
	}

	gen := pipeline.New(pipeline.Options{
		Model:           model,
		Images:          images,
		Templates:       store,
		Uploader:        uploader,
		DefaultTemplate: cfg.DefaultTemplate,
		Logger:          &logger,
	})

	app := &handlers.App{
		Pipeline:        gen,
		Templates:       store,
		Uploader:        uploader,
		ModelConfigured: model.Configured(),
		Logger:          &logger,
	}

	router := httpapi.NewRouter(app, cfg)
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
