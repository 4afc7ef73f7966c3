package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/automaxprocs/maxprocs"

	docproc "github.com/JuampaBiron/tcrs-document-processor"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env for local development; the deployed service gets its
	// configuration from the environment.
	_ = godotenv.Load()

	logger := newLogger(os.Getenv("LOG_LEVEL"))
	slog.SetDefault(logger)

	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logger.Info(fmt.Sprintf(format, args...))
	})); err != nil {
		logger.Warn("failed to set GOMAXPROCS", "error", err)
	}

	store, err := docproc.NewBlobStore(
		os.Getenv("AZURE_STORAGE_CONNECTION_STRING"),
		envOr("BLOB_CONTAINER_NAME", "tcrs-documents"),
	)
	if err != nil {
		return fmt.Errorf("blob storage: %w", err)
	}

	tcrs, err := docproc.NewTCRSClient(
		os.Getenv("TCRS_API_BASE_URL"),
		os.Getenv("INTERNAL_FUNCTION_KEY"),
	)
	if err != nil {
		return fmt.Errorf("TCRS API: %w", err)
	}

	svc := docproc.New(store, tcrs,
		docproc.WithLogger(logger),
		docproc.WithStampSide(docproc.StampSide(envOr("STAMP_SIDE", "right"))),
		docproc.WithRasterConfig(rasterConfigFromEnv()),
	)

	router := docproc.NewRouter(svc, logger)
	port := envOr("PORT", "8080")
	logger.Info("starting tcrs-document-processor", "port", port)
	return router.Run(":" + port)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// rasterConfigFromEnv starts from the production defaults and applies any
// environment overrides. Invalid values surface when the Service validates
// the configuration on the first request.
func rasterConfigFromEnv() docproc.RasterConfig {
	cfg := docproc.DefaultRasterConfig()
	if v := os.Getenv("RASTER_DPI"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DPI = n
		}
	}
	if v := os.Getenv("RASTER_CODEC"); v != "" {
		cfg.Codec = docproc.Codec(v)
	}
	if v := os.Getenv("RASTER_QUALITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Quality = n
		}
	}
	if v := os.Getenv("RASTER_MAX_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxPageWidth = n
		}
	}
	return cfg
}
