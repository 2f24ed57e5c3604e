package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/BlueberryDS/aquarium-control/internal/astro"
	"github.com/BlueberryDS/aquarium-control/internal/clouds"
	"github.com/BlueberryDS/aquarium-control/internal/engine"
	"github.com/BlueberryDS/aquarium-control/internal/lightconfig"
	"github.com/BlueberryDS/aquarium-control/internal/preview"
	"github.com/BlueberryDS/aquarium-control/pkg/config"
)

func main() {
	// Load configuration with hierarchy: defaults → env → flags
	cfg := config.NewConfig()
	cfg.ServiceName = "curve-preview"
	cfg.LoadFromEnv()
	cfg.LoadFromFlags()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	date := time.Now()
	if cfg.PreviewDate != "" {
		parsed, err := time.Parse("2006-01-02", cfg.PreviewDate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid date %q: %v\n", cfg.PreviewDate, err)
			os.Exit(1)
		}
		date = parsed
	}

	file, err := lightconfig.Load(cfg.LightConfigPath)
	if err != nil {
		logger.Error("Failed to load lighting config", "path", cfg.LightConfigPath, "error", err)
		os.Exit(1)
	}

	resolved, err := file.ResolveFor(date)
	if err != nil {
		logger.Error("Failed to resolve lighting config", "date", date.Format("2006-01-02"), "error", err)
		os.Exit(1)
	}

	// Clouds are required by the engine but never stepped here; the
	// preview draws the deterministic curves only.
	proc := clouds.NewProcess(nil, clouds.DefaultOptions())
	eng := engine.New(resolved, file.Constants.Device, proc, logger)

	fmt.Printf("Curve preview for %s\n\n", date.Format("2006-01-02"))
	fmt.Print(preview.NewRenderer(eng, cfg.PreviewWidth).Render())
	fmt.Println()
	fmt.Print(astro.Compute(date, cfg.Latitude, cfg.Longitude).String())
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
