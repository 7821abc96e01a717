package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/lotlens/lotlens/config"
	"github.com/lotlens/lotlens/pipeline"
	"github.com/lotlens/lotlens/scraper"
	"github.com/lotlens/lotlens/vision"
)

func main() {
	// ── 1. Load .env + configuration ────────────────────────────────
	_ = godotenv.Load() // a missing .env file is fine
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("lotlens starting",
		"url", cfg.Target.URL,
		"model", cfg.Vision.Model,
		"itemsPerSection", cfg.Capture.ItemsPerSection,
	)

	if cfg.Vision.APIKey == "" {
		slog.Error("OPENAI_API_KEY is not set")
		os.Exit(1)
	}

	// ── 3. Launch browser session ───────────────────────────────────
	sess, err := scraper.NewSession(cfg.Browser)
	if err != nil {
		slog.Error("failed to launch browser session", "error", err)
		os.Exit(1)
	}
	defer sess.Close()

	// ── 4. Run the pipeline with a backstop deadline ────────────────
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Target.RunTimeout)
	defer cancel()

	pipe := pipeline.New(sess, vision.NewExtractor(cfg.Vision), cfg)
	if err := pipe.Run(ctx); err != nil {
		slog.Error("run failed", "error", err)
		sess.Close()
		os.Exit(1)
	}

	slog.Info("lotlens finished")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
