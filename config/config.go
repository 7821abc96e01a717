package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// defaultTargetURL is the one inventory page this pipeline scrapes.
const defaultTargetURL = "https://www.lasvegasbussales.com/all-vehicles/"

// Config holds all application configuration.
type Config struct {
	Target  TargetConfig
	Browser BrowserConfig
	Capture CaptureConfig
	Vision  VisionConfig
	Log     LogConfig
}

// TargetConfig identifies the page to scrape and where artifacts land.
type TargetConfig struct {
	// URL is the inventory page to scrape.
	URL string

	// OutputFile is the path of the merged vehicles JSON.
	OutputFile string // default: "vehicles.json"

	// WorkDir is where per-section screenshots are written.
	WorkDir string // default: "."

	// RunTimeout is the backstop deadline for the whole run.
	RunTimeout time.Duration // default: 15m
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Stealth enables anti-bot-detection evasions.
	Stealth bool // default: true

	// NavigationTimeout is the max time for page navigation alone.
	NavigationTimeout time.Duration // default: 45s
}

// CaptureConfig controls page preparation and section capture.
type CaptureConfig struct {
	// ItemsPerSection is how many listings share one screenshot.
	ItemsPerSection int // default: 3

	// SectionPadding is the vertical padding in px added above the first
	// and below the last listing of a section.
	SectionPadding float64 // default: 50

	// ScrollStep is the progressive-scroll distance in px per step.
	ScrollStep int // default: 600

	// ScrollInterval is the pause between progressive-scroll steps.
	ScrollInterval time.Duration // default: 400ms

	// MaxScrollSteps caps the progressive scroll.
	MaxScrollSteps int // default: 60

	// ReadyTimeout bounds the content readiness gate.
	ReadyTimeout time.Duration // default: 10s

	// ImageLoadTimeout bounds the per-section image-load wait.
	ImageLoadTimeout time.Duration // default: 8s

	// SettleDelay is the extra wait after scrolling, for animations.
	SettleDelay time.Duration // default: 1s
}

// VisionConfig controls the image-understanding model client.
type VisionConfig struct {
	// APIKey authenticates against the vision API. Required.
	APIKey string

	// Model is the vision model name.
	Model string // default: "gpt-4o"

	// BaseURL is the OpenAI-compatible API base.
	BaseURL string // default: "https://api.openai.com/v1"

	// SectionPacing is the minimum spacing between vision calls.
	SectionPacing time.Duration // default: 2s
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Target: TargetConfig{
			URL:        envOr("LOTLENS_TARGET_URL", defaultTargetURL),
			OutputFile: envOr("LOTLENS_OUTPUT_FILE", "vehicles.json"),
			WorkDir:    envOr("LOTLENS_WORK_DIR", "."),
			RunTimeout: envDurationOr("LOTLENS_RUN_TIMEOUT", 15*time.Minute),
		},
		Browser: BrowserConfig{
			Headless:          envBoolOr("LOTLENS_HEADLESS", true),
			NoSandbox:         envBoolOr("LOTLENS_NO_SANDBOX", false),
			BrowserBin:        os.Getenv("LOTLENS_BROWSER_BIN"),
			Stealth:           envBoolOr("LOTLENS_STEALTH", true),
			NavigationTimeout: envDurationOr("LOTLENS_NAV_TIMEOUT", 45*time.Second),
		},
		Capture: CaptureConfig{
			ItemsPerSection:  envIntOr("LOTLENS_ITEMS_PER_SECTION", 3),
			SectionPadding:   envFloatOr("LOTLENS_SECTION_PADDING", 50),
			ScrollStep:       envIntOr("LOTLENS_SCROLL_STEP", 600),
			ScrollInterval:   envDurationOr("LOTLENS_SCROLL_INTERVAL", 400*time.Millisecond),
			MaxScrollSteps:   envIntOr("LOTLENS_MAX_SCROLL_STEPS", 60),
			ReadyTimeout:     envDurationOr("LOTLENS_READY_TIMEOUT", 10*time.Second),
			ImageLoadTimeout: envDurationOr("LOTLENS_IMAGE_TIMEOUT", 8*time.Second),
			SettleDelay:      envDurationOr("LOTLENS_SETTLE_DELAY", time.Second),
		},
		Vision: VisionConfig{
			APIKey:        os.Getenv("OPENAI_API_KEY"),
			Model:         envOr("LOTLENS_VISION_MODEL", "gpt-4o"),
			BaseURL:       envOr("LOTLENS_VISION_BASE_URL", "https://api.openai.com/v1"),
			SectionPacing: envDurationOr("LOTLENS_SECTION_PACING", 2*time.Second),
		},
		Log: LogConfig{
			Level:  envOr("LOTLENS_LOG_LEVEL", "info"),
			Format: envOr("LOTLENS_LOG_FORMAT", "text"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
