package vision

import (
	"context"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/lotlens/lotlens/config"
	"github.com/lotlens/lotlens/models"
)

// Extractor is the pipeline's boundary to the vision service. Every failure
// behind it — network, auth, model — is logged and swallowed so that one bad
// section never aborts the run. The limiter enforces the minimum spacing
// between calls; the pipeline is sequential, so this is pure pacing against
// provider rate limits, not concurrency control.
type Extractor struct {
	client  *Client
	limiter *rate.Limiter
}

// NewExtractor builds an Extractor from config.
func NewExtractor(cfg config.VisionConfig) *Extractor {
	return &Extractor{
		client:  NewClient(cfg, &http.Client{}),
		limiter: rate.NewLimiter(rate.Every(cfg.SectionPacing), 1),
	}
}

// ExtractSection sends one section screenshot to the vision model and
// returns its raw text output. Returns nil on any failure; the reconciler
// tolerates nil entries.
func (e *Extractor) ExtractSection(ctx context.Context, sec *models.SectionCapture) *models.RawExtraction {
	if err := e.limiter.Wait(ctx); err != nil {
		slog.Warn("pacing wait interrupted, skipping section",
			"startIndex", sec.StartIndex, "error", err)
		return nil
	}

	prompt := buildPrompt(sec.StartIndex, sec.EndIndex)

	text, err := e.client.Describe(ctx, sec.Screenshot, prompt)
	if err != nil {
		slog.Warn("vision extraction failed, section contributes no vehicles",
			"startIndex", sec.StartIndex, "endIndex", sec.EndIndex, "error", err)
		return nil
	}

	return &models.RawExtraction{
		StartIndex: sec.StartIndex,
		EndIndex:   sec.EndIndex,
		Text:       text,
	}
}
