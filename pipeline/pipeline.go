// Package pipeline orchestrates the single-run capture-and-extract flow:
// prepare the page, locate listings, then strictly sequentially capture and
// analyze each section before reconciling everything into one document.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/lotlens/lotlens/config"
	"github.com/lotlens/lotlens/models"
	"github.com/lotlens/lotlens/reconcile"
	"github.com/lotlens/lotlens/scraper"
	"github.com/lotlens/lotlens/storage"
	"github.com/lotlens/lotlens/vision"
)

// sectionCapturer screenshots one batch of listings; nil capture means no
// more sections. Satisfied by *scraper.Capturer.
type sectionCapturer interface {
	CaptureSection(ctx context.Context, geoms []models.ListingGeometry, start int) (*models.SectionCapture, error)
}

// sectionExtractor turns one capture into raw model output, or nil on any
// swallowed failure. Satisfied by *vision.Extractor.
type sectionExtractor interface {
	ExtractSection(ctx context.Context, sec *models.SectionCapture) *models.RawExtraction
}

// Pipeline wires the stages over one browser session. There is no
// concurrency anywhere: one tab, one section in flight, one vision call at a
// time — deliberate throttling, not a limitation.
type Pipeline struct {
	session   *scraper.Session
	locator   *scraper.Locator
	capturer  sectionCapturer
	extractor sectionExtractor
	cfg       *config.Config
}

// New assembles the pipeline.
func New(sess *scraper.Session, extractor *vision.Extractor, cfg *config.Config) *Pipeline {
	return &Pipeline{
		session:   sess,
		locator:   scraper.NewLocator(sess),
		capturer:  scraper.NewCapturer(sess, cfg.Capture),
		extractor: extractor,
		cfg:       cfg,
	}
}

// Run executes the whole flow. Per-section vision failures are absorbed by
// the extractor; everything else that errors here ends the run.
func (p *Pipeline) Run(ctx context.Context) error {
	// ── 1. Navigate ─────────────────────────────────────────────────
	slog.Info("navigating", "url", p.cfg.Target.URL)
	if err := p.session.Navigate(ctx, p.cfg.Target.URL); err != nil {
		return err
	}

	// ── 2. Prepare page: hide chrome, exhaust lazy load ─────────────
	scraper.SuppressOverlays(p.session.Page())
	slog.Info("scrolling to trigger lazy load")
	if err := scraper.ScrollToBottom(ctx, p.session.Page(), p.cfg.Capture); err != nil {
		return err
	}

	// ── 3. Readiness gate (advisory) ────────────────────────────────
	scraper.WaitForContent(ctx, p.session.Page(), p.cfg.Capture.ReadyTimeout)

	// ── 4. Locate listings ──────────────────────────────────────────
	geoms, err := p.locator.Locate(ctx)
	if err != nil {
		return err
	}

	// ── 5. Capture, extract, reconcile ──────────────────────────────
	merged, err := p.processListings(ctx, geoms)
	if err != nil {
		return err
	}

	// ── 6. Persist ──────────────────────────────────────────────────
	if err := storage.WriteMerged(p.cfg.Target.OutputFile, merged); err != nil {
		return err
	}
	slog.Info("output written", "path", p.cfg.Target.OutputFile)
	return nil
}

// processListings runs the sequential section loop over the located
// listings and reconciles the raw outputs. An empty listing sequence is
// fatal here, before any capture or extraction is attempted: there is no
// partial-data mode.
func (p *Pipeline) processListings(ctx context.Context, geoms []models.ListingGeometry) (models.MergedResult, error) {
	if len(geoms) == 0 {
		return models.MergedResult{}, models.NewPipelineError(models.ErrCodeNoListings,
			"no listings found on page", nil)
	}

	var extractions []*models.RawExtraction
	section := 0
	for start := 0; ; start += p.cfg.Capture.ItemsPerSection {
		sec, err := p.capturer.CaptureSection(ctx, geoms, start)
		if err != nil {
			return models.MergedResult{}, err
		}
		if sec == nil {
			break
		}
		section++

		slog.Info("section captured",
			"section", section,
			"items", sec.ItemCount,
			"startY", sec.Dimensions.StartY,
			"height", sec.Dimensions.Height,
		)

		path, err := storage.WriteSectionImage(p.cfg.Target.WorkDir, section, sec.Screenshot)
		if err != nil {
			return models.MergedResult{}, err
		}
		slog.Debug("section image written", "path", path)

		// nil on failure; the reconciler tolerates nil entries.
		extractions = append(extractions, p.extractor.ExtractSection(ctx, sec))
	}

	merged := reconcile.Merge(extractions)
	slog.Info("reconciled", "sections", section, "vehicles", len(merged.Vehicles))
	return merged, nil
}
