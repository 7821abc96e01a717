package scraper

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/lotlens/lotlens/config"
	"github.com/lotlens/lotlens/models"
)

const (
	// imagePollSettle is the pause after scrolling before the first
	// image-load check, so lazy loaders have a chance to fire at all.
	imagePollSettle = 300 * time.Millisecond

	// imagePollInterval is the spacing between image-load checks.
	imagePollInterval = 250 * time.Millisecond
)

// Capturer slices the located listings into fixed-size batches and takes a
// clipped screenshot of each batch's padded bounding rectangle.
type Capturer struct {
	page *rod.Page
	cfg  config.CaptureConfig
}

// NewCapturer builds a Capturer over the session's page.
func NewCapturer(sess *Session, cfg config.CaptureConfig) *Capturer {
	return &Capturer{page: sess.Page(), cfg: cfg}
}

// CaptureSection screenshots the batch of listings starting at index start.
// It returns (nil, nil) when start is past the end of the listing sequence —
// that is the "no more sections" signal, not an error. A failed screenshot
// is a hard error for the whole run.
//
// Precondition: the page has been prepared (overlays suppressed, lazy load
// exhausted). Postcondition: the viewport is scrolled to the section's top.
func (c *Capturer) CaptureSection(ctx context.Context, geoms []models.ListingGeometry, start int) (*models.SectionCapture, error) {
	end, ok := sectionRange(len(geoms), start, c.cfg.ItemsPerSection)
	if !ok {
		return nil, nil
	}

	dims := sectionBounds(geoms, start, end, c.cfg.SectionPadding)
	page := c.page.Context(ctx)

	if _, err := page.Eval(`y => window.scrollTo(0, y)`, dims.StartY); err != nil {
		return nil, models.NewPipelineError(models.ErrCodeCapture, "viewport scroll failed", err)
	}

	if err := sleepCtx(ctx, imagePollSettle); err != nil {
		return nil, err
	}

	if err := c.waitImagesLoaded(ctx, page, start, end); err != nil {
		return nil, err
	}

	// Let entrance animations and image fade-ins finish.
	if err := sleepCtx(ctx, c.cfg.SettleDelay); err != nil {
		return nil, err
	}

	widthRes, err := page.Eval(`() => Math.max(document.documentElement.clientWidth, window.innerWidth || 0)`)
	if err != nil {
		return nil, models.NewPipelineError(models.ErrCodeCapture, "failed to read page width", err)
	}

	shot, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
		Clip: &proto.PageViewport{
			X:      0,
			Y:      dims.StartY,
			Width:  widthRes.Value.Num(),
			Height: dims.Height,
			Scale:  1,
		},
		CaptureBeyondViewport: true,
	})
	if err != nil {
		return nil, models.NewPipelineError(models.ErrCodeCapture, "section screenshot failed", err)
	}

	return &models.SectionCapture{
		Screenshot: shot,
		StartIndex: start,
		EndIndex:   end,
		ItemCount:  end - start,
		Dimensions: dims,
	}, nil
}

// waitImagesLoaded polls until every image currently in the document reports
// complete with non-zero natural dimensions, bounded by ImageLoadTimeout.
// Exhausting the wait is tolerated: a capture with a late image beats no
// capture.
func (c *Capturer) waitImagesLoaded(ctx context.Context, page *rod.Page, start, end int) error {
	const js = `() => {
		for (const img of document.images) {
			if (!img.src) continue;
			if (!img.complete || img.naturalWidth === 0) return false;
		}
		return true;
	}`

	loaded, err := awaitCondition(ctx, imagePollInterval, c.cfg.ImageLoadTimeout, func() (bool, error) {
		res, evalErr := page.Eval(js)
		if evalErr != nil {
			return false, evalErr
		}
		return res.Value.Bool(), nil
	})
	if err != nil {
		return models.NewPipelineError(models.ErrCodeCapture, "image-load wait failed", err)
	}
	if !loaded {
		slog.Debug("images still loading after wait, capturing anyway",
			"startIndex", start, "endIndex", end)
	}
	return nil
}

// sectionRange clamps the half-open range [start, start+perSection) to the
// listing count. ok is false when start is out of range or the slice would
// be empty.
func sectionRange(total, start, perSection int) (end int, ok bool) {
	if start < 0 || start >= total || perSection <= 0 {
		return 0, false
	}
	end = start + perSection
	if end > total {
		end = total
	}
	return end, true
}

// sectionBounds computes the padded capture rectangle spanning
// geoms[start:end]. Listings arrive in DOM order, which is not guaranteed
// sorted by top, so the span is the min/max over the whole slice. A zero
// Bottom is derived from Top + Height.
func sectionBounds(geoms []models.ListingGeometry, start, end int, padding float64) models.SectionDimensions {
	startY := geoms[start].Top
	endY := listingBottom(geoms[start])

	for _, g := range geoms[start:end] {
		if g.Top < startY {
			startY = g.Top
		}
		if b := listingBottom(g); b > endY {
			endY = b
		}
	}

	startY -= padding
	if startY < 0 {
		startY = 0
	}
	endY += padding

	return models.SectionDimensions{
		StartY: startY,
		EndY:   endY,
		Height: endY - startY,
	}
}

func listingBottom(g models.ListingGeometry) float64 {
	if g.Bottom > 0 {
		return g.Bottom
	}
	return g.Top + g.Height
}
