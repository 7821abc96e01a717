package scraper

import (
	"context"
	"log/slog"

	"github.com/go-rod/rod"

	"github.com/lotlens/lotlens/config"
	"github.com/lotlens/lotlens/models"
)

// scrollStallChecks is how many consecutive unchanged scroll-height reads
// count as "no more content is loading".
const scrollStallChecks = 5

// SuppressOverlays hides fixed and sticky positioned elements plus common
// header/nav chrome so they don't bleed into clipped section screenshots.
// Elements are hidden with visibility:hidden, never removed: removing them
// would reflow the page and invalidate every measured listing geometry.
// Best-effort; the page state change is not reversible within the run.
func SuppressOverlays(p *rod.Page) {
	const js = `() => {
		for (const el of document.querySelectorAll('*')) {
			const pos = window.getComputedStyle(el).position;
			if (pos === 'fixed' || pos === 'sticky') {
				el.style.visibility = 'hidden';
			}
		}
		const selectors = [
			'[class*="header"]', '[class*="Header"]',
			'[class*="nav"]', '[class*="Nav"]',
			'[class*="fixed"]', '[class*="sticky"]',
		];
		for (const sel of selectors) {
			document.querySelectorAll(sel).forEach(el => {
				el.style.visibility = 'hidden';
			});
		}
	}`
	_, _ = p.Eval(js)
}

// ScrollToBottom walks the page down in fixed steps so every lazy-loaded
// listing gets a chance to render. It stops when the document scroll height
// has been stable for scrollStallChecks consecutive reads (content
// exhausted) or when MaxScrollSteps is reached (ceiling hit); both are
// ordinary termination, not errors. The viewport is reset to the top
// afterwards so the locator measures from a known origin.
func ScrollToBottom(ctx context.Context, p *rod.Page, cfg config.CaptureConfig) error {
	page := p.Context(ctx)

	lastHeight := -1.0
	stable := 0

	for step := 0; step < cfg.MaxScrollSteps; step++ {
		if _, err := page.Eval(`step => window.scrollBy(0, step)`, cfg.ScrollStep); err != nil {
			return models.NewPipelineError(models.ErrCodeBrowserCrash, "progressive scroll failed", err)
		}

		if err := sleepCtx(ctx, cfg.ScrollInterval); err != nil {
			return err
		}

		res, err := page.Eval(`() => document.documentElement.scrollHeight`)
		if err != nil {
			return models.NewPipelineError(models.ErrCodeBrowserCrash, "failed to read scroll height", err)
		}

		height := res.Value.Num()
		if height == lastHeight {
			stable++
			if stable >= scrollStallChecks {
				slog.Debug("scroll height stable, page exhausted",
					"steps", step+1, "height", height)
				break
			}
		} else {
			stable = 0
			lastHeight = height
		}
	}

	if _, err := page.Eval(`() => window.scrollTo(0, 0)`); err != nil {
		return models.NewPipelineError(models.ErrCodeBrowserCrash, "failed to reset scroll position", err)
	}
	return nil
}
