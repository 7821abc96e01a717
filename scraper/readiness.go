package scraper

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
)

// contentSelectors are the signals that the listing grid has rendered:
// inventory-ish class fragments, or images whose source names a vehicle.
var contentSelectors = []string{
	`[class*="vehicle"]`,
	`[class*="inventory"]`,
	`[class*="listing"]`,
	`[class*="product"]`,
	`img[src*="bus"]`,
	`img[src*="vehicle"]`,
}

const readinessPollInterval = 500 * time.Millisecond

// WaitForContent polls until any content-indicative selector matches, or
// the timeout elapses. This gate is advisory: on timeout (or even a browser
// error) it logs and returns, and the pipeline proceeds regardless.
func WaitForContent(ctx context.Context, p *rod.Page, timeout time.Duration) {
	page := p.Context(ctx)

	found, err := awaitCondition(ctx, readinessPollInterval, timeout, func() (bool, error) {
		res, evalErr := page.Eval(
			`sels => sels.some(s => document.querySelector(s) !== null)`,
			contentSelectors,
		)
		if evalErr != nil {
			return false, evalErr
		}
		return res.Value.Bool(), nil
	})

	switch {
	case err != nil:
		slog.Warn("content readiness check failed, proceeding anyway", "error", err)
	case !found:
		slog.Warn("no content indicators appeared before timeout, proceeding anyway",
			"timeout", timeout)
	default:
		slog.Debug("content indicators present")
	}
}
