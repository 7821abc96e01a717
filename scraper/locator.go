package scraper

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/go-rod/rod"
	"github.com/ysmood/gson"

	"github.com/lotlens/lotlens/models"
)

// Minimum rendered size for an element to count as a listing card; anything
// smaller is a thumbnail, a badge, or layout scaffolding.
const (
	minListingWidth  = 100.0
	minListingHeight = 100.0
)

// minListingTextLen screens out image-only tiles and decorative containers.
const minListingTextLen = 50

// candidateAttr marks containers inferred by the image-ancestor fallback.
const candidateAttr = "data-lotlens-candidate"

// Strategy is one listing-detection heuristic: a named CSS selector whose
// matches become listing candidates. Strategies are tried in order and the
// first one yielding at least one validated candidate wins; later strategies
// never run, even when the validated set is small.
type Strategy struct {
	Name     string
	Selector string

	// Prepare, when set, runs in-page before the selector is evaluated
	// (the image-ancestor fallback tags its candidates this way).
	Prepare func(p *rod.Page) error
}

// strategies is the detection chain, most specific first.
var strategies = []Strategy{
	{
		Name:     "listing-classes",
		Selector: ".vehicle-item, .vehicle-listing, .inventory-item, .inventory-listing, .listing-item, .product-item",
	},
	{
		Name:     "class-fragments",
		Selector: `[class*="vehicle"], [class*="inventory"], [class*="listing"]`,
	},
	{
		Name:     "generic-cards",
		Selector: ".card, .product, article, li.item",
	},
	{
		Name:     "image-ancestors",
		Selector: `[` + candidateAttr + `]`,
		Prepare:  tagImageAncestors,
	},
}

var yearPattern = regexp.MustCompile(`20\d{2}`)

// commerceWords is the textual evidence that a block is a sales listing and
// not, say, a blog teaser with a photo.
var commerceWords = []string{"price", "call", "contact", "quote", "$"}

// Locator finds the vertical geometry of every listing on the prepared page.
type Locator struct {
	page *rod.Page
}

// NewLocator builds a Locator over the session's page.
func NewLocator(sess *Session) *Locator {
	return &Locator{page: sess.Page()}
}

// Locate runs the strategy chain and returns the validated listings'
// geometry in DOM order (document coordinates). An empty result means no
// strategy found anything; the caller must treat that as fatal.
func (l *Locator) Locate(ctx context.Context) ([]models.ListingGeometry, error) {
	page := l.page.Context(ctx)

	for _, strat := range strategies {
		// The chain's selectors are hand-maintained; if a future edit
		// breaks one, skip that strategy instead of erroring every
		// querySelectorAll call mid-run.
		if _, err := cascadia.ParseGroup(strat.Selector); err != nil {
			slog.Warn("skipping strategy with unparsable selector",
				"strategy", strat.Name, "error", err)
			continue
		}

		if strat.Prepare != nil {
			if err := strat.Prepare(page); err != nil {
				slog.Warn("strategy preparation failed, skipping",
					"strategy", strat.Name, "error", err)
				continue
			}
		}

		geoms, err := l.collect(page, strat.Selector)
		if err != nil {
			return nil, models.NewPipelineError(
				models.ErrCodeBrowserCrash,
				"listing geometry collection failed",
				err,
			)
		}

		if len(geoms) > 0 {
			slog.Info("listings located",
				"strategy", strat.Name, "count", len(geoms))
			return geoms, nil
		}
		slog.Debug("strategy found no valid listings", "strategy", strat.Name)
	}

	return nil, nil
}

// collectJS measures every match of the selector in document coordinates
// and hands back its geometry plus outer HTML for Go-side validation.
const collectJS = `sel => {
	const out = [];
	const scrollY = window.scrollY;
	for (const el of document.querySelectorAll(sel)) {
		const rect = el.getBoundingClientRect();
		out.push({
			top: rect.top + scrollY,
			height: rect.height,
			width: rect.width,
			bottom: rect.bottom + scrollY,
			html: el.outerHTML,
		});
	}
	return out;
}`

func (l *Locator) collect(page *rod.Page, selector string) ([]models.ListingGeometry, error) {
	res, err := page.Eval(collectJS, selector)
	if err != nil {
		return nil, err
	}

	var geoms []models.ListingGeometry
	for _, item := range res.Value.Arr() {
		g := geometryFromJSON(item)
		if g.Top < 0 || g.Height <= 0 {
			continue
		}
		if g.Width <= minListingWidth || g.Height <= minListingHeight {
			continue
		}
		if !ValidListingHTML(item.Get("html").Str()) {
			continue
		}
		geoms = append(geoms, g)
	}
	return geoms, nil
}

// geometryFromJSON decodes one measured element from the Eval result.
func geometryFromJSON(v gson.JSON) models.ListingGeometry {
	return models.ListingGeometry{
		Top:    v.Get("top").Num(),
		Height: v.Get("height").Num(),
		Width:  v.Get("width").Num(),
		Bottom: v.Get("bottom").Num(),
	}
}

// ValidListingHTML is the static half of listing validation: the element
// must contain an image, carry non-trivial text, and show some commerce
// evidence (a price/contact keyword or a four-digit model year). It is pure
// over the element's outer HTML so it can be exercised against fixture
// markup without a browser.
func ValidListingHTML(html string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}
	if doc.Find("img").Length() == 0 {
		return false
	}

	text := strings.TrimSpace(doc.Text())
	if len(text) <= minListingTextLen {
		return false
	}

	lower := strings.ToLower(text)
	for _, w := range commerceWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return yearPattern.MatchString(text)
}

// tagImageAncestors is the last-resort strategy: when no class-based
// selector matches, infer listing containers by climbing from each
// substantial image to the nearest ancestor that carries real text, and tag
// it so the normal selector path can pick it up.
func tagImageAncestors(p *rod.Page) error {
	const js = `attr => {
		let tagged = 0;
		for (const img of document.images) {
			if (!img.src || img.width < 100 || img.height < 100) continue;
			let node = img.parentElement;
			for (let depth = 0; node && depth < 4; depth++) {
				if (node.textContent && node.textContent.trim().length > 50) break;
				node = node.parentElement;
			}
			if (node && node !== document.body && !node.hasAttribute(attr)) {
				node.setAttribute(attr, '1');
				tagged++;
			}
		}
		return tagged;
	}`
	res, err := p.Eval(js, candidateAttr)
	if err != nil {
		return err
	}
	slog.Debug("image-ancestor fallback tagged containers", "count", res.Value.Int())
	return nil
}
