package retailers

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Adda-Baaj/flyerboard/internal/domain"
	"github.com/PuerkitoBio/goquery"
)

const (
	defaultWrapperSelector  = ".flyer-teaser__wrapper"
	defaultItemSelector     = ".flyer-teaser__teaser"
	defaultCaptionSelector  = ".flyer-teaser__caption"
	defaultValiditySelector = ".flyer-teaser__valid"
	defaultItemLinkSelector = ".flyer-teaser__teaser-inner"
	defaultImageSelector    = ".flyer-teaser__image"

	dateOrderMonthDay = "md"
	dateOrderDayMonth = "dm"

	renderStatic  = "static"
	renderBrowser = "browser"
)

var (
	validityRangePattern = regexp.MustCompile(`(\d{1,2})\.\s*(\d{1,2})\.?\s*[-–—]\s*(\d{1,2})\.\s*(\d{1,2})\.?`)
	validityStartPattern = regexp.MustCompile(`(\d{1,2})\.\s*(\d{1,2})\.`)
)

// pageTextDiscoverer reads flyer teasers from a listing page and parses their validity text.
type pageTextDiscoverer struct {
	client  HTTPClient
	browser Browser
	now     func() time.Time
	log     Logger
}

// NewPageTextDiscoverer builds the page_text strategy.
func NewPageTextDiscoverer(opts Options) Discoverer {
	opts = opts.normalize()
	return &pageTextDiscoverer{client: opts.Client, browser: opts.Browser, now: opts.Now, log: opts.Log}
}

func (d *pageTextDiscoverer) Type() string { return TypePageText }

func (d *pageTextDiscoverer) Discover(ctx context.Context, r Retailer) Result {
	now := d.now()
	c := newCollector(r, now, d.log)

	days, err := validityDays(r)
	if err != nil {
		c.fail(err)
		return c.result()
	}
	order := ConfigString(r, ConfigDateOrderKey, dateOrderMonthDay)
	if order != dateOrderMonthDay && order != dateOrderDayMonth {
		c.fail(fmt.Errorf("config.%s must be %q or %q, got %q", ConfigDateOrderKey, dateOrderMonthDay, dateOrderDayMonth, order))
		return c.result()
	}

	mode := strings.ToLower(ConfigString(r, ConfigRenderKey, renderStatic))
	if mode != renderStatic && mode != renderBrowser {
		c.fail(fmt.Errorf("config.%s must be %q or %q, got %q", ConfigRenderKey, renderStatic, renderBrowser, mode))
		return c.result()
	}

	wrapperSel := ConfigString(r, ConfigWrapperSelectorKey, defaultWrapperSelector)
	doc, err := d.document(ctx, r, mode, wrapperSel)
	if err != nil {
		c.fail(err)
		return c.result()
	}

	wrapper := doc.Find(wrapperSel).First()
	if wrapper.Length() == 0 {
		c.fail(fmt.Errorf("flyer section %q not found", wrapperSel))
		return c.result()
	}

	var (
		itemSel     = ConfigString(r, ConfigItemSelectorKey, defaultItemSelector)
		captionSel  = ConfigString(r, ConfigCaptionSelectorKey, defaultCaptionSelector)
		wantCaption = collapseSpace(ConfigString(r, ConfigCaptionKey, ""))
		validSel    = ConfigString(r, ConfigValiditySelectorKey, defaultValiditySelector)
		linkSel     = ConfigString(r, ConfigLinkSelectorKey, defaultItemLinkSelector)
		imageSel    = ConfigString(r, ConfigImageSelectorKey, defaultImageSelector)
		today       = domain.DateOf(now)
	)

	wrapper.Find(itemSel).Each(func(_ int, item *goquery.Selection) {
		link := resolveURL(attrFrom(item, linkSel, "href"), r.SourceURL)
		caption := collapseSpace(item.Find(captionSel).First().Text())

		if wantCaption != "" && caption != wantCaption {
			d.log.DebugObj("flyer teaser caption filtered", "flyer_caption", map[string]any{
				"retailer": r.ID,
				"caption":  caption,
			})
			return
		}
		if link == "" {
			c.skip("", "teaser without link")
			return
		}
		if c.has(link) {
			return
		}

		validity := collapseSpace(item.Find(validSel).First().Text())
		from, to, err := parseValidity(validity, today, order, days)
		if err != nil {
			c.skip(link, err.Error())
			return
		}

		flyer := domain.NewFlyer(link, from, to, now)
		flyer.Title = caption
		flyer.ImageURL = resolveURL(firstNonEmpty(
			attrFrom(item, imageSel, "src"),
			attrFrom(item, imageSel, "data-src"),
		), r.SourceURL)
		c.add(flyer)
	})

	return c.result()
}

// document loads the listing page. Browser mode waits for the flyer section to appear
// before the markup is handed to goquery.
func (d *pageTextDiscoverer) document(ctx context.Context, r Retailer, mode, wrapperSel string) (*goquery.Document, error) {
	if mode != renderBrowser {
		return fetchDocument(ctx, d.client, r.SourceURL, Headers(r))
	}
	html, err := d.browser.Render(ctx, r.SourceURL, wrapperSel, Headers(r))
	if err != nil {
		return nil, err
	}
	return parseDocument(strings.NewReader(html))
}

// attrFrom reads attr from the first match of sel inside item, or from item itself.
func attrFrom(item *goquery.Selection, sel, attr string) string {
	if node := item.Find(sel).First(); node.Length() > 0 {
		return node.AttrOr(attr, "")
	}
	if item.Is(sel) {
		return item.AttrOr(attr, "")
	}
	return ""
}

// parseValidity reads "AA.BB. - CC.DD." or a lone "AA.BB." start. The start is placed in
// the year closest to today; an end before its start rolls into the following year.
func parseValidity(text string, today domain.Date, order string, days int) (domain.Date, domain.Date, error) {
	if m := validityRangePattern.FindStringSubmatch(text); m != nil {
		from, err := startDate(m[1], m[2], order, today)
		if err != nil {
			return domain.Date{}, domain.Date{}, err
		}
		month, day, err := monthDay(m[3], m[4], order)
		if err != nil {
			return domain.Date{}, domain.Date{}, err
		}
		to, err := strictDate(from.Year(), month, day)
		if err == nil && to.Before(from) {
			to, err = strictDate(from.Year()+1, month, day)
		}
		if err != nil {
			return domain.Date{}, domain.Date{}, err
		}
		return from, to, nil
	}

	if m := validityStartPattern.FindStringSubmatch(text); m != nil {
		from, err := startDate(m[1], m[2], order, today)
		if err != nil {
			return domain.Date{}, domain.Date{}, err
		}
		return from, from.AddDays(days - 1), nil
	}

	return domain.Date{}, domain.Date{}, fmt.Errorf("no validity dates in %q", text)
}

// startDate places a month/day pair in whichever of last, this or next year lies closest
// to today, so year-end ranges resolve correctly on either side of new year.
func startDate(a, b, order string, today domain.Date) (domain.Date, error) {
	month, day, err := monthDay(a, b, order)
	if err != nil {
		return domain.Date{}, err
	}

	var (
		best    domain.Date
		bestGap time.Duration
		lastErr error
	)
	for _, year := range []int{today.Year() - 1, today.Year(), today.Year() + 1} {
		d, err := strictDate(year, month, day)
		if err != nil {
			// Feb 29 exists only in some of the candidate years
			lastErr = err
			continue
		}
		gap := d.Time().Sub(today.Time())
		if gap < 0 {
			gap = -gap
		}
		if best.IsZero() || gap < bestGap {
			best, bestGap = d, gap
		}
	}
	if best.IsZero() {
		return domain.Date{}, lastErr
	}
	return best, nil
}

func monthDay(a, b, order string) (month, day int, err error) {
	x, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, err
	}
	if order == dateOrderDayMonth {
		return y, x, nil
	}
	return x, y, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
