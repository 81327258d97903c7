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
	defaultLinkSelector   = "a[href]"
	defaultURLDatePattern = `_(\d{4})_(\d{2})_(\d{2})_`
)

// urlDatedDiscoverer reads a listing page and takes each flyer's start date from its URL.
type urlDatedDiscoverer struct {
	client HTTPClient
	now    func() time.Time
	log    Logger
}

// NewURLDatedDiscoverer builds the url_dated strategy.
func NewURLDatedDiscoverer(opts Options) Discoverer {
	opts = opts.normalize()
	return &urlDatedDiscoverer{client: opts.Client, now: opts.Now, log: opts.Log}
}

func (d *urlDatedDiscoverer) Type() string { return TypeURLDated }

func (d *urlDatedDiscoverer) Discover(ctx context.Context, r Retailer) Result {
	c := newCollector(r, d.now(), d.log)

	pattern, err := regexp.Compile(ConfigString(r, ConfigURLDatePatternKey, defaultURLDatePattern))
	if err != nil {
		c.fail(fmt.Errorf("config.%s: %w", ConfigURLDatePatternKey, err))
		return c.result()
	}
	if pattern.NumSubexp() < 3 {
		c.fail(fmt.Errorf("config.%s needs year, month and day groups", ConfigURLDatePatternKey))
		return c.result()
	}
	days, err := validityDays(r)
	if err != nil {
		c.fail(err)
		return c.result()
	}

	doc, err := fetchDocument(ctx, d.client, r.SourceURL, Headers(r))
	if err != nil {
		c.fail(err)
		return c.result()
	}

	selector := ConfigString(r, ConfigLinkSelectorKey, defaultLinkSelector)
	links := doc.Find(selector)
	d.log.InfoObj("flyer links found", "flyer_links", map[string]any{
		"retailer": r.ID,
		"selector": selector,
		"count":    links.Length(),
	})
	if links.Length() == 0 {
		c.fail(fmt.Errorf("no links matched %q", selector))
		return c.result()
	}

	links.Each(func(_ int, s *goquery.Selection) {
		href := resolveURL(s.AttrOr("href", ""), r.SourceURL)
		if href == "" {
			c.skip("", "link without href")
			return
		}
		if c.has(href) {
			return
		}

		from, err := dateFromURL(pattern, href)
		if err != nil {
			c.skip(href, err.Error())
			return
		}

		flyer := domain.NewFlyer(href, from, from.AddDays(days-1), c.now)
		flyer.Title = collapseSpace(s.AttrOr("title", ""))
		c.add(flyer)
	})

	return c.result()
}

// dateFromURL applies pattern to raw; the first three groups are year, month and day.
func dateFromURL(pattern *regexp.Regexp, raw string) (domain.Date, error) {
	m := pattern.FindStringSubmatch(raw)
	if len(m) < 4 {
		return domain.Date{}, fmt.Errorf("no date found in url")
	}

	parts := make([]int, 3)
	for i := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(m[i+1]))
		if err != nil {
			return domain.Date{}, fmt.Errorf("date part %q in url: %w", m[i+1], err)
		}
		parts[i] = n
	}
	return strictDate(parts[0], parts[1], parts[2])
}
