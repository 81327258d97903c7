package retailers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Adda-Baaj/flyerboard/internal/domain"
)

const (
	defaultReleaseWeekday = time.Thursday
	defaultWeeksBack      = 1
	defaultWeeksAhead     = 0
)

// weeklyCalendarDiscoverer synthesizes flyer URLs from the weekly release calendar. No
// listing page is read; each URL may be probed for existence.
type weeklyCalendarDiscoverer struct {
	client HTTPClient
	now    func() time.Time
	log    Logger
}

// NewWeeklyCalendarDiscoverer builds the weekly_calendar strategy.
func NewWeeklyCalendarDiscoverer(opts Options) Discoverer {
	opts = opts.normalize()
	return &weeklyCalendarDiscoverer{client: opts.Client, now: opts.Now, log: opts.Log}
}

func (d *weeklyCalendarDiscoverer) Type() string { return TypeWeeklyCalendar }

func (d *weeklyCalendarDiscoverer) Discover(ctx context.Context, r Retailer) Result {
	now := d.now()
	c := newCollector(r, now, d.log)

	tpl := ConfigString(r, ConfigURLTemplateKey, "")
	if tpl == "" {
		c.fail(fmt.Errorf("config.%s is empty", ConfigURLTemplateKey))
		return c.result()
	}
	windows, err := releaseWindows(r, domain.DateOf(now))
	if err != nil {
		c.fail(err)
		return c.result()
	}

	probe := ConfigBool(r, ConfigProbeKey, true)
	headers := Headers(r)

	for _, w := range windows {
		if err := ctx.Err(); err != nil {
			c.fail(err)
			break
		}

		link := expandTemplate(tpl, w.from)
		if probe {
			if err := probeURL(ctx, d.client, link, headers); err != nil {
				c.skip(link, err.Error())
				continue
			}
		}
		c.add(domain.NewFlyer(link, w.from, w.to, now))
	}

	return c.result()
}

type window struct {
	from domain.Date
	to   domain.Date
}

// releaseWindows lists the validity windows starting on the release weekday of each week
// from weeks_back weeks ago to weeks_ahead weeks ahead, oldest first.
func releaseWindows(r Retailer, today domain.Date) ([]window, error) {
	release, err := parseWeekday(ConfigString(r, ConfigReleaseWeekdayKey, ""))
	if err != nil {
		return nil, err
	}
	days, err := validityDays(r)
	if err != nil {
		return nil, err
	}
	back, err := ConfigInt(r, ConfigWeeksBackKey, defaultWeeksBack)
	if err != nil {
		return nil, err
	}
	ahead, err := ConfigInt(r, ConfigWeeksAheadKey, defaultWeeksAhead)
	if err != nil {
		return nil, err
	}
	if back < 0 || ahead < 0 {
		return nil, fmt.Errorf("config.%s and config.%s must not be negative", ConfigWeeksBackKey, ConfigWeeksAheadKey)
	}

	out := make([]window, 0, back+ahead+1)
	for offset := -back; offset <= ahead; offset++ {
		from := releaseDay(today.AddDays(7*offset), release)
		out = append(out, window{from: from, to: from.AddDays(days - 1)})
	}
	return out, nil
}

// releaseDay returns the given weekday within the Monday-based week containing day.
func releaseDay(day domain.Date, weekday time.Weekday) domain.Date {
	monday := day.AddDays(-mondayIndex(day.Weekday()))
	return monday.AddDays(mondayIndex(weekday))
}

func mondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

func parseWeekday(raw string) (time.Weekday, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return defaultReleaseWeekday, nil
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		name := strings.ToLower(wd.String())
		if raw == name || raw == name[:3] {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("config.%s: unknown weekday %q", ConfigReleaseWeekdayKey, raw)
}

// probeURL accepts only a 200 response to a HEAD request.
func probeURL(ctx context.Context, client HTTPClient, link string, headers map[string]string) error {
	resp, err := client.Head(ctx, link, headers)
	if err != nil {
		return fmt.Errorf("probe: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("probe returned status %d", resp.StatusCode())
	}
	return nil
}
