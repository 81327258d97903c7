package retailers

import (
	"fmt"
	"time"

	"github.com/Adda-Baaj/flyerboard/internal/domain"
)

// collector accumulates candidates for one discovery run, enforcing validity and URL
// uniqueness so individual bad entries never abort the run.
type collector struct {
	retailer string
	now      time.Time
	log      Logger
	seen     map[string]struct{}
	res      Result
}

func newCollector(r Retailer, now time.Time, log Logger) *collector {
	return &collector{
		retailer: r.ID,
		now:      now,
		log:      ensureLogger(log),
		seen:     make(map[string]struct{}),
	}
}

func (c *collector) has(url string) bool {
	_, ok := c.seen[url]
	return ok
}

// add accepts f when it is valid and its URL is new in this run.
func (c *collector) add(f domain.Flyer) bool {
	if err := f.Validate(); err != nil {
		c.skip(f.URL, err.Error())
		return false
	}
	if c.has(f.URL) {
		c.log.DebugObj("duplicate flyer url skipped", "flyer_duplicate", map[string]any{
			"retailer": c.retailer,
			"url":      f.URL,
		})
		return false
	}
	c.seen[f.URL] = struct{}{}
	c.res.Flyers = append(c.res.Flyers, f)
	c.log.DebugObj("flyer candidate accepted", "flyer_candidate", map[string]any{
		"retailer":   c.retailer,
		"url":        f.URL,
		"valid_from": f.ValidFrom.String(),
		"valid_to":   f.ValidTo.String(),
	})
	return true
}

func (c *collector) skip(url, reason string) {
	c.res.Skipped = append(c.res.Skipped, Skip{URL: url, Reason: reason})
	c.log.WarnObj("flyer entry skipped", "flyer_skip", map[string]any{
		"retailer": c.retailer,
		"url":      url,
		"reason":   reason,
	})
}

func (c *collector) fail(err error) {
	if err == nil {
		return
	}
	if c.res.Err == nil {
		c.res.Err = fmt.Errorf("%s: %w", c.retailer, err)
	}
	c.log.WarnObj("flyer source failed", "flyer_source_error", map[string]any{
		"retailer": c.retailer,
		"error":    err.Error(),
	})
}

func (c *collector) result() Result {
	c.log.InfoObj("flyer discovery finished", "flyer_discovery", map[string]any{
		"retailer":   c.retailer,
		"candidates": len(c.res.Flyers),
		"skipped":    len(c.res.Skipped),
		"failed":     c.res.Err != nil,
	})
	return c.res
}
