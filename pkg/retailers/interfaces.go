package retailers

import (
	"context"

	"github.com/Adda-Baaj/flyerboard/internal/domain"
	"github.com/Adda-Baaj/flyerboard/pkg/httpclient"
)

// Strategy types a retailer can be configured with.
const (
	TypeURLDated       = "url_dated"
	TypePageText       = "page_text"
	TypeWeeklyCalendar = "weekly_calendar"
	TypeDerived        = "derived"

	defaultValidityDays = 7
)

// Discoverer produces candidate flyers for a retailer, right now. Implementations hold no
// state between runs. They never return a flyer with an incomplete validity window and never
// return the same URL twice.
type Discoverer interface {
	Type() string
	Discover(ctx context.Context, r Retailer) Result
}

// Registry resolves the discoverer for a retailer.
type Registry interface {
	DiscovererFor(r Retailer) (Discoverer, error)
}

// HTTPClient aliases the shared httpclient.Client interface for clarity within retailers.
type HTTPClient = httpclient.Client

// Browser aliases httpclient.Browser for sources that only render client-side.
type Browser = httpclient.Browser

// Skip records a source entry that did not become a candidate.
type Skip struct {
	URL    string `json:"url,omitempty"`
	Reason string `json:"reason"`
}

// Result is the outcome of one discovery run. Err is set when the source could not be read
// completely (fetch failure, missing page section); Flyers still holds every candidate that
// could be determined.
type Result struct {
	Flyers  []domain.Flyer
	Skipped []Skip
	Err     error
}

// OK reports whether the source was read without a source-level failure.
func (r Result) OK() bool { return r.Err == nil }
