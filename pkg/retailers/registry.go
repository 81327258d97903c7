package retailers

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Adda-Baaj/flyerboard/pkg/httpclient"
)

// TypeRegistry implements Registry by strategy type.
type TypeRegistry struct {
	mu     sync.RWMutex
	byType map[string]Discoverer
}

// NewTypeRegistry builds a registry from the given discoverers keyed by their Type.
func NewTypeRegistry(discoverers ...Discoverer) *TypeRegistry {
	reg := &TypeRegistry{byType: make(map[string]Discoverer)}
	for _, d := range discoverers {
		reg.Register(d)
	}
	return reg
}

// Register adds or replaces the discoverer for d.Type().
func (r *TypeRegistry) Register(d Discoverer) {
	if d == nil {
		return
	}
	key := strings.ToLower(strings.TrimSpace(d.Type()))
	if key == "" {
		return
	}

	r.mu.Lock()
	r.byType[key] = d
	r.mu.Unlock()
}

// DiscovererFor selects the discoverer for the retailer's type.
func (r *TypeRegistry) DiscovererFor(ret Retailer) (Discoverer, error) {
	if r == nil {
		return nil, fmt.Errorf("discoverer registry is nil")
	}
	if strings.TrimSpace(ret.ID) == "" {
		return nil, fmt.Errorf("retailer id is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if d, ok := r.byType[strings.ToLower(strings.TrimSpace(ret.Type))]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("no discoverer registered for retailer %q (type %q)", ret.ID, ret.Type)
}

// Options are shared by the built-in discoverers.
type Options struct {
	Client  HTTPClient
	// Browser serves page_text sources configured with render: browser.
	Browser Browser
	Now     func() time.Time
	Log     Logger
}

func (o Options) normalize() Options {
	if o.Client == nil {
		o.Client = DefaultHTTPClient()
	}
	if o.Browser == nil {
		o.Browser = DefaultBrowser()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	o.Log = ensureLogger(o.Log)
	return o
}

const (
	defaultHTTPTimeout    = 5 * time.Second
	defaultBrowserTimeout = 30 * time.Second
)

// DefaultHTTPClient returns the resty-backed client used when none is injected.
func DefaultHTTPClient() HTTPClient { return httpclient.NewRestyClient(defaultHTTPTimeout) }

// DefaultBrowser returns the headless Chrome renderer. Chrome is only started on first use.
func DefaultBrowser() Browser { return httpclient.NewChromeBrowser(defaultBrowserTimeout) }

// DefaultRegistry wires the four built-in strategies. Derived retailers resolve their source
// through catalog and the returned registry itself.
func DefaultRegistry(opts Options, catalog *Catalog) *TypeRegistry {
	opts = opts.normalize()

	reg := NewTypeRegistry(
		NewURLDatedDiscoverer(opts),
		NewPageTextDiscoverer(opts),
		NewWeeklyCalendarDiscoverer(opts),
	)
	reg.Register(NewDerivedDiscoverer(CatalogResolver{Catalog: catalog, Registry: reg}, opts))
	return reg
}
