package retailers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/flyerboard/internal/domain"
)

// Resolver looks up another retailer and its discoverer by id.
type Resolver interface {
	Resolve(id string) (Retailer, Discoverer, error)
}

// CatalogResolver resolves retailers from a catalog and discoverers from a registry.
type CatalogResolver struct {
	Catalog  *Catalog
	Registry Registry
}

func (cr CatalogResolver) Resolve(id string) (Retailer, Discoverer, error) {
	r, ok := cr.Catalog.ByID(id)
	if !ok {
		return Retailer{}, nil, fmt.Errorf("unknown retailer %q", id)
	}
	if cr.Registry == nil {
		return Retailer{}, nil, errors.New("discoverer registry is nil")
	}
	d, err := cr.Registry.DiscovererFor(r)
	if err != nil {
		return Retailer{}, nil, err
	}
	return r, d, nil
}

// derivedDiscoverer borrows the validity windows another retailer's strategy finds and
// builds this retailer's own URLs from them.
type derivedDiscoverer struct {
	resolver Resolver
	now      func() time.Time
	log      Logger
}

// NewDerivedDiscoverer builds the derived strategy.
func NewDerivedDiscoverer(resolver Resolver, opts Options) Discoverer {
	opts = opts.normalize()
	return &derivedDiscoverer{resolver: resolver, now: opts.Now, log: opts.Log}
}

func (d *derivedDiscoverer) Type() string { return TypeDerived }

func (d *derivedDiscoverer) Discover(ctx context.Context, r Retailer) Result {
	now := d.now()
	c := newCollector(r, now, d.log)

	urlTpl := ConfigString(r, ConfigURLTemplateKey, "")
	imageTpl := ConfigString(r, ConfigImageTemplateKey, "")
	sourceID := strings.ToLower(ConfigString(r, ConfigSourceKey, ""))
	if urlTpl == "" || sourceID == "" {
		c.fail(fmt.Errorf("config.%s and config.%s are required", ConfigSourceKey, ConfigURLTemplateKey))
		return c.result()
	}
	if d.resolver == nil {
		c.fail(errors.New("no retailer resolver configured"))
		return c.result()
	}

	source, strategy, err := d.resolver.Resolve(sourceID)
	if err != nil {
		c.fail(fmt.Errorf("resolve source: %w", err))
		return c.result()
	}
	if source.ID == r.ID || strategy.Type() == TypeDerived {
		c.fail(fmt.Errorf("source %q must not itself be derived", source.ID))
		return c.result()
	}

	borrowed := strategy.Discover(ctx, source)
	if borrowed.Err != nil {
		c.fail(fmt.Errorf("source %s: %w", source.ID, borrowed.Err))
	}
	if len(borrowed.Flyers) == 0 {
		if borrowed.Err == nil {
			c.fail(fmt.Errorf("source %s produced no validity windows", source.ID))
		}
		return c.result()
	}

	for _, src := range borrowed.Flyers {
		flyer := domain.NewFlyer(expandTemplate(urlTpl, src.ValidFrom), src.ValidFrom, src.ValidTo, now)
		if imageTpl != "" {
			flyer.ImageURL = expandTemplate(imageTpl, src.ValidFrom)
		}
		c.add(flyer)
	}

	return c.result()
}
