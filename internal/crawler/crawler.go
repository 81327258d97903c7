package crawler

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/Adda-Baaj/flyerboard/internal/domain"
	"github.com/Adda-Baaj/flyerboard/internal/index"
	"github.com/Adda-Baaj/flyerboard/internal/logger"
	"github.com/Adda-Baaj/flyerboard/pkg/publishers"
	"github.com/Adda-Baaj/flyerboard/pkg/retailers"
)

// Service runs discovery and reconciliation for each retailer in turn.
type Service struct {
	registry  retailers.Registry
	updater   IndexUpdater
	publisher EventPublisher
	log       logger.Logger
	now       func() time.Time
}

// Report summarizes one retailer's pass.
type Report struct {
	RetailerID string
	Discovered int
	Skipped    []retailers.Skip
	Outcome    index.Outcome
	Published  int
	Err        error
}

// NewService wires a crawler with the discoverer registry and index updater.
// publisher may be nil when notifications are disabled.
func NewService(reg retailers.Registry, updater IndexUpdater, publisher EventPublisher, log logger.Logger) *Service {
	return &Service{
		registry:  reg,
		updater:   updater,
		publisher: publisher,
		log:       logger.Ensure(log),
		now:       time.Now,
	}
}

// Run executes a pass over every retailer. A failing retailer never stops the others;
// their errors are joined into the returned error.
func (s *Service) Run(ctx context.Context, rs []retailers.Retailer) ([]Report, error) {
	if s == nil || s.registry == nil || s.updater == nil {
		return nil, fmt.Errorf("crawler service is not initialized")
	}

	if len(rs) == 0 {
		return nil, fmt.Errorf("no retailers configured for crawling")
	}

	reports := s.runAll(ctx, rs)
	var errs []error
	for _, rep := range reports {
		if rep.Err != nil {
			errs = append(errs, rep.Err)
		}
	}
	return reports, errors.Join(errs...)
}

func (s *Service) runAll(ctx context.Context, rs []retailers.Retailer) []Report {
	reports := make([]Report, 0, len(rs))

	for _, r := range rs {
		if ctx.Err() != nil {
			s.log.WarnObj("crawl cancelled", "crawl_cancelled", map[string]any{
				"remaining": len(rs) - len(reports),
			})
			break
		}

		rep := s.runRetailer(ctx, r)
		if rep.Err != nil {
			s.log.ErrorObj("retailer crawl failed", "retailer_error", map[string]any{
				"retailer_id": r.ID,
				"error":       rep.Err.Error(),
			})
		}
		reports = append(reports, rep)
	}

	return reports
}

// runRetailer isolates one retailer, turning a panic into an error.
func (s *Service) runRetailer(ctx context.Context, r retailers.Retailer) (rep Report) {
	rep.RetailerID = r.ID
	defer func() {
		if p := recover(); p != nil {
			s.log.ErrorObj("retailer crawl panicked", "retailer_panic", map[string]any{
				"retailer_id": r.ID,
				"panic":       fmt.Sprint(p),
				"stack":       string(debug.Stack()),
			})
			rep.Err = fmt.Errorf("retailer %s: panic: %v", r.ID, p)
		}
	}()

	res, err := s.Discover(ctx, r)
	if err != nil {
		rep.Err = err
		return rep
	}
	rep.Discovered = len(res.Flyers)
	rep.Skipped = res.Skipped

	// An empty or partial discovery still reconciles so invalid rows are cleaned up.
	out, err := s.updater.Update(ctx, r.ID, res.Flyers)
	if err != nil {
		rep.Err = errors.Join(res.Err, fmt.Errorf("update index %s: %w", r.ID, err))
		return rep
	}
	rep.Outcome = out
	rep.Published = s.publishAdded(ctx, r, res.Flyers, out.Added)

	// Discovery errors already carry the retailer id.
	rep.Err = res.Err

	s.log.InfoObj("retailer crawl completed", "retailer_result", map[string]any{
		"retailer_id": r.ID,
		"discovered":  rep.Discovered,
		"skipped":     len(rep.Skipped),
		"records":     len(out.Records),
		"added":       len(out.Added),
		"published":   rep.Published,
	})
	return rep
}

// Discover resolves the retailer's strategy and runs it without touching the index.
func (s *Service) Discover(ctx context.Context, r retailers.Retailer) (retailers.Result, error) {
	d, err := s.registry.DiscovererFor(r)
	if err != nil {
		return retailers.Result{}, fmt.Errorf("resolve discoverer for retailer %s: %w", r.ID, err)
	}
	return d.Discover(ctx, r), nil
}

// publishAdded emits one event per newly indexed URL and returns how many were delivered.
func (s *Service) publishAdded(ctx context.Context, r retailers.Retailer, candidates []domain.Flyer, added []string) int {
	if s.publisher == nil || len(added) == 0 {
		return 0
	}

	byURL := make(map[string]domain.Flyer, len(candidates))
	for _, f := range candidates {
		byURL[f.URL] = f
	}

	now := s.now()
	delivered := 0
	for _, url := range added {
		flyer, ok := byURL[url]
		if !ok {
			continue
		}
		n, err := s.publisher.Publish(ctx, publishers.NewEvent(r.ID, r.Name, flyer, now))
		if err != nil {
			s.log.WarnObj("flyer event publish failed", "publish_error", map[string]any{
				"retailer_id": r.ID,
				"url":         url,
				"error":       err.Error(),
			})
		}
		if n > 0 {
			delivered++
		}
	}
	return delivered
}
