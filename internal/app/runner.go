package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/flyerboard/internal/config"
	"github.com/Adda-Baaj/flyerboard/internal/crawler"
	"github.com/Adda-Baaj/flyerboard/internal/index"
	"github.com/Adda-Baaj/flyerboard/internal/logger"
	"github.com/Adda-Baaj/flyerboard/internal/render"
	"github.com/Adda-Baaj/flyerboard/internal/storage"
	"github.com/Adda-Baaj/flyerboard/pkg/httpclient"
	"github.com/Adda-Baaj/flyerboard/pkg/publishers"
	"github.com/Adda-Baaj/flyerboard/pkg/retailers"
)

// Runner is the flyerboard runtime. It coordinates discovery, reconciliation and rendering
// across the retailer catalog and owns the storage and publisher connections.
type Runner struct {
	cfg         *config.Config
	catalog     *retailers.Catalog
	fanout      *publishers.Fanout
	crawl       *crawler.Service
	renderer    *render.Renderer
	store       storage.Store
	runInterval time.Duration
	log         logger.Logger
}

// NewRunner builds a runner from config files.
func NewRunner(ctx context.Context, cfg *config.Config, log logger.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	catalog, err := retailers.LoadCatalog(cfg.RetailersFile)
	if err != nil {
		return nil, fmt.Errorf("load retailer catalog: %w", err)
	}
	ids := make([]string, 0, len(catalog.All()))
	for _, r := range catalog.All() {
		ids = append(ids, r.ID)
	}
	log.InfoObj("retailer catalog loaded", "retailers_meta", map[string]any{
		"count":   len(ids),
		"ids":     ids,
		"enabled": len(catalog.Enabled()),
	})

	registry := retailers.DefaultRegistry(retailers.Options{
		Client:  httpclient.NewRestyClient(cfg.HTTPTimeout),
		Browser: httpclient.NewChromeBrowser(cfg.BrowserTimeout),
		Log:     log,
	}, catalog)

	fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStore(cfg.StorageType, storage.Options{
		DataDir:   cfg.DataDir,
		BBoltPath: cfg.BBoltPath,
	}, log)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("init storage: %w", err), fanout.Close())
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":     cfg.StorageType,
		"data_dir": cfg.DataDir,
		"path":     cfg.BBoltPath,
	})

	// A nil *Fanout must not reach the crawler as a non-nil interface.
	var events crawler.EventPublisher
	if fanout.Size() > 0 {
		events = fanout
	}

	return &Runner{
		cfg:         cfg,
		catalog:     catalog,
		fanout:      fanout,
		crawl:       crawler.NewService(registry, index.NewUpdater(store, log), events, log),
		renderer:    render.NewRenderer(store, cfg.OutputFile, log),
		store:       store,
		runInterval: cfg.RunInterval,
		log:         log,
	}, nil
}

// buildFanout loads the optional publishers file. No file means no notifications.
func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(path) == "" {
		log.InfoObj("no publishers file configured; notifications disabled", "publishers_meta", nil)
		return publishers.NewFanout(nil, log), nil
	}

	publisherReg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabled := publisherReg.Enabled()
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients, log), nil
}

// RunOnce discovers and reconciles every enabled retailer, then renders the page.
// Retailer failures are logged; only a render failure is returned.
func (r *Runner) RunOnce(ctx context.Context) error {
	if r == nil || r.crawl == nil {
		return fmt.Errorf("runner is not initialized")
	}

	enabled := r.catalog.Enabled()
	start := time.Now()
	r.log.InfoObj("run started", "run_meta", map[string]any{
		"retailers_count": len(enabled),
		"started_at":      start.UTC(),
	})

	if len(enabled) == 0 {
		r.log.WarnObj("no retailers enabled; rendering existing indexes", "retailers_file", r.cfg.RetailersFile)
	} else {
		reports, err := r.crawl.Run(ctx, enabled)
		if err != nil {
			r.log.ErrorObj("run finished with retailer errors", "run_errors", map[string]any{
				"failed": countFailed(reports),
				"error":  err.Error(),
			})
		}
	}

	if err := r.renderer.Render(ctx, enabled); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	r.log.InfoObj("run completed", "run_meta", map[string]any{
		"retailers_count": len(enabled),
		"elapsed_ms":      time.Since(start).Milliseconds(),
	})
	return nil
}

// Watch runs immediately and then on every interval until the context is cancelled.
func (r *Runner) Watch(ctx context.Context) error {
	if r == nil || r.crawl == nil {
		return fmt.Errorf("runner is not initialized")
	}

	r.log.InfoObj("watch loop starting", "watch_state", map[string]any{
		"retailers_count":  len(r.catalog.Enabled()),
		"publishers_count": r.fanout.Size(),
		"run_interval":     r.runInterval.String(),
	})

	if err := r.RunOnce(ctx); err != nil {
		r.log.ErrorObj("initial run failed", "error", err.Error())
	}

	ticker := time.NewTicker(r.runInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.InfoObj("watch loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := r.RunOnce(ctx); err != nil {
				r.log.ErrorObj("scheduled run failed", "error", err.Error())
			}
		}
	}
}

// Render rewrites the page from the persisted indexes without discovery.
func (r *Runner) Render(ctx context.Context) error {
	if r == nil || r.renderer == nil {
		return fmt.Errorf("runner is not initialized")
	}
	return r.renderer.Render(ctx, r.catalog.Enabled())
}

// Discover runs one retailer's strategy without touching its index.
func (r *Runner) Discover(ctx context.Context, retailerID string) (retailers.Result, error) {
	if r == nil || r.crawl == nil {
		return retailers.Result{}, fmt.Errorf("runner is not initialized")
	}
	ret, ok := r.catalog.ByID(retailerID)
	if !ok {
		return retailers.Result{}, fmt.Errorf("unknown retailer %q", retailerID)
	}
	return r.crawl.Discover(ctx, ret)
}

// Close releases publishers and the storage backend.
func (r *Runner) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	if err := r.fanout.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publishers: %w", err))
	}
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}
	return errors.Join(errs...)
}

func countFailed(reports []crawler.Report) int {
	n := 0
	for _, rep := range reports {
		if rep.Err != nil {
			n++
		}
	}
	return n
}
