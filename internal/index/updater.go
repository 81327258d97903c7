package index

import (
	"context"
	"fmt"

	"github.com/Adda-Baaj/flyerboard/internal/domain"
	"github.com/Adda-Baaj/flyerboard/internal/logger"
	"github.com/Adda-Baaj/flyerboard/internal/storage"
)

// Updater runs one reconciliation against persisted storage: load, reconcile, save.
type Updater struct {
	store storage.Store
	log   logger.Logger
}

// NewUpdater wires an updater to a store.
func NewUpdater(store storage.Store, log logger.Logger) *Updater {
	return &Updater{store: store, log: logger.Ensure(log)}
}

// Update merges candidates into the persisted index of storeID and rewrites it.
func (u *Updater) Update(ctx context.Context, storeID string, candidates []domain.Flyer) (Outcome, error) {
	if u == nil || u.store == nil {
		return Outcome{}, fmt.Errorf("index updater is not initialized")
	}

	existing := u.store.Load(ctx, storeID)
	out := Reconcile(existing, candidates)

	if err := u.store.Save(ctx, storeID, out.Records); err != nil {
		return out, fmt.Errorf("save index %s: %w", storeID, err)
	}

	u.log.InfoObj("store index updated", "index_update", map[string]any{
		"store":      storeID,
		"previous":   len(existing),
		"candidates": len(candidates),
		"records":    len(out.Records),
		"added":      len(out.Added),
		"superseded": len(out.Superseded),
		"dropped":    len(out.Dropped),
	})
	if len(out.Dropped) > 0 {
		u.log.WarnObj("invalid index records dropped", "index_dropped", map[string]any{
			"store": storeID,
			"urls":  out.Dropped,
		})
	}
	return out, nil
}
