package crawler

import (
	"context"

	"github.com/Adda-Baaj/flyerboard/internal/domain"
	"github.com/Adda-Baaj/flyerboard/internal/index"
	"github.com/Adda-Baaj/flyerboard/pkg/publishers"
)

// IndexUpdater merges candidates into a store's persisted index.
type IndexUpdater interface {
	Update(ctx context.Context, storeID string, candidates []domain.Flyer) (index.Outcome, error)
}

// EventPublisher publishes newly indexed flyers downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}
