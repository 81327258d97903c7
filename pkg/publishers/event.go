package publishers

import (
	"time"

	"github.com/Adda-Baaj/flyerboard/internal/domain"
)

// Event represents a newly indexed flyer published downstream.
type Event struct {
	StoreID      string       `json:"store_id"`
	StoreName    string       `json:"store_name"`
	Flyer        domain.Flyer `json:"flyer"`
	DiscoveredAt time.Time    `json:"discovered_at"`
}

// NewEvent constructs an Event for the given store + flyer.
func NewEvent(storeID, storeName string, flyer domain.Flyer, now time.Time) Event {
	return Event{
		StoreID:      storeID,
		StoreName:    storeName,
		Flyer:        flyer,
		DiscoveredAt: now.UTC(),
	}
}

// attributes are the routing attributes attached to queue and topic messages.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"store_id":   e.StoreID,
		"valid_from": e.Flyer.ValidFrom.String(),
	}
}
