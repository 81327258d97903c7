package publishers

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Fanout delivers each flyer event to every configured sink concurrently. One failing sink
// never blocks delivery to the others.
type Fanout struct {
	sinks []Publisher
	log   Logger
}

// NewFanout drops nil entries from pubs; a Fanout without sinks publishes nothing.
func NewFanout(pubs []Publisher, log Logger) *Fanout {
	sinks := make([]Publisher, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			sinks = append(sinks, p)
		}
	}
	return &Fanout{sinks: sinks, log: ensureLogger(log)}
}

// Publish reports how many sinks accepted evt. Per-sink failures are joined into the error.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f.Size() == 0 {
		return 0, nil
	}

	failures := make([]error, len(f.sinks))
	var g errgroup.Group
	for i, sink := range f.sinks {
		g.Go(func() error {
			if err := sink.Publish(ctx, evt); err != nil {
				failures[i] = fmt.Errorf("%s/%s: %w", sink.Type(), sink.ID(), err)
			}
			return nil
		})
	}
	_ = g.Wait()

	delivered := 0
	for _, err := range failures {
		if err == nil {
			delivered++
		}
	}
	err := errors.Join(failures...)
	if err != nil {
		f.log.WarnObj("flyer event not delivered everywhere", "flyer_event_delivery", map[string]any{
			"store_id":  evt.StoreID,
			"url":       evt.Flyer.URL,
			"delivered": delivered,
			"sinks":     len(f.sinks),
			"error":     err.Error(),
		})
	}
	return delivered, err
}

// Size is the number of sinks.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.sinks)
}

// Close releases sinks that hold connections.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	return closeAll(f.sinks)
}
