package publishers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Adda-Baaj/flyerboard/pkg/httpclient"
)

const (
	headerEventType   = "X-Flyerboard-Event"
	headerDeliveryKey = "Idempotency-Key"
	eventTypeAdded    = "flyer.added"

	maxErrorBodyBytes = 512
)

// webhookPublisher posts each flyer event as JSON to a configured endpoint. Every request
// carries a delivery key derived from store and flyer URL so receivers can drop repeats.
type webhookPublisher struct {
	id       string
	endpoint HTTPPublisherConfig
	client   *resty.Client
	log      Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}
	return &webhookPublisher{
		id:       cfg.ID,
		endpoint: *cfg.HTTP,
		client:   httpclient.NewRestyHTTPClient(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second),
		log:      ensureLogger(log),
	}, nil
}

func (w *webhookPublisher) ID() string   { return w.id }
func (w *webhookPublisher) Type() string { return TypeHTTP }

func (w *webhookPublisher) Publish(ctx context.Context, evt Event) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetHeaders(w.endpoint.Headers).
		SetHeader("Content-Type", "application/json").
		SetHeader(headerEventType, eventTypeAdded).
		SetHeader(headerDeliveryKey, deliveryKey(evt)).
		SetBody(evt).
		Execute(w.endpoint.Method, w.endpoint.URL)
	if err != nil {
		return fmt.Errorf("deliver to %s: %w", w.endpoint.URL, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("%s answered %d: %s", w.endpoint.URL, resp.StatusCode(), errorBody(resp.Body()))
	}

	w.log.DebugObj("flyer webhook delivered", "publisher_http_delivery", map[string]any{
		"publisher_id": w.id,
		"store_id":     evt.StoreID,
		"url":          evt.Flyer.URL,
		"status":       resp.StatusCode(),
	})
	return nil
}

// deliveryKey is stable for a store and flyer URL.
func deliveryKey(evt Event) string {
	sum := sha256.Sum256([]byte(evt.StoreID + "\n" + evt.Flyer.URL))
	return evt.StoreID + "-" + hex.EncodeToString(sum[:8])
}

func errorBody(body []byte) string {
	if len(body) > maxErrorBodyBytes {
		body = body[:maxErrorBodyBytes]
	}
	if s := strings.TrimSpace(string(body)); s != "" {
		return s
	}
	return "<empty body>"
}
