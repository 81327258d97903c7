package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Adda-Baaj/flyerboard/internal/domain"
	"github.com/Adda-Baaj/flyerboard/internal/logger"
)

// Store persists one store index (an ordered flyer sequence) per retailer.
type Store interface {
	// Load returns the persisted index for storeID. Missing or malformed data yields an
	// empty sequence; failures are logged, never returned.
	Load(ctx context.Context, storeID string) []domain.Flyer
	// Save rewrites the whole index for storeID.
	Save(ctx context.Context, storeID string, flyers []domain.Flyer) error
	Close() error
}

// Options locates the concrete backends.
type Options struct {
	DataDir   string
	BBoltPath string
}

// NewStore creates the configured storage backend.
func NewStore(typ string, opts Options, log logger.Logger) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	log = logger.Ensure(log)

	switch typ {
	case "none", "disabled":
		return noopStore{}, nil
	case "", "json":
		if strings.TrimSpace(opts.DataDir) == "" {
			return nil, fmt.Errorf("json storage requires a data directory")
		}
		return newJSONStore(opts.DataDir, log), nil
	case "bbolt":
		if strings.TrimSpace(opts.BBoltPath) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(opts.BBoltPath, log)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

// IndexName is the deterministic collection name for a retailer id.
func IndexName(storeID string) string {
	return "index-" + strings.ToLower(strings.TrimSpace(storeID))
}

func validateStoreID(storeID string) error {
	id := strings.TrimSpace(storeID)
	if id == "" {
		return fmt.Errorf("store id is empty")
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return fmt.Errorf("store id %q contains path separators", storeID)
	}
	return nil
}

func encodeIndex(flyers []domain.Flyer) ([]byte, error) {
	if flyers == nil {
		flyers = []domain.Flyer{}
	}
	data, err := json.MarshalIndent(flyers, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode index: %w", err)
	}
	return append(data, '\n'), nil
}

func decodeIndex(data []byte) ([]domain.Flyer, error) {
	var flyers []domain.Flyer
	if err := json.Unmarshal(data, &flyers); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	return flyers, nil
}

type noopStore struct{}

func (noopStore) Load(context.Context, string) []domain.Flyer       { return nil }
func (noopStore) Save(context.Context, string, []domain.Flyer) error { return nil }
func (noopStore) Close() error                                      { return nil }
