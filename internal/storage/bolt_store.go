package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Adda-Baaj/flyerboard/internal/domain"
	"github.com/Adda-Baaj/flyerboard/internal/logger"
	bolt "go.etcd.io/bbolt"
)

const recordsKey = "records"

// boltStore keeps each retailer's index in its own bucket, under a single key.
type boltStore struct {
	db  *bolt.DB
	log logger.Logger
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, log logger.Logger) (*boltStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	return &boltStore{db: db, log: logger.Ensure(log)}, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *boltStore) Load(_ context.Context, storeID string) []domain.Flyer {
	if b == nil || b.db == nil {
		return nil
	}
	if err := validateStoreID(storeID); err != nil {
		b.log.WarnObj("index load skipped", "index_error", map[string]any{
			"store": storeID,
			"error": err.Error(),
		})
		return nil
	}

	var raw []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(IndexName(storeID)))
		if bucket == nil {
			return nil
		}
		if v := bucket.Get([]byte(recordsKey)); v != nil {
			// values are only valid for the life of the transaction
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		b.log.ErrorObj("index read failed, starting fresh", "index_error", map[string]any{
			"store": storeID,
			"error": err.Error(),
		})
		return nil
	}
	if raw == nil {
		b.log.DebugObj("no index bucket yet", "index_bucket", IndexName(storeID))
		return nil
	}

	flyers, err := decodeIndex(raw)
	if err != nil {
		b.log.ErrorObj("index bucket corrupt, starting fresh", "index_error", map[string]any{
			"store": storeID,
			"error": err.Error(),
		})
		return nil
	}
	return flyers
}

func (b *boltStore) Save(ctx context.Context, storeID string, flyers []domain.Flyer) error {
	if b == nil || b.db == nil {
		return fmt.Errorf("bbolt store is closed")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateStoreID(storeID); err != nil {
		return err
	}

	data, err := encodeIndex(flyers)
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(IndexName(storeID)))
		if err != nil {
			return fmt.Errorf("init bucket: %w", err)
		}
		return bucket.Put([]byte(recordsKey), data)
	})
}
