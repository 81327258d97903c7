package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Adda-Baaj/flyerboard/internal/domain"
	"github.com/Adda-Baaj/flyerboard/internal/logger"
)

// jsonStore keeps each retailer's index in <dir>/index-<id>.json.
type jsonStore struct {
	dir string
	log logger.Logger
}

func newJSONStore(dir string, log logger.Logger) *jsonStore {
	return &jsonStore{dir: dir, log: log}
}

func (s *jsonStore) path(storeID string) string {
	return filepath.Join(s.dir, IndexName(storeID)+".json")
}

func (s *jsonStore) Load(_ context.Context, storeID string) []domain.Flyer {
	if err := validateStoreID(storeID); err != nil {
		s.log.WarnObj("index load skipped", "index_error", map[string]any{
			"store": storeID,
			"error": err.Error(),
		})
		return nil
	}

	path := s.path(storeID)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.DebugObj("no index file yet", "index_file", path)
		} else {
			s.log.ErrorObj("index read failed, starting fresh", "index_error", map[string]any{
				"path":  path,
				"error": err.Error(),
			})
		}
		return nil
	}

	flyers, err := decodeIndex(raw)
	if err != nil {
		s.log.ErrorObj("index file corrupt, starting fresh", "index_error", map[string]any{
			"path":  path,
			"error": err.Error(),
		})
		return nil
	}
	s.log.DebugObj("index loaded", "index_meta", map[string]any{
		"path":  path,
		"count": len(flyers),
	})
	return flyers
}

func (s *jsonStore) Save(ctx context.Context, storeID string, flyers []domain.Flyer) error {
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
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create storage directory: %w", err)
	}
	return WriteFileAtomic(s.path(storeID), data)
}

func (s *jsonStore) Close() error { return nil }

// WriteFileAtomic replaces path with data through a temp file in the same directory.
func WriteFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
