package publishers

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// configFile is the on-disk shape of the publishers file.
type configFile struct {
	Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
}

// ConfigRegistry holds the validated publisher entries of one file, in file order.
// It is read-only after LoadRegistry.
type ConfigRegistry struct {
	entries []PublisherConfig
	byID    map[string]int
}

// LoadRegistry reads a YAML or JSON publishers file. The extension picks the decoder;
// files without one are tried as YAML, then JSON.
func LoadRegistry(path string) (*ConfigRegistry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	file, err := decodeConfigFile(raw, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(file.Publishers) == 0 {
		return nil, fmt.Errorf("%s: no publishers declared", path)
	}

	reg := &ConfigRegistry{
		entries: make([]PublisherConfig, 0, len(file.Publishers)),
		byID:    make(map[string]int, len(file.Publishers)),
	}
	for i, entry := range file.Publishers {
		cfg := entry.normalized()
		if err := cfg.validate(); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, dup := reg.byID[cfg.ID]; dup {
			return nil, fmt.Errorf("publishers[%d]: duplicate id %q", i, cfg.ID)
		}
		reg.byID[cfg.ID] = len(reg.entries)
		reg.entries = append(reg.entries, cfg)
	}
	return reg, nil
}

var configDecoders = map[string]func([]byte, any) error{
	".yaml": yaml.Unmarshal,
	".yml":  yaml.Unmarshal,
	".json": json.Unmarshal,
}

func decodeConfigFile(raw []byte, ext string) (configFile, error) {
	var file configFile
	ext = strings.ToLower(ext)
	if decode, ok := configDecoders[ext]; ok {
		if err := decode(raw, &file); err != nil {
			return configFile{}, fmt.Errorf("decode %s: %w", strings.TrimPrefix(ext, "."), err)
		}
		return file, nil
	}

	if err := yaml.Unmarshal(raw, &file); err == nil {
		return file, nil
	}
	file = configFile{}
	if err := json.Unmarshal(raw, &file); err == nil {
		return file, nil
	}
	return configFile{}, errors.New("format not recognized (expected YAML or JSON)")
}

// ByID looks up one entry.
func (r *ConfigRegistry) ByID(id string) (PublisherConfig, bool) {
	if r == nil {
		return PublisherConfig{}, false
	}
	i, ok := r.byID[strings.TrimSpace(id)]
	if !ok {
		return PublisherConfig{}, false
	}
	return r.entries[i], true
}

// All returns every entry in file order.
func (r *ConfigRegistry) All() []PublisherConfig {
	if r == nil {
		return nil
	}
	return append([]PublisherConfig(nil), r.entries...)
}

// Enabled returns the entries whose enabled flag is unset or true.
func (r *ConfigRegistry) Enabled() []PublisherConfig {
	var out []PublisherConfig
	for _, cfg := range r.All() {
		if cfg.EnabledValue() {
			out = append(out, cfg)
		}
	}
	return out
}
