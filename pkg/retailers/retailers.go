// Package retailers holds the retailer catalog (YAML/JSON) and the discovery strategies.
package retailers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Retailer is one chain whose flyers are discovered and indexed.
type Retailer struct {
	ID        string         `json:"id" yaml:"id"`
	Name      string         `json:"name" yaml:"name"`
	Type      string         `json:"type" yaml:"type"`
	SourceURL string         `json:"source_url" yaml:"source_url"`
	Logo      string         `json:"logo" yaml:"logo"`
	Enabled   *bool          `json:"enabled" yaml:"enabled"`
	Config    map[string]any `json:"config" yaml:"config"`
}

type catalogFile struct {
	Retailers []Retailer `json:"retailers" yaml:"retailers"`
}

var retailerIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Catalog is the ordered set of configured retailers.
type Catalog struct {
	retailers []Retailer
	idx       map[string]Retailer
}

// LoadCatalog loads the retailer catalog from a YAML/JSON file.
func LoadCatalog(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("retailers file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open retailers file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read retailers file: %w", err)
	}

	parsed, err := parseCatalog(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return NewCatalog(parsed.Retailers...)
}

// NewCatalog sanitizes and validates the given retailers, preserving their order.
func NewCatalog(retailers ...Retailer) (*Catalog, error) {
	if len(retailers) == 0 {
		return nil, errors.New("retailers file contains no retailers entries")
	}

	c := &Catalog{
		retailers: make([]Retailer, len(retailers)),
		idx:       make(map[string]Retailer, len(retailers)),
	}
	for i := range retailers {
		r := sanitizeRetailer(retailers[i])
		if err := validateRetailer(r); err != nil {
			return nil, fmt.Errorf("retailers[%d]: %w", i, err)
		}
		if _, exists := c.idx[r.ID]; exists {
			return nil, fmt.Errorf("duplicate retailer id %q", r.ID)
		}
		c.retailers[i] = r
		c.idx[r.ID] = r
	}
	return c, nil
}

func parseCatalog(data []byte, ext string) (catalogFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var parsed catalogFile
		if err := d.fn(data, &parsed); err == nil {
			return parsed, nil
		}
	}

	return catalogFile{}, errors.New("retailers file format not recognized (expected YAML or JSON)")
}

func sanitizeRetailer(r Retailer) Retailer {
	r.ID = strings.ToLower(strings.TrimSpace(r.ID))
	r.Name = strings.TrimSpace(r.Name)
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.SourceURL = strings.TrimSpace(r.SourceURL)
	r.Logo = strings.TrimSpace(r.Logo)

	if r.Name == "" {
		r.Name = strings.ToUpper(r.ID)
	}
	if r.Logo == "" && r.Name != "" {
		r.Logo = "images/" + r.Name + ".png"
	}
	if r.Enabled == nil {
		def := true
		r.Enabled = &def
	}
	if r.Config == nil {
		r.Config = map[string]any{}
	}
	return r
}

func validateRetailer(r Retailer) error {
	if r.ID == "" {
		return errors.New("id is required")
	}
	if !retailerIDPattern.MatchString(r.ID) {
		return fmt.Errorf("id %q must contain only lowercase letters, digits, '-' or '_'", r.ID)
	}
	switch r.Type {
	case "":
		return fmt.Errorf("type is required for retailer %q", r.ID)
	case TypeURLDated, TypePageText:
		if r.SourceURL == "" {
			return fmt.Errorf("source_url is required for %s retailer %q", r.Type, r.ID)
		}
	case TypeWeeklyCalendar:
		if ConfigString(r, ConfigURLTemplateKey, "") == "" {
			return fmt.Errorf("config.%s is required for retailer %q", ConfigURLTemplateKey, r.ID)
		}
	case TypeDerived:
		src := strings.ToLower(ConfigString(r, ConfigSourceKey, ""))
		if src == "" {
			return fmt.Errorf("config.%s is required for retailer %q", ConfigSourceKey, r.ID)
		}
		if src == r.ID {
			return fmt.Errorf("retailer %q cannot derive from itself", r.ID)
		}
		if ConfigString(r, ConfigURLTemplateKey, "") == "" {
			return fmt.Errorf("config.%s is required for retailer %q", ConfigURLTemplateKey, r.ID)
		}
	}
	return nil
}

// EnabledValue returns the enabled flag defaulting to true.
func (r Retailer) EnabledValue() bool {
	if r.Enabled == nil {
		return true
	}
	return *r.Enabled
}

// ByID returns the retailer with the given (case-insensitive) id.
func (c *Catalog) ByID(id string) (Retailer, bool) {
	if c == nil {
		return Retailer{}, false
	}
	r, ok := c.idx[strings.ToLower(strings.TrimSpace(id))]
	return r, ok
}

// All returns every configured retailer in file order.
func (c *Catalog) All() []Retailer {
	if c == nil {
		return nil
	}
	out := make([]Retailer, len(c.retailers))
	copy(out, c.retailers)
	return out
}

// Enabled returns the enabled retailers in file order.
func (c *Catalog) Enabled() []Retailer {
	all := c.All()
	out := make([]Retailer, 0, len(all))
	for _, r := range all {
		if r.EnabledValue() {
			out = append(out, r)
		}
	}
	return out
}
