package retailers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCatalogYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "retailers.yaml")
	content := `
retailers:
  - id: ALDI
    type: url_dated
    source_url: https://www.aldi.hu/hu/ajanlatok/online-akcios-ujsag.html
    config:
      validity_days: 7
  - id: lidl
    name: Lidl
    type: weekly_calendar
    enabled: false
    config:
      url_template: https://www.lidl.hu/l/hu/ujsag/akcios-ujsag-{week}-het-{year}/ar/0
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write retailers file: %v", err)
	}

	catalog, err := LoadCatalog(file)
	if err != nil {
		t.Fatalf("LoadCatalog returned error: %v", err)
	}

	all := catalog.All()
	if len(all) != 2 || all[0].ID != "aldi" || all[1].ID != "lidl" {
		t.Fatalf("unexpected catalog order %#v", all)
	}
	if all[0].Name != "ALDI" || all[0].Logo != "images/ALDI.png" {
		t.Fatalf("unexpected defaults %#v", all[0])
	}
	if enabled := catalog.Enabled(); len(enabled) != 1 || enabled[0].ID != "aldi" {
		t.Fatalf("expected only aldi enabled, got %#v", enabled)
	}
	if _, ok := catalog.ByID("LIDL"); !ok {
		t.Fatalf("expected case-insensitive lookup")
	}
	if days, err := ConfigInt(all[0], ConfigValidityDaysKey, 0); err != nil || days != 7 {
		t.Fatalf("validity_days = %d, %v", days, err)
	}
}

func TestLoadCatalogJSON(t *testing.T) {
	file := filepath.Join(t.TempDir(), "retailers.json")
	content := `{"retailers":[{"id":"spar","type":"page_text","source_url":"https://www.spar.hu/ajanlatok","config":{"validity_days":6}}]}`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write retailers file: %v", err)
	}

	catalog, err := LoadCatalog(file)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	spar, _ := catalog.ByID("spar")
	if days, err := validityDays(spar); err != nil || days != 6 {
		t.Fatalf("validity days from JSON number = %d, %v", days, err)
	}
}

func TestNewCatalogValidation(t *testing.T) {
	cases := map[string][]Retailer{
		"duplicate": {
			{ID: "aldi", Type: TypeURLDated, SourceURL: "https://a"},
			{ID: "ALDI", Type: TypeURLDated, SourceURL: "https://b"},
		},
		"bad id":         {{ID: "al/di", Type: TypeURLDated, SourceURL: "https://a"}},
		"missing type":   {{ID: "aldi", SourceURL: "https://a"}},
		"missing source": {{ID: "aldi", Type: TypePageText}},
		"no template":    {{ID: "lidl", Type: TypeWeeklyCalendar}},
		"self derived": {{ID: "tesco", Type: TypeDerived, Config: map[string]any{
			ConfigSourceKey: "tesco", ConfigURLTemplateKey: "https://t/{date}",
		}}},
		"empty": nil,
	}
	for name, retailers := range cases {
		if _, err := NewCatalog(retailers...); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestHeadersSkipsEmptyValues(t *testing.T) {
	headers := Headers(Retailer{Config: map[string]any{
		ConfigUserAgentKey: "UA",
		ConfigAcceptKey:    "  ",
	}})
	if len(headers) != 1 || headers["User-Agent"] != "UA" {
		t.Fatalf("unexpected headers %#v", headers)
	}
}

func TestConfigIntRejectsGarbage(t *testing.T) {
	r := Retailer{Config: map[string]any{"n": "seven", "f": 1.5, "s": " 3 "}}
	if _, err := ConfigInt(r, "n", 0); err == nil {
		t.Fatalf("expected error for non-numeric string")
	}
	if _, err := ConfigInt(r, "f", 0); err == nil {
		t.Fatalf("expected error for fractional number")
	}
	if n, err := ConfigInt(r, "s", 0); err != nil || n != 3 {
		t.Fatalf("ConfigInt(s) = %d, %v", n, err)
	}
	if n, _ := ConfigInt(r, "missing", 9); n != 9 {
		t.Fatalf("expected fallback, got %d", n)
	}
}

func TestRegistryResolvesByType(t *testing.T) {
	reg := DefaultRegistry(Options{Client: &mockHTTPClient{t: t}}, nil)
	for _, typ := range []string{TypeURLDated, TypePageText, TypeWeeklyCalendar, TypeDerived} {
		d, err := reg.DiscovererFor(Retailer{ID: "x", Type: strings.ToUpper(typ)})
		if err != nil {
			t.Fatalf("DiscovererFor(%s): %v", typ, err)
		}
		if d.Type() != typ {
			t.Fatalf("got %s for %s", d.Type(), typ)
		}
	}
	if _, err := reg.DiscovererFor(Retailer{ID: "x", Type: "selenium"}); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}
