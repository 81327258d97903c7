package retailers

import (
	"context"
	"testing"
	"time"

	"github.com/Adda-Baaj/flyerboard/internal/domain"
)

const aldiListing = `<html><body>
  <a title="ALDI online akciós újság 01. hét" href="/hu/ajanlatok/online_akcios_ujsag_2025_01_02_kw01.html">Heti</a>
  <a title="ALDI online akciós újság 01. hét" href="/hu/ajanlatok/online_akcios_ujsag_2025_01_02_kw01.html">Duplicate</a>
  <a title="ALDI online akciós újság 05. hét" href="https://www.aldi.hu/hu/ajanlatok/online_akcios_ujsag_2025_01_30_kw05.html">Month end</a>
  <a title="ALDI online akciós újság" href="/hu/ajanlatok/online_akcios_ujsag_aktualis.html">No date</a>
  <a title="ALDI online akciós újság" href="/hu/ajanlatok/online_akcios_ujsag_2025_02_31_kw09.html">Bad date</a>
  <a title="Receptek" href="/hu/receptek_2025_01_02_x.html">Other</a>
</body></html>`

const aldiSource = "https://www.aldi.hu/hu/ajanlatok/online-akcios-ujsag.html"

func aldiRetailer() Retailer {
	return Retailer{
		ID:        "aldi",
		Type:      TypeURLDated,
		SourceURL: aldiSource,
		Config: map[string]any{
			ConfigLinkSelectorKey: `a[title^="ALDI online akciós újság"]`,
			ConfigUserAgentKey:    "UA",
		},
	}
}

func TestURLDatedDiscoverExtractsDatesFromLinks(t *testing.T) {
	now := time.Date(2025, time.January, 6, 8, 0, 0, 0, time.UTC)
	client := &mockHTTPClient{
		t:      t,
		expect: map[string]string{"User-Agent": "UA"},
		pages:  map[string]string{aldiSource: aldiListing},
	}

	res := NewURLDatedDiscoverer(testOptions(client, now)).Discover(context.Background(), aldiRetailer())
	if !res.OK() {
		t.Fatalf("unexpected source error: %v", res.Err)
	}
	if len(res.Flyers) != 2 {
		t.Fatalf("expected 2 flyers, got %d: %#v", len(res.Flyers), res.Flyers)
	}

	first := res.Flyers[0]
	if first.URL != "https://www.aldi.hu/hu/ajanlatok/online_akcios_ujsag_2025_01_02_kw01.html" {
		t.Fatalf("unexpected url %s", first.URL)
	}
	if first.ValidFrom != domain.NewDate(2025, time.January, 2) || first.ValidTo != domain.NewDate(2025, time.January, 8) {
		t.Fatalf("unexpected window %s..%s", first.ValidFrom, first.ValidTo)
	}
	if first.Title != "ALDI online akciós újság 01. hét" || !first.LastUpdated.Equal(now) {
		t.Fatalf("unexpected metadata %#v", first)
	}

	if got := res.Flyers[1].ValidTo; got != domain.NewDate(2025, time.February, 5) {
		t.Fatalf("window across month end ends %s", got)
	}
	if len(res.Skipped) != 2 {
		t.Fatalf("expected 2 skipped entries, got %#v", res.Skipped)
	}
}

func TestURLDatedDiscoverFetchFailureIsPartial(t *testing.T) {
	client := &mockHTTPClient{t: t, pages: map[string]string{}}

	res := NewURLDatedDiscoverer(testOptions(client, time.Now())).Discover(context.Background(), aldiRetailer())
	if res.OK() {
		t.Fatalf("expected source error for 404 listing")
	}
	if len(res.Flyers) != 0 {
		t.Fatalf("expected no flyers, got %d", len(res.Flyers))
	}
}

func TestURLDatedDiscoverRejectsBadPattern(t *testing.T) {
	r := aldiRetailer()
	r.Config[ConfigURLDatePatternKey] = `_(\d{4})_`
	client := &mockHTTPClient{t: t, pages: map[string]string{aldiSource: aldiListing}}

	res := NewURLDatedDiscoverer(testOptions(client, time.Now())).Discover(context.Background(), r)
	if res.OK() {
		t.Fatalf("expected config error for pattern with one group")
	}
}
