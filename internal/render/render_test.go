package render

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adda-Baaj/flyerboard/internal/domain"
	"github.com/Adda-Baaj/flyerboard/pkg/retailers"
)

type mapReader map[string][]domain.Flyer

func (m mapReader) Load(_ context.Context, id string) []domain.Flyer { return m[id] }

func flyer(url string, from domain.Date, days int) domain.Flyer {
	return domain.Flyer{URL: url, ValidFrom: from, ValidTo: from.AddDays(days - 1)}
}

func testRenderer(reader IndexReader, out string) *Renderer {
	r := NewRenderer(reader, out, nil)
	r.now = func() time.Time { return time.Date(2025, time.January, 3, 10, 30, 0, 0, time.UTC) }
	return r
}

func TestDateRange(t *testing.T) {
	assert.Equal(t, "2025 01-02 → 01-08", DateRange(domain.NewDate(2025, 1, 2), domain.NewDate(2025, 1, 8)))
	assert.Equal(t, "2024 12-29 → 2025 01-04", DateRange(domain.NewDate(2024, 12, 29), domain.NewDate(2025, 1, 4)))
}

func TestBuildMergesStoresNewestFirst(t *testing.T) {
	jan2 := domain.NewDate(2025, time.January, 2)
	reader := mapReader{
		"aldi": {flyer("aldi-old", jan2.AddDays(-7), 7), flyer("aldi-new", jan2, 7)},
		"lidl": {flyer("lidl-new", jan2, 7), {URL: "broken", ValidFrom: jan2}},
	}
	rs := []retailers.Retailer{
		{ID: "aldi", Name: "ALDI", Logo: "images/ALDI.png"},
		{ID: "lidl", Name: "LIDL", Logo: "images/LIDL.png"},
	}

	page := testRenderer(reader, "").Build(context.Background(), rs)

	require.Len(t, page.Rows, 3)
	assert.Equal(t, "aldi-new", page.Rows[0].URL)
	assert.Equal(t, "lidl-new", page.Rows[1].URL)
	assert.Equal(t, "aldi-old", page.Rows[2].URL)
	assert.True(t, page.Rows[0].IsActive)
	assert.False(t, page.Rows[2].IsActive)
	assert.Equal(t, "ALDI", page.Rows[0].Store)
	assert.Equal(t, "images/ALDI.png", page.Rows[0].Logo)
	assert.Equal(t, "2025-01-03 10:30:00", page.LastUpdated)
}

func TestWriteEscapesAndStylesRows(t *testing.T) {
	page := Page{
		Rows: []Row{
			{Store: "ALDI", Logo: "images/ALDI.png", URL: "https://example.com/a?x=1&y=2", DateRange: "2025 01-02 → 01-08", IsActive: true},
			{Store: "<b>LIDL</b>", URL: "https://example.com/l", DateRange: "2024 12-26 → 01-01"},
		},
		LastUpdated: "2025-01-03 10:30:00",
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, page))
	html := buf.String()

	assert.Contains(t, html, `href="https://example.com/a?x=1&amp;y=2"`)
	assert.Contains(t, html, "&lt;b&gt;LIDL&lt;/b&gt;")
	assert.Equal(t, 1, strings.Count(html, "hover:bg-green-50"))
	assert.Contains(t, html, "Last updated: 2025-01-03 10:30:00")
}

func TestRenderWritesOutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "site", "index.html")
	reader := mapReader{"aldi": {flyer("https://example.com/a.pdf", domain.NewDate(2025, 1, 2), 7)}}

	err := testRenderer(reader, out).Render(context.Background(), []retailers.Retailer{{ID: "aldi", Name: "ALDI"}})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "https://example.com/a.pdf")
	assert.Contains(t, string(data), "2025 01-02 → 01-08")
}

func TestRenderEmptyIndexes(t *testing.T) {
	out := filepath.Join(t.TempDir(), "index.html")
	err := testRenderer(mapReader{}, out).Render(context.Background(), []retailers.Retailer{{ID: "spar", Name: "SPAR"}})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "View")
}
