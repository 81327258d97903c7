package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/Adda-Baaj/flyerboard/internal/domain"
	"github.com/Adda-Baaj/flyerboard/internal/logger"
	"github.com/Adda-Baaj/flyerboard/internal/storage"
	"github.com/Adda-Baaj/flyerboard/pkg/retailers"
)

const lastUpdatedLayout = "2006-01-02 15:04:05"

// IndexReader loads a persisted store index.
type IndexReader interface {
	Load(ctx context.Context, storeID string) []domain.Flyer
}

// Row is one flyer as shown on the page.
type Row struct {
	Store     string
	Logo      string
	URL       string
	Title     string
	DateRange string
	IsActive  bool
	ValidFrom domain.Date
}

// Page is the data behind the rendered HTML.
type Page struct {
	Rows        []Row
	LastUpdated string
}

// Renderer builds the combined flyer page from every store index.
type Renderer struct {
	reader IndexReader
	output string
	now    func() time.Time
	log    logger.Logger
}

// NewRenderer writes to output, reading indexes through reader.
func NewRenderer(reader IndexReader, output string, log logger.Logger) *Renderer {
	return &Renderer{
		reader: reader,
		output: output,
		now:    time.Now,
		log:    logger.Ensure(log),
	}
}

// Build collects and decorates the rows of every retailer, newest valid_from first.
// Retailers keep catalog order among rows starting on the same day.
func (r *Renderer) Build(ctx context.Context, rs []retailers.Retailer) Page {
	now := r.now()
	today := domain.DateOf(now)

	var rows []Row
	for _, ret := range rs {
		for _, f := range r.reader.Load(ctx, ret.ID) {
			if !f.HasValidity() {
				r.log.DebugObj("skipping flyer without validity", "render_skip", map[string]any{
					"retailer_id": ret.ID,
					"url":         f.URL,
				})
				continue
			}
			rows = append(rows, Row{
				Store:     ret.Name,
				Logo:      ret.Logo,
				URL:       f.URL,
				Title:     f.Title,
				DateRange: DateRange(f.ValidFrom, f.ValidTo),
				IsActive:  f.ActiveOn(today),
				ValidFrom: f.ValidFrom,
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ValidFrom.After(rows[j].ValidFrom)
	})

	return Page{Rows: rows, LastUpdated: now.Format(lastUpdatedLayout)}
}

// Render builds the page and atomically replaces the output file.
func (r *Renderer) Render(ctx context.Context, rs []retailers.Retailer) error {
	if r == nil || r.reader == nil {
		return fmt.Errorf("renderer is not initialized")
	}

	page := r.Build(ctx, rs)

	var buf bytes.Buffer
	if err := Write(&buf, page); err != nil {
		return err
	}
	if dir := filepath.Dir(r.output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := storage.WriteFileAtomic(r.output, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", r.output, err)
	}

	r.log.InfoObj("page rendered", "render_result", map[string]any{
		"output": r.output,
		"rows":   len(page.Rows),
	})
	return nil
}

// Write executes the page template.
func Write(w io.Writer, page Page) error {
	if err := pageTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// DateRange labels a validity window, repeating the year only when it changes.
func DateRange(from, to domain.Date) string {
	if from.Year() == to.Year() {
		return fmt.Sprintf("%d %02d-%02d → %02d-%02d", from.Year(), from.Month(), from.Day(), to.Month(), to.Day())
	}
	return fmt.Sprintf("%d %02d-%02d → %d %02d-%02d", from.Year(), from.Month(), from.Day(), to.Year(), to.Month(), to.Day())
}
