package retailers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Adda-Baaj/flyerboard/internal/domain"
	"github.com/PuerkitoBio/goquery"
)

const maxHTMLBodyBytes = 4 << 20 // 4 MiB

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

// fetchDocument downloads pageURL and parses it as HTML.
func fetchDocument(ctx context.Context, client HTTPClient, pageURL string, headers map[string]string) (*goquery.Document, error) {
	resp, err := client.Get(ctx, pageURL, headers)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}

	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d body: %s", pageURL, resp.StatusCode(), responseSnippet(body))
	}
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	return parseDocument(bytes.NewReader(body))
}

func parseDocument(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// resolveURL makes ref absolute against base. Empty refs stay empty.
func resolveURL(ref, base string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	baseURL, err := url.Parse(strings.TrimSpace(base))
	if err != nil || baseURL.Scheme == "" {
		return refURL.String()
	}
	return baseURL.ResolveReference(refURL).String()
}

// expandTemplate fills {year} {week} {date} {month} {day} from d. Year and week are ISO 8601.
func expandTemplate(tpl string, d domain.Date) string {
	year, week := d.ISOWeek()
	return strings.NewReplacer(
		"{year}", strconv.Itoa(year),
		"{week}", fmt.Sprintf("%02d", week),
		"{date}", d.String(),
		"{month}", fmt.Sprintf("%02d", int(d.Month())),
		"{day}", fmt.Sprintf("%02d", d.Day()),
	).Replace(tpl)
}

// strictDate builds a date and rejects components that time.Date would normalize.
func strictDate(year, month, day int) (domain.Date, error) {
	if month < 1 || month > 12 {
		return domain.Date{}, fmt.Errorf("month %d out of range", month)
	}
	d := domain.NewDate(year, time.Month(month), day)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return domain.Date{}, fmt.Errorf("invalid date %04d-%02d-%02d", year, month, day)
	}
	return d, nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
