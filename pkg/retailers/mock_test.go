package retailers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Adda-Baaj/flyerboard/pkg/httpclient"
)

type mockResponse struct {
	body       []byte
	statusCode int
}

func (r mockResponse) Body() []byte    { return r.body }
func (r mockResponse) StatusCode() int { return r.statusCode }

// mockHTTPClient serves canned bodies and HEAD statuses per URL.
type mockHTTPClient struct {
	t      *testing.T
	expect map[string]string
	pages  map[string]string
	heads  map[string]int

	mu     sync.Mutex
	probed []string
}

func (m *mockHTTPClient) Get(_ context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	m.checkHeaders(headers)
	body, ok := m.pages[url]
	if !ok {
		return mockResponse{body: []byte("not found"), statusCode: 404}, nil
	}
	return mockResponse{body: []byte(body), statusCode: 200}, nil
}

func (m *mockHTTPClient) Head(_ context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	m.checkHeaders(headers)
	m.mu.Lock()
	m.probed = append(m.probed, url)
	m.mu.Unlock()

	status, ok := m.heads[url]
	if !ok {
		return nil, errors.New("connection refused")
	}
	return mockResponse{statusCode: status}, nil
}

func (m *mockHTTPClient) checkHeaders(headers map[string]string) {
	for key, want := range m.expect {
		if got := headers[key]; got != want {
			m.t.Fatalf("expected header %s=%q, got %q", key, want, got)
		}
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testOptions(client HTTPClient, now time.Time) Options {
	return Options{Client: client, Now: fixedClock(now)}
}

// fakeBrowser returns canned rendered markup and records what it was asked to wait for.
type fakeBrowser struct {
	pages map[string]string
	err   error

	waited  []string
	headers map[string]string
}

func (b *fakeBrowser) Render(_ context.Context, url, waitSelector string, headers map[string]string) (string, error) {
	b.waited = append(b.waited, waitSelector)
	b.headers = headers
	if b.err != nil {
		return "", b.err
	}
	html, ok := b.pages[url]
	if !ok {
		return "", errors.New("waiting for selector: context deadline exceeded")
	}
	return html, nil
}
