package httpclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// Browser renders pages whose markup is only complete after scripts have run.
type Browser interface {
	// Render loads pageURL, waits until waitSelector is visible and returns the document HTML.
	Render(ctx context.Context, pageURL, waitSelector string, headers map[string]string) (string, error)
}

// ChromeBrowser drives a headless Chrome through chromedp. A fresh browser process is started
// per Render call so nothing is held open between runs.
type ChromeBrowser struct {
	timeout  time.Duration
	execPath string
}

// NewChromeBrowser creates a ChromeBrowser whose Render calls are bounded by timeout.
func NewChromeBrowser(timeout time.Duration) *ChromeBrowser {
	return &ChromeBrowser{timeout: timeout}
}

// WithExecPath pins the Chrome binary instead of letting chromedp search for one.
func (b *ChromeBrowser) WithExecPath(path string) *ChromeBrowser {
	b.execPath = path
	return b
}

func (b *ChromeBrowser) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	if b.execPath != "" {
		opts = append(opts, chromedp.ExecPath(b.execPath))
	}
	return opts
}

// Render implements Browser.
func (b *ChromeBrowser) Render(ctx context.Context, pageURL, waitSelector string, headers map[string]string) (string, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, b.allocatorOptions()...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	if strings.TrimSpace(waitSelector) == "" {
		waitSelector = "body"
	}

	var html string
	actions := []chromedp.Action{network.Enable()}
	if extra := browserHeaders(headers); len(extra) > 0 {
		actions = append(actions, network.SetExtraHTTPHeaders(extra))
	}
	actions = append(actions,
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible(waitSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		return "", fmt.Errorf("render %s: %w", pageURL, err)
	}
	return html, nil
}

func browserHeaders(headers map[string]string) network.Headers {
	out := make(network.Headers, len(headers))
	for k, v := range headers {
		if strings.TrimSpace(k) == "" || strings.TrimSpace(v) == "" {
			continue
		}
		out[k] = v
	}
	return out
}
