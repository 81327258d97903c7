package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"strings"
	"testing"
	"time"
)

const scriptedPage = `<html><body>
<div id="root"></div>
<script>
setTimeout(function () {
  document.getElementById("root").innerHTML =
    '<div class="flyer-teaser__wrapper"><span class="flyer-teaser__caption">SPAR szórólap</span></div>';
}, 200);
</script>
</body></html>`

func chromePath(t *testing.T) string {
	t.Helper()
	for _, name := range []string{"chromium", "chromium-browser", "google-chrome", "google-chrome-stable", "headless-shell"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	t.Skip("no chrome binary on PATH")
	return ""
}

func TestChromeBrowserRenderWaitsForScriptedMarkup(t *testing.T) {
	path := chromePath(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept-Language"); got != "hu-HU" {
			t.Errorf("unexpected accept-language %q", got)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(scriptedPage))
	}))
	defer srv.Close()

	b := NewChromeBrowser(20 * time.Second).WithExecPath(path)
	html, err := b.Render(context.Background(), srv.URL, ".flyer-teaser__wrapper", map[string]string{"Accept-Language": "hu-HU"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(html, "flyer-teaser__caption") {
		t.Fatalf("rendered html lacks scripted section: %s", html)
	}
}

func TestBrowserHeadersDropsBlankEntries(t *testing.T) {
	got := browserHeaders(map[string]string{
		"User-Agent":    "flyerboard",
		"Cache-Control": " ",
		"":              "x",
	})
	if len(got) != 1 || got["User-Agent"] != "flyerboard" {
		t.Fatalf("unexpected headers %#v", got)
	}
}
