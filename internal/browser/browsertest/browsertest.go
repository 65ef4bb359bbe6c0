// Package browsertest runs rod-backed code against local pages in a headless browser.
package browsertest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"linkedin-autoconnect/internal/browser"
	"linkedin-autoconnect/internal/config"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/require"
)

// Page launches a headless browser through browser.Manager and returns a fresh page.
// The test is skipped when no local browser is installed.
func Page(t *testing.T) *rod.Page {
	t.Helper()

	bin, has := launcher.LookPath()
	if !has {
		t.Skip("no local browser found")
	}

	mgr, err := browser.NewManager(&config.BrowserConfig{
		Headless: true,
		Bin:      bin,
		Viewport: config.ViewportConfig{Width: 1024, Height: 768},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mgr.Close() })

	page, err := mgr.Page()
	require.NoError(t, err)
	return page
}

// Serve serves each path's HTML from a local server and returns its base URL.
func Serve(t *testing.T, pages map[string]string) string {
	t.Helper()

	mux := http.NewServeMux()
	for path, html := range pages {
		html := html
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, html)
		})
	}

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL
}

// Open serves html at / and loads it into page.
func Open(t *testing.T, page *rod.Page, html string) {
	t.Helper()

	u := Serve(t, map[string]string{"/": html})
	require.NoError(t, page.Navigate(u))
	require.NoError(t, page.WaitLoad())
}
