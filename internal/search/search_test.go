package search

import (
	"context"
	"testing"
	"time"

	"linkedin-autoconnect/internal/browser/browsertest"
	"linkedin-autoconnect/pkg/logger"

	"github.com/go-rod/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name     string
		keyword  string
		expected string
	}{
		{
			name:     "spaces_become_plus",
			keyword:  "Software Engineer",
			expected: "https://www.linkedin.com/search/results/people/?keywords=Software+Engineer&origin=SWITCH_SEARCH_VERTICAL",
		},
		{
			name:     "reserved_characters",
			keyword:  "C++ & Go/Rust",
			expected: "https://www.linkedin.com/search/results/people/?keywords=C%2B%2B+%26+Go%2FRust&origin=SWITCH_SEARCH_VERTICAL",
		},
		{
			name:     "empty",
			keyword:  "",
			expected: "https://www.linkedin.com/search/results/people/?keywords=&origin=SWITCH_SEARCH_VERTICAL",
		},
		{
			name:     "unicode",
			keyword:  "Ingénieur",
			expected: "https://www.linkedin.com/search/results/people/?keywords=Ing%C3%A9nieur&origin=SWITCH_SEARCH_VERTICAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildURL(tt.keyword))
		})
	}
}

func TestNavigator_Search(t *testing.T) {
	page := browsertest.Page(t)

	requested := make(chan string, 1)
	router := page.HijackRequests()
	router.MustAdd("https://www.linkedin.com/search/*", func(h *rod.Hijack) {
		select {
		case requested <- h.Request.URL().String():
		default:
		}
		h.Response.SetHeader("Content-Type", "text/html; charset=utf-8")
		h.Response.SetBody(`<html><body><button><span>Connect</span></button></body></html>`)
	})
	go router.Run()
	defer router.MustStop()

	n := NewNavigator(page, Criteria{Keyword: "Go Developer", Location: "Berlin"}, 0, logger.Nop())
	require.NoError(t, n.Search(context.Background()))

	u := <-requested
	assert.Equal(t, BuildURL("Go Developer"), u)
	assert.NotContains(t, u, "Berlin")
}

func TestNavigator_SearchCancelled(t *testing.T) {
	page := browsertest.Page(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n := NewNavigator(page, Criteria{Keyword: "Go"}, time.Second, logger.Nop())
	assert.Error(t, n.Search(ctx))
}
