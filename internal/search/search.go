package search

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"linkedin-autoconnect/internal/browser"
	"linkedin-autoconnect/internal/config"
	"linkedin-autoconnect/pkg/logger"

	"github.com/go-rod/rod"
)

const origin = "SWITCH_SEARCH_VERTICAL"

type Criteria struct {
	Keyword string
	// Location is reported but not part of the query.
	Location string
}

type Navigator struct {
	page        *rod.Page
	criteria    Criteria
	renderDelay time.Duration
	logger      logger.Logger
}

func NewNavigator(page *rod.Page, criteria Criteria, renderDelay time.Duration, logger logger.Logger) *Navigator {
	return &Navigator{
		page:        page,
		criteria:    criteria,
		renderDelay: renderDelay,
		logger:      logger,
	}
}

// BuildURL returns the people-search URL for keyword, encoded like a form value.
func BuildURL(keyword string) string {
	return config.SearchURL + "?keywords=" + url.QueryEscape(keyword) + "&origin=" + origin
}

func (n *Navigator) Search(ctx context.Context) error {
	n.logger.Info("searching people", "keyword", n.criteria.Keyword, "location", n.criteria.Location)

	page := n.page.Context(ctx)
	if err := page.Navigate(BuildURL(n.criteria.Keyword)); err != nil {
		return fmt.Errorf("failed to open search page: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("search page did not load: %w", err)
	}

	// Results are rendered client-side after the load event.
	if err := browser.Pause(ctx, n.renderDelay); err != nil {
		return err
	}

	n.logger.Info("search page loaded")
	return nil
}
