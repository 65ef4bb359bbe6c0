package bot

import (
	"context"
	"fmt"
	"time"

	"linkedin-autoconnect/internal/auth"
	"linkedin-autoconnect/internal/browser"
	"linkedin-autoconnect/internal/config"
	"linkedin-autoconnect/internal/connection"
	"linkedin-autoconnect/internal/search"
	"linkedin-autoconnect/pkg/logger"
)

const (
	resultScrolls = 3
	scrollDelay   = 2 * time.Second
	renderDelay   = 3 * time.Second
)

// NewBrowserLauncher launches Chrome and wires the rod-backed components onto one page.
func NewBrowserLauncher(cfg *config.Config, log logger.Logger) Launcher {
	return func(ctx context.Context) (*Pipeline, error) {
		log.Info("setting up browser", "headless", cfg.Browser.Headless)

		mgr, err := browser.NewManager(&cfg.Browser)
		if err != nil {
			return nil, err
		}

		page, err := mgr.Page()
		if err != nil {
			mgr.Close()
			return nil, fmt.Errorf("failed to open page: %w", err)
		}
		log.Info("browser setup complete")

		timeout := cfg.WaitTimeout()
		criteria := search.Criteria{Keyword: cfg.Search.Keyword, Location: cfg.Search.Location}

		return &Pipeline{
			Browser: mgr,
			Auth:    auth.NewAuthenticator(page, cfg.LinkedIn, timeout, log),
			Search:  search.NewNavigator(page, criteria, renderDelay, log),
			NewSender: func(recorder connection.Recorder) Sender {
				locator := connection.NewPageLocator(page, resultScrolls, scrollDelay, timeout)
				return connection.NewRequester(locator, recorder, timeout, connection.DefaultDelays(), log)
			},
		}, nil
	}
}
