package browser

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"linkedin-autoconnect/internal/config"
)

type Manager struct {
	browser  *rod.Browser
	config   *config.BrowserConfig
	launcher *launcher.Launcher

	closeOnce sync.Once
	closeErr  error
}

// NewLauncher returns the Chrome launcher with the anti-detection flags applied.
func NewLauncher(cfg *config.BrowserConfig) *launcher.Launcher {
	l := launcher.New().
		Headless(cfg.Headless).
		Leakless(false).
		Set("disable-blink-features", "AutomationControlled").
		Set("no-sandbox").
		Set("disable-dev-shm-usage").
		Delete("enable-automation")

	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}
	if cfg.ProxyURL != "" {
		l = l.Proxy(cfg.ProxyURL)
	}
	if cfg.UserDataDir != "" {
		l = l.UserDataDir(cfg.UserDataDir)
	}
	return l
}

func NewManager(cfg *config.BrowserConfig) (*Manager, error) {
	l := NewLauncher(cfg)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &Manager{
		browser:  browser,
		config:   cfg,
		launcher: l,
	}, nil
}

// Page opens a stealth page sized to the configured viewport.
func (m *Manager) Page() (*rod.Page, error) {
	page, err := stealth.Page(m.browser)
	if err != nil {
		return nil, fmt.Errorf("failed to open stealth page: %w", err)
	}

	if err := ApplyStealth(page); err != nil {
		return nil, fmt.Errorf("failed to apply stealth: %w", err)
	}

	if m.config.Viewport.Width > 0 && m.config.Viewport.Height > 0 {
		err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             m.config.Viewport.Width,
			Height:            m.config.Viewport.Height,
			DeviceScaleFactor: 1,
			Mobile:            false,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to set viewport: %w", err)
		}
	}

	return page, nil
}

// Close terminates the browser process. Safe to call more than once.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() {
		m.closeErr = m.browser.Close()
		m.launcher.Kill()
	})
	return m.closeErr
}
