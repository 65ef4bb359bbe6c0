package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"linkedin-autoconnect/internal/browser"
	"linkedin-autoconnect/internal/config"
	"linkedin-autoconnect/pkg/logger"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

const (
	emailSelector    = "#username"
	passwordSelector = "#password"
	submitSelector   = "button[type='submit']"
)

type Authenticator struct {
	page     *rod.Page
	creds    config.LinkedInConfig
	loginURL string
	timeout  time.Duration
	logger   logger.Logger
}

func NewAuthenticator(page *rod.Page, creds config.LinkedInConfig, timeout time.Duration, logger logger.Logger) *Authenticator {
	return &Authenticator{
		page:     page,
		creds:    creds,
		loginURL: config.LoginURL,
		timeout:  timeout,
		logger:   logger,
	}
}

// IsLoggedInURL reports whether a post-submit URL looks like an authenticated LinkedIn page.
func IsLoggedInURL(u string) bool {
	return strings.Contains(u, "feed") || strings.Contains(u, "search")
}

// Login submits the credentials and reports success. All failures, including
// CAPTCHA and two-factor prompts, come back as false.
func (a *Authenticator) Login(ctx context.Context) bool {
	a.logger.Info("logging in to LinkedIn")

	if err := a.submit(ctx); err != nil {
		a.logger.Error("error during login", "error", err)
		return false
	}

	var current string
	err := browser.WaitUntil(ctx, a.timeout, func() (bool, error) {
		info, err := a.page.Info()
		if err != nil {
			return false, nil
		}
		current = info.URL
		return IsLoggedInURL(current), nil
	})
	if err != nil {
		a.logger.Error("login may have failed, please check credentials", "url", current, "error", err)
		return false
	}

	a.logger.Info("successfully logged in to LinkedIn")
	return true
}

func (a *Authenticator) submit(ctx context.Context) error {
	page := a.page.Context(ctx)

	if err := page.Navigate(a.loginURL); err != nil {
		return fmt.Errorf("failed to open login page: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("login page did not load: %w", err)
	}

	timed := page.Timeout(a.timeout)
	defer timed.CancelTimeout()

	emailInput, err := timed.Element(emailSelector)
	if err != nil {
		return fmt.Errorf("email field not found: %w", err)
	}
	if err := emailInput.Input(a.creds.Email); err != nil {
		return fmt.Errorf("failed to type email: %w", err)
	}

	passInput, err := timed.Element(passwordSelector)
	if err != nil {
		return fmt.Errorf("password field not found: %w", err)
	}
	if err := passInput.Input(a.creds.Password); err != nil {
		return fmt.Errorf("failed to type password: %w", err)
	}

	loginBtn, err := timed.Element(submitSelector)
	if err != nil {
		return fmt.Errorf("login button not found: %w", err)
	}
	if err := loginBtn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("failed to click login: %w", err)
	}

	return nil
}
