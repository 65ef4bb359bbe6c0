package connection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"linkedin-autoconnect/internal/browser"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Selectors track LinkedIn's English UI and will need updating when the markup changes.
const (
	connectXPath = `//button[contains(@aria-label, 'Invite') or .//span[text()='Connect']]`
	confirmXPath = `//button[contains(@aria-label, 'Send without') or contains(@aria-label, 'Send now')` +
		` or (contains(@class, 'artdeco-button--primary') and contains(@aria-label, 'Send'))` +
		` or .//span[text()='Send'] or contains(., 'Send without') or contains(., 'Send now')]`
	dismissXPath = `//button[contains(@aria-label, 'Dismiss') or @data-test-modal-close-btn]`

	scrollToBottomJS = `() => window.scrollTo(0, document.body.scrollHeight)`
)

var errNoDismiss = errors.New("dismiss control not found")

// PageLocator matches controls on a live rod page.
type PageLocator struct {
	page         *rod.Page
	scrolls      int
	scrollDelay  time.Duration
	clickTimeout time.Duration
}

func NewPageLocator(page *rod.Page, scrolls int, scrollDelay, clickTimeout time.Duration) *PageLocator {
	return &PageLocator{
		page:         page,
		scrolls:      scrolls,
		scrollDelay:  scrollDelay,
		clickTimeout: clickTimeout,
	}
}

func (l *PageLocator) ScrollResults(ctx context.Context) error {
	page := l.page.Context(ctx)
	for i := 0; i < l.scrolls; i++ {
		if _, err := page.Eval(scrollToBottomJS); err != nil {
			return err
		}
		if err := browser.Pause(ctx, l.scrollDelay); err != nil {
			return err
		}
	}
	return nil
}

func (l *PageLocator) ConnectControls(ctx context.Context) ([]Control, error) {
	elements, err := l.page.Context(ctx).ElementsX(connectXPath)
	if err != nil {
		return nil, err
	}

	controls := make([]Control, 0, len(elements))
	for _, el := range elements {
		controls = append(controls, l.control(el))
	}
	return controls, nil
}

func (l *PageLocator) WaitConfirm(ctx context.Context, timeout time.Duration) (Control, error) {
	var found *rod.Element

	err := browser.WaitUntil(ctx, timeout, func() (bool, error) {
		elements, err := l.page.Context(ctx).ElementsX(confirmXPath)
		if err != nil {
			return true, err
		}
		for _, el := range elements {
			if clickable(el) {
				found = el
				return true, nil
			}
		}
		return false, nil
	})
	if errors.Is(err, browser.ErrWaitTimeout) {
		return nil, ErrConfirmTimeout
	}
	if err != nil {
		return nil, err
	}

	return l.control(found), nil
}

func (l *PageLocator) Dismiss(ctx context.Context) error {
	elements, err := l.page.Context(ctx).ElementsX(dismissXPath)
	if err != nil {
		return err
	}
	if elements.Empty() {
		return errNoDismiss
	}
	return l.control(elements.First()).Click(ctx)
}

func (l *PageLocator) control(el *rod.Element) Control {
	return &elementControl{el: el, timeout: l.clickTimeout}
}

func clickable(el *rod.Element) bool {
	visible, err := el.Visible()
	if err != nil || !visible {
		return false
	}
	disabled, err := el.Property("disabled")
	if err != nil {
		return false
	}
	return !disabled.Bool()
}

type elementControl struct {
	el      *rod.Element
	timeout time.Duration
}

func (c *elementControl) ScrollIntoView(ctx context.Context) error {
	return c.el.Context(ctx).ScrollIntoView()
}

// Click waits up to the control timeout for the element to become interactable.
// Still being covered when that expires means the click was intercepted.
func (c *elementControl) Click(ctx context.Context) error {
	el := c.el.Context(ctx).Timeout(c.timeout)
	defer el.CancelTimeout()

	err := el.Click(proto.InputMouseButtonLeft, 1)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrIntercepted, err)
	}
	return err
}
