package connection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"linkedin-autoconnect/internal/browser"
	"linkedin-autoconnect/pkg/logger"
)

var (
	ErrIntercepted    = errors.New("click intercepted")
	ErrConfirmTimeout = errors.New("confirmation control did not appear")
)

// Control is one clickable element on the results page.
type Control interface {
	ScrollIntoView(ctx context.Context) error
	// Click returns an error wrapping ErrIntercepted when something covers the element.
	Click(ctx context.Context) error
}

// Locator hides how Connect, confirmation and dismiss controls are matched on the page.
type Locator interface {
	ScrollResults(ctx context.Context) error
	ConnectControls(ctx context.Context) ([]Control, error)
	// WaitConfirm returns ErrConfirmTimeout when nothing shows up within timeout.
	WaitConfirm(ctx context.Context, timeout time.Duration) (Control, error)
	Dismiss(ctx context.Context) error
}

type Attempt struct {
	Index   int
	Outcome Outcome
	Err     error
	Total   int
	At      time.Time
}

type Recorder interface {
	RecordAttempt(ctx context.Context, a Attempt) error
}

type Delays struct {
	// Settle follows scrolling a control into view.
	Settle time.Duration
	// AfterSend follows a confirmed send.
	AfterSend time.Duration
}

func DefaultDelays() Delays {
	return Delays{
		Settle:    time.Second,
		AfterSend: 3 * time.Second,
	}
}

type Requester struct {
	locator  Locator
	recorder Recorder
	timeout  time.Duration
	delays   Delays
	logger   logger.Logger
}

func NewRequester(locator Locator, recorder Recorder, timeout time.Duration, delays Delays, logger logger.Logger) *Requester {
	return &Requester{
		locator:  locator,
		recorder: recorder,
		timeout:  timeout,
		delays:   delays,
		logger:   logger,
	}
}

// Send walks the Connect controls in document order until the counter reaches its cap
// or the candidates run out.
func (r *Requester) Send(ctx context.Context, counter *Counter) (Report, error) {
	r.logger.Info("starting to send connection requests", "max_invites", counter.Max())

	if err := r.locator.ScrollResults(ctx); err != nil {
		return newReport(0), fmt.Errorf("failed to load more results: %w", err)
	}

	controls, err := r.locator.ConnectControls(ctx)
	if err != nil {
		return newReport(0), fmt.Errorf("failed to find connect buttons: %w", err)
	}

	report := newReport(len(controls))
	r.logger.Info("found potential connections", "count", len(controls))

	for i, control := range controls {
		if counter.Reached() {
			r.logger.Info("reached maximum invites limit", "max_invites", counter.Max())
			break
		}

		outcome, err := r.attempt(ctx, control)
		if outcome.Counts() {
			counter.Inc()
		}
		report.add(outcome)
		r.record(ctx, Attempt{Index: i, Outcome: outcome, Err: err, Total: counter.Sent(), At: time.Now()})

		switch outcome {
		case Sent:
			r.logger.Info("connection request sent", "total", counter.Sent())
			if err := browser.Pause(ctx, r.delays.AfterSend); err != nil {
				return report, err
			}
		case AssumedSent:
			r.logger.Info("no modal appeared, connection might be sent directly", "total", counter.Sent())
		case Skipped:
			if errors.Is(err, ErrIntercepted) {
				r.logger.Warn("button click was intercepted, skipping", "index", i)
			} else {
				r.logger.Warn("error clicking connect button", "index", i, "error", err)
			}
		case Dismissed:
			r.logger.Warn("could not send connection request", "index", i, "error", err)
		case Fatal:
			return report, err
		}
	}

	r.logger.Info("finished sending connection requests", "total", counter.Sent(), "processed", report.Processed)
	return report, nil
}

func (r *Requester) attempt(ctx context.Context, control Control) (Outcome, error) {
	if err := control.ScrollIntoView(ctx); err != nil {
		return r.clickFailure(ctx, err)
	}
	if err := browser.Pause(ctx, r.delays.Settle); err != nil {
		return Fatal, err
	}
	if err := control.Click(ctx); err != nil {
		return r.clickFailure(ctx, err)
	}

	confirm, err := r.locator.WaitConfirm(ctx, r.timeout)
	switch {
	case ctx.Err() != nil:
		return Fatal, ctx.Err()
	case errors.Is(err, ErrConfirmTimeout):
		return AssumedSent, nil
	case err != nil:
		return r.dismiss(ctx, err)
	}

	if err := confirm.Click(ctx); err != nil {
		if ctx.Err() != nil {
			return Fatal, ctx.Err()
		}
		return r.dismiss(ctx, err)
	}
	return Sent, nil
}

func (r *Requester) clickFailure(ctx context.Context, err error) (Outcome, error) {
	if ctx.Err() != nil {
		return Fatal, ctx.Err()
	}
	return Skipped, err
}

func (r *Requester) dismiss(ctx context.Context, cause error) (Outcome, error) {
	if err := r.locator.Dismiss(ctx); err != nil {
		r.logger.Debug("dismiss failed", "error", err)
	}
	if ctx.Err() != nil {
		return Fatal, ctx.Err()
	}
	return Dismissed, cause
}

func (r *Requester) record(ctx context.Context, a Attempt) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.RecordAttempt(context.WithoutCancel(ctx), a); err != nil {
		r.logger.Warn("failed to record attempt", "index", a.Index, "error", err)
	}
}
