package connection

import (
	"context"
	"errors"
	"testing"
	"time"

	"linkedin-autoconnect/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// behaviour of one fake candidate
type step struct {
	scrollErr  error
	clickErr   error
	confirmErr error
	sendErr    error
	onClick    func()
}

type fakeControl struct {
	click   func(ctx context.Context) error
	scroll  func(ctx context.Context) error
	touched *bool
}

func (c *fakeControl) ScrollIntoView(ctx context.Context) error {
	if c.touched != nil {
		*c.touched = true
	}
	if c.scroll != nil {
		return c.scroll(ctx)
	}
	return nil
}

func (c *fakeControl) Click(ctx context.Context) error {
	if c.touched != nil {
		*c.touched = true
	}
	return c.click(ctx)
}

type fakeLocator struct {
	steps     []step
	touched   []bool
	current   int
	dismissed int
	findErr   error
}

func newFakeLocator(steps ...step) *fakeLocator {
	return &fakeLocator{steps: steps, touched: make([]bool, len(steps)), current: -1}
}

func (l *fakeLocator) ScrollResults(ctx context.Context) error { return nil }

func (l *fakeLocator) ConnectControls(ctx context.Context) ([]Control, error) {
	if l.findErr != nil {
		return nil, l.findErr
	}
	controls := make([]Control, len(l.steps))
	for i := range l.steps {
		i := i
		s := l.steps[i]
		controls[i] = &fakeControl{
			touched: &l.touched[i],
			scroll:  func(context.Context) error { return s.scrollErr },
			click: func(context.Context) error {
				l.current = i
				if s.onClick != nil {
					s.onClick()
				}
				return s.clickErr
			},
		}
	}
	return controls, nil
}

func (l *fakeLocator) WaitConfirm(ctx context.Context, timeout time.Duration) (Control, error) {
	s := l.steps[l.current]
	if s.confirmErr != nil {
		return nil, s.confirmErr
	}
	return &fakeControl{click: func(context.Context) error { return s.sendErr }}, nil
}

func (l *fakeLocator) Dismiss(ctx context.Context) error {
	l.dismissed++
	return errors.New("no dismiss button")
}

type memRecorder struct {
	attempts []Attempt
	err      error
}

func (m *memRecorder) RecordAttempt(ctx context.Context, a Attempt) error {
	m.attempts = append(m.attempts, a)
	return m.err
}

func newTestRequester(l Locator, rec Recorder) *Requester {
	return NewRequester(l, rec, 10*time.Millisecond, Delays{}, logger.Nop())
}

var (
	confirmed   = step{}
	intercepted = step{clickErr: ErrIntercepted}
	timedOut    = step{confirmErr: ErrConfirmTimeout}
	brokenModal = step{confirmErr: errors.New("stale element")}
	sendFails   = step{sendErr: errors.New("send not clickable")}
)

func TestSend_ExampleScenario(t *testing.T) {
	loc := newFakeLocator(confirmed, confirmed, intercepted, timedOut, confirmed)
	rec := &memRecorder{}
	counter := NewCounter(3)

	report, err := newTestRequester(loc, rec).Send(context.Background(), counter)
	require.NoError(t, err)

	assert.Equal(t, 3, counter.Sent())
	assert.Equal(t, 5, report.Found)
	assert.Equal(t, 4, report.Processed)
	assert.Equal(t, 2, report.Outcomes[Sent])
	assert.Equal(t, 1, report.Outcomes[Skipped])
	assert.Equal(t, 1, report.Outcomes[AssumedSent])
	assert.False(t, loc.touched[4], "fifth candidate must not be touched")

	require.Len(t, rec.attempts, 4)
	assert.Equal(t, []Outcome{Sent, Sent, Skipped, AssumedSent},
		[]Outcome{rec.attempts[0].Outcome, rec.attempts[1].Outcome, rec.attempts[2].Outcome, rec.attempts[3].Outcome})
	assert.Equal(t, 3, rec.attempts[3].Total)
}

func TestSend_Outcomes(t *testing.T) {
	tests := []struct {
		name          string
		steps         []step
		max           int
		wantSent      int
		wantProcessed int
		wantDismissed int
		wantOutcome   Outcome
	}{
		{name: "modal_confirmed", steps: []step{confirmed}, max: 5, wantSent: 1, wantProcessed: 1, wantOutcome: Sent},
		{name: "confirm_timeout_assumed", steps: []step{timedOut}, max: 5, wantSent: 1, wantProcessed: 1, wantOutcome: AssumedSent},
		{name: "modal_error_dismissed", steps: []step{brokenModal}, max: 5, wantSent: 0, wantProcessed: 1, wantDismissed: 1, wantOutcome: Dismissed},
		{name: "send_click_fails_dismissed", steps: []step{sendFails}, max: 5, wantSent: 0, wantProcessed: 1, wantDismissed: 1, wantOutcome: Dismissed},
		{name: "intercepted_skipped", steps: []step{intercepted}, max: 5, wantSent: 0, wantProcessed: 1, wantOutcome: Skipped},
		{name: "click_error_skipped", steps: []step{{clickErr: errors.New("detached")}}, max: 5, wantSent: 0, wantProcessed: 1, wantOutcome: Skipped},
		{name: "scroll_error_skipped", steps: []step{{scrollErr: errors.New("no layout")}}, max: 5, wantSent: 0, wantProcessed: 1, wantOutcome: Skipped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := newFakeLocator(tt.steps...)
			counter := NewCounter(tt.max)

			report, err := newTestRequester(loc, nil).Send(context.Background(), counter)
			require.NoError(t, err)

			assert.Equal(t, tt.wantSent, counter.Sent())
			assert.Equal(t, tt.wantProcessed, report.Processed)
			assert.Equal(t, tt.wantDismissed, loc.dismissed)
			assert.Equal(t, 1, report.Outcomes[tt.wantOutcome])
		})
	}
}

func TestSend_CapStopsLoop(t *testing.T) {
	tests := []struct {
		name       string
		candidates int
		max        int
		wantSent   int
	}{
		{name: "more_candidates_than_cap", candidates: 5, max: 2, wantSent: 2},
		{name: "fewer_candidates_than_cap", candidates: 2, max: 5, wantSent: 2},
		{name: "zero_cap", candidates: 3, max: 0, wantSent: 0},
		{name: "no_candidates", candidates: 0, max: 3, wantSent: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := make([]step, tt.candidates)
			loc := newFakeLocator(steps...)
			counter := NewCounter(tt.max)

			report, err := newTestRequester(loc, nil).Send(context.Background(), counter)
			require.NoError(t, err)

			assert.Equal(t, tt.wantSent, counter.Sent())
			assert.LessOrEqual(t, counter.Sent(), tt.max)
			assert.Equal(t, tt.wantSent, report.Processed)
			for i := tt.wantSent; i < tt.candidates; i++ {
				assert.False(t, loc.touched[i], "candidate %d touched after cap", i)
			}
		})
	}
}

func TestSend_InterceptedDoesNotAbort(t *testing.T) {
	loc := newFakeLocator(intercepted, intercepted, confirmed)
	counter := NewCounter(10)

	report, err := newTestRequester(loc, nil).Send(context.Background(), counter)
	require.NoError(t, err)
	assert.Equal(t, 1, counter.Sent())
	assert.Equal(t, 3, report.Processed)
	assert.Equal(t, 2, report.Outcomes[Skipped])
}

func TestSend_CancelledIsFatal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancelling := step{onClick: cancel, clickErr: context.Canceled}
	loc := newFakeLocator(confirmed, cancelling, confirmed)
	counter := NewCounter(10)

	report, err := newTestRequester(loc, nil).Send(ctx, counter)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, counter.Sent())
	assert.Equal(t, 1, report.Outcomes[Fatal])
	assert.False(t, loc.touched[2])
}

func TestSend_FindError(t *testing.T) {
	loc := newFakeLocator()
	loc.findErr = errors.New("page crashed")

	report, err := newTestRequester(loc, nil).Send(context.Background(), NewCounter(3))
	assert.Error(t, err)
	assert.Equal(t, 0, report.Processed)
}

func TestSend_RecorderErrorIgnored(t *testing.T) {
	loc := newFakeLocator(confirmed, confirmed)
	rec := &memRecorder{err: errors.New("mongo down")}
	counter := NewCounter(5)

	_, err := newTestRequester(loc, rec).Send(context.Background(), counter)
	require.NoError(t, err)
	assert.Equal(t, 2, counter.Sent())
	assert.Len(t, rec.attempts, 2)
}

func TestCounter(t *testing.T) {
	c := NewCounter(2)
	assert.True(t, c.Inc())
	assert.True(t, c.Inc())
	assert.False(t, c.Inc())
	assert.Equal(t, 2, c.Sent())
	assert.True(t, c.Reached())

	neg := NewCounter(-4)
	assert.Equal(t, 0, neg.Max())
	assert.True(t, neg.Reached())
	assert.False(t, neg.Inc())
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		outcome Outcome
		name    string
		counts  bool
	}{
		{Sent, "sent", true},
		{AssumedSent, "assumed_sent", true},
		{Skipped, "skipped", false},
		{Dismissed, "dismissed", false},
		{Fatal, "fatal", false},
		{Outcome(99), "unknown", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.outcome.String())
			assert.Equal(t, tt.counts, tt.outcome.Counts())
		})
	}
}
