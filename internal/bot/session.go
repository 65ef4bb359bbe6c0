package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"linkedin-autoconnect/internal/browser"
	"linkedin-autoconnect/internal/config"
	"linkedin-autoconnect/internal/connection"
	"linkedin-autoconnect/internal/storage"
	"linkedin-autoconnect/pkg/logger"
)

type State int

const (
	Init State = iota
	BrowserReady
	LoggedIn
	SearchLoaded
	Sending
	Done
)

func (s State) String() string {
	switch s {
	case Init:
		return "init"
	case BrowserReady:
		return "browser_ready"
	case LoggedIn:
		return "logged_in"
	case SearchLoaded:
		return "search_loaded"
	case Sending:
		return "sending"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

var ErrLoginFailed = errors.New("login failed")

type Browser interface {
	Close() error
}

type Authenticator interface {
	Login(ctx context.Context) bool
}

type Navigator interface {
	Search(ctx context.Context) error
}

type Sender interface {
	Send(ctx context.Context, counter *connection.Counter) (connection.Report, error)
}

// Pipeline is everything a run needs once the browser is up.
type Pipeline struct {
	Browser Browser
	Auth    Authenticator
	Search  Navigator
	// NewSender binds the request sender to the run's activity recorder.
	NewSender func(recorder connection.Recorder) Sender
}

// Launcher acquires the browser and builds the pipeline around it. On error it must
// release anything it already acquired.
type Launcher func(ctx context.Context) (*Pipeline, error)

type ActivityLog interface {
	Begin(ctx context.Context, run *storage.Run) (connection.Recorder, error)
	Finish(ctx context.Context, run *storage.Run) error
}

type Result struct {
	// Reached is the last state entered before Done.
	Reached State
	Sent    int
	Report  connection.Report
	Err     error
}

// Session is one login → search → send run. It owns the invitation counter.
type Session struct {
	cfg        *config.Config
	launch     Launcher
	activity   ActivityLog
	logger     logger.Logger
	closeDelay time.Duration

	state   State
	counter *connection.Counter
	pipe    *Pipeline

	cleanupOnce sync.Once
}

func NewSession(cfg *config.Config, launch Launcher, activity ActivityLog, logger logger.Logger) *Session {
	if activity == nil {
		activity = storage.Nop{}
	}
	return &Session{
		cfg:        cfg,
		launch:     launch,
		activity:   activity,
		logger:     logger,
		closeDelay: 2 * time.Second,
		state:      Init,
		counter:    connection.NewCounter(cfg.Limits.MaxInvitesPerDay),
	}
}

// WithCloseDelay sets the pause before the browser is closed.
func (s *Session) WithCloseDelay(d time.Duration) *Session {
	s.closeDelay = d
	return s
}

func (s *Session) State() State { return s.state }

// Run never returns an error to its caller: everything ends in Done, with the
// browser closed exactly once.
func (s *Session) Run(ctx context.Context) (res Result) {
	s.logger.Info("starting LinkedIn auto-connect bot")

	run := &storage.Run{
		Keyword:    s.cfg.Search.Keyword,
		Location:   s.cfg.Search.Location,
		MaxInvites: s.counter.Max(),
	}
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("panic: %v", r)
			s.logger.Error("an error occurred", "state", s.state.String(), "error", res.Err)
		}
		res.Reached = s.state
		res.Sent = s.counter.Sent()
		s.cleanup(ctx)
		s.state = Done
		s.finish(ctx, run, res)
	}()

	recorder := s.begin(ctx, run)

	res.Report, res.Err = s.run(ctx, recorder)
	if res.Err != nil {
		s.logger.Error("an error occurred", "state", s.state.String(), "error", res.Err)
		return res
	}

	s.logger.Info("bot execution completed", "sent", s.counter.Sent())
	return res
}

func (s *Session) run(ctx context.Context, recorder connection.Recorder) (connection.Report, error) {
	pipe, err := s.launch(ctx)
	if err != nil {
		return connection.Report{}, fmt.Errorf("failed to set up browser: %w", err)
	}
	s.pipe = pipe
	s.state = BrowserReady

	if !pipe.Auth.Login(ctx) {
		return connection.Report{}, ErrLoginFailed
	}
	s.state = LoggedIn

	if err := pipe.Search.Search(ctx); err != nil {
		return connection.Report{}, fmt.Errorf("search failed: %w", err)
	}
	s.state = SearchLoaded

	s.state = Sending
	sender := pipe.NewSender(recorder)
	return sender.Send(ctx, s.counter)
}

// begin opens the run in the activity log. The log stays disabled for the rest
// of the run unless Begin succeeds.
func (s *Session) begin(ctx context.Context, run *storage.Run) connection.Recorder {
	activity := s.activity
	s.activity = storage.Nop{}

	recorder, err := activity.Begin(ctx, run)
	if err != nil {
		s.logger.Warn("activity log unavailable", "error", err)
		return nil
	}
	s.activity = activity
	return recorder
}

func (s *Session) cleanup(ctx context.Context) {
	s.cleanupOnce.Do(func() {
		if s.pipe == nil || s.pipe.Browser == nil {
			return
		}
		s.logger.Info("closing browser")
		// Cancellation must not skip closing the browser.
		_ = browser.Pause(context.WithoutCancel(ctx), s.closeDelay)
		if err := s.pipe.Browser.Close(); err != nil {
			s.logger.Warn("failed to close browser", "error", err)
		}
	})
}

func (s *Session) finish(ctx context.Context, run *storage.Run, res Result) {
	run.Sent = res.Sent
	run.Found = res.Report.Found
	run.Processed = res.Report.Processed
	run.State = res.Reached.String()
	if res.Err != nil {
		run.Error = res.Err.Error()
	}
	if len(res.Report.Outcomes) > 0 {
		run.Outcomes = make(map[string]int, len(res.Report.Outcomes))
		for o, n := range res.Report.Outcomes {
			run.Outcomes[o.String()] = n
		}
	}

	if err := s.activity.Finish(context.WithoutCancel(ctx), run); err != nil {
		s.logger.Warn("failed to record run", "error", err)
	}
}
