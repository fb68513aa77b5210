package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/stolasapp/albumtest/internal/driver"
)

// Suite runs scenarios outside go test, each in a session of its own.
type Suite struct {
	// Open starts the session for one scenario.
	Open     func(ctx context.Context) (driver.Session, error)
	BaseURL  string
	Login    string
	Password string
	Photos   Photos
	Logger   *slog.Logger
}

// Result is the outcome of one scenario.
type Result struct {
	Name     string
	Failed   bool
	Skipped  bool
	Errors   []string
	Duration time.Duration
}

// Report collects the results of a [Suite.Run].
type Report struct {
	Results []Result
}

// Failed returns the number of failed scenarios.
func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Failed {
			n++
		}
	}
	return n
}

// Skipped returns the number of scenarios that never started.
func (r Report) Skipped() int {
	n := 0
	for _, res := range r.Results {
		if res.Skipped {
			n++
		}
	}
	return n
}

// OK reports whether every scenario ran and passed.
func (r Report) OK() bool {
	return r.Failed() == 0 && r.Skipped() == 0
}

// Run executes the scenarios in order. A cancelled context skips the
// scenarios that have not started yet.
func (s *Suite) Run(ctx context.Context, scenarios ...Scenario) Report {
	var report Report
	for _, sc := range scenarios {
		if ctx.Err() != nil {
			report.Results = append(report.Results, Result{Name: sc.Name, Skipped: true})
			continue
		}
		report.Results = append(report.Results, s.run(ctx, sc))
	}
	return report
}

func (s *Suite) run(ctx context.Context, sc Scenario) Result {
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With(slog.String("scenario", sc.Name))
	logger.InfoContext(ctx, "scenario started")

	rec := &recorder{logger: logger}
	start := time.Now()
	s.runSession(ctx, sc, rec)
	res := Result{
		Name:     sc.Name,
		Failed:   rec.failed,
		Errors:   rec.errors,
		Duration: time.Since(start),
	}

	attrs := []any{slog.Duration("duration", res.Duration)}
	if res.Failed {
		logger.ErrorContext(ctx, "scenario failed", attrs...)
	} else {
		logger.InfoContext(ctx, "scenario passed", attrs...)
	}
	return res
}

func (s *Suite) runSession(ctx context.Context, sc Scenario, rec *recorder) {
	session, err := s.Open(ctx)
	if err != nil {
		rec.Errorf("%v", err)
		return
	}
	if session == nil {
		rec.Errorf("browser session missing")
		return
	}
	defer func() {
		if err := session.Quit(); err != nil {
			rec.Errorf("failed to quit session: %v", err)
		}
	}()
	defer func() {
		switch r := recover().(type) {
		case nil, abort:
		default:
			rec.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()

	sc.Run(rec, &Env{
		Session:  session,
		BaseURL:  s.BaseURL,
		Login:    s.Login,
		Password: s.Password,
		Photos:   s.Photos,
	})
}

// abort unwinds a scenario on FailNow.
type abort struct{}

// recorder is the [T] of a scenario run by a [Suite].
type recorder struct {
	logger *slog.Logger
	failed bool
	errors []string
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.failed = true
	r.errors = append(r.errors, msg)
	r.logger.Warn("scenario error", slog.String("error", msg))
}

func (r *recorder) FailNow() {
	r.failed = true
	panic(abort{})
}

func (r *recorder) Logf(format string, args ...any) {
	r.logger.Info(fmt.Sprintf(format, args...))
}
