// Package scheduler fires the daily snapshot batch at a fixed wall-clock time.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	pkgLog "emaktab-snapshot/pkg/log"
)

// ErrSkipped marks a job that chose not to run this tick. It is logged as a
// warning rather than a failure.
var ErrSkipped = errors.New("job skipped")

// Job is the unit of work fired on every tick.
type Job func(ctx context.Context) error

// Config selects when the job fires.
type Config struct {
	// Spec is a standard 5-field cron expression, e.g. "45 7 * * *".
	Spec     string
	Timezone string
}

// Scheduler wraps a cron runner. A failing or panicking job is logged and
// stays scheduled; a tick that fires while the previous one still runs is skipped.
type Scheduler struct {
	cron *cron.Cron
	id   cron.EntryID
	loc  *time.Location
	l    pkgLog.Logger

	// ctx is handed to every job and cancelled by Stop.
	ctx    context.Context
	cancel context.CancelFunc
}

// New registers job under cfg. Invalid expressions and timezones fail here.
func New(cfg Config, job Job, l pkgLog.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	cl := cronLogger{l: l}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{cron: c, loc: loc, l: l, ctx: ctx, cancel: cancel}
	id, err := c.AddFunc(cfg.Spec, s.wrap(job))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("parse cron spec %q: %w", cfg.Spec, err)
	}
	s.id = id
	return s, nil
}

func (s *Scheduler) wrap(job Job) func() {
	return func() {
		ctx := pkgLog.WithFields(s.ctx, pkgLog.Field{Key: "trigger", Value: "schedule"})
		s.l.Infof(ctx, "scheduler: tick")
		err := job(ctx)
		switch {
		case err == nil:
		case errors.Is(err, ErrSkipped):
			s.l.Warnf(ctx, "scheduler: tick skipped: %v", err)
		default:
			s.l.Errorf(ctx, "scheduler: job failed: %v", err)
		}
	}
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts new ticks and cancels the context of a running job. The returned
// context is done once that job has returned.
func (s *Scheduler) Stop() context.Context {
	s.cancel()
	return s.cron.Stop()
}

// Next reports the next fire time in the configured timezone.
func (s *Scheduler) Next() time.Time {
	next := s.cron.Entry(s.id).Next
	if next.IsZero() {
		sched := s.cron.Entry(s.id).Schedule
		if sched == nil {
			return time.Time{}
		}
		next = sched.Next(time.Now().In(s.loc))
	}
	return next.In(s.loc)
}

// cronLogger adapts pkg/log to cron.Logger.
type cronLogger struct {
	l pkgLog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debugf(context.Background(), "cron: %s %v", msg, keysAndValues)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Errorf(context.Background(), "cron: %s: %v %v", msg, err, keysAndValues)
}
