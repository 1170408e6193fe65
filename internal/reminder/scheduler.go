package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studymate/internal/notify"
	"studymate/internal/task"
	"studymate/internal/timeutil"
)

const (
	DefaultInterval = 30 * time.Second
	// Window is how far either side of the due instant a reminder may fire.
	Window = time.Hour
)

type Scheduler struct {
	store  *task.Store
	oracle timeutil.Oracle
	reload bool
}

type Option func(*Scheduler)

// WithReload makes Run re-read the store before every scan, so latches are
// written over what other processes saved since the last tick.
func WithReload() Option {
	return func(s *Scheduler) { s.reload = true }
}

func New(store *task.Store, oracle timeutil.Oracle, opts ...Option) *Scheduler {
	s := &Scheduler{store: store, oracle: oracle}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check scans every task once. Each latch is persisted as soon as it is
// set; a failed save leaves the latch in memory and is reported in err.
func (s *Scheduler) Check() ([]notify.Notification, error) {
	now := s.oracle.Now()
	var (
		out  []notify.Notification
		errs []error
	)
	for _, t := range s.store.All() {
		if t.Completed || t.Date == "" || t.Reminded {
			continue
		}
		due, err := s.oracle.Instant(t.Date, t.Time, timeutil.ReminderDefaultTime)
		if err != nil {
			continue
		}
		delta := due.Sub(now)
		switch {
		case delta > 0 && delta <= Window:
			t.Reminded = true
			out = append(out, notify.New(notify.Warning, `Hey! Don't forget about "%s" - it's due in 1 hour!`, t.Title))
		case !t.OverdueReminded && delta < 0 && delta >= -Window:
			t.OverdueReminded = true
			out = append(out, notify.New(notify.Error, `Oops! "%s" is overdue. Time to catch up!`, t.Title))
		default:
			continue
		}
		s.store.Replace(t.ID, t)
		if err := s.store.Save(); err != nil {
			errs = append(errs, fmt.Errorf("latch reminder for %s: %w", t.ID, err))
		}
	}
	return out, errors.Join(errs...)
}

// Run checks immediately and then on every tick until ctx is done.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration, emit func(notify.Notification), onErr func(error)) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	check := func() {
		if s.reload {
			s.store.Load()
		}
		notes, err := s.Check()
		for _, n := range notes {
			emit(n)
		}
		if err != nil && onErr != nil {
			onErr(err)
		}
	}

	check()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			check()
		}
	}
}
