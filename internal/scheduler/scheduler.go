package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/camuig/shuumulator/internal/logger"
	"github.com/camuig/shuumulator/internal/simulator"
)

type Runner interface {
	RunCycle(ctx context.Context) (*simulator.CycleResult, error)
}

type ErrorNotifier interface {
	NotifyError(context string, err error)
}

type Scheduler struct {
	runner   Runner
	notifier ErrorNotifier
	interval time.Duration
	loc      *time.Location
	logger   *logger.Logger
	now      func() time.Time
}

func NewScheduler(runner Runner, notifier ErrorNotifier, interval time.Duration, loc *time.Location, log *logger.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		notifier: notifier,
		interval: interval,
		loc:      loc,
		logger:   log,
		now:      time.Now,
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("scheduler started", "interval", s.interval.String())

	// Run immediately on start
	s.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

// runCycle reports whether a cycle was attempted.
func (s *Scheduler) runCycle(ctx context.Context) bool {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic in scheduler cycle", "panic", fmt.Sprint(r))
			s.notifier.NotifyError("scheduler panic", fmt.Errorf("%v", r))
		}
	}()

	now := s.now().In(s.loc)
	if !MarketOpen(now) {
		s.logger.Info("market is closed, skipping cycle", "at", now.Format(time.RFC3339))
		return false
	}

	s.logger.Info("starting cycle", "at", now.Format(time.RFC3339))
	if _, err := s.runner.RunCycle(ctx); err != nil {
		s.logger.Error("cycle failed", "error", err)
		return true
	}
	s.logger.Info("cycle completed")
	return true
}

// MarketOpen reports whether the Tokyo Stock Exchange is in session at t,
// which must already be in Tokyo time. Sessions: 09:00-11:30 and 12:30-15:30
// on weekdays. Exchange holidays are not considered.
func MarketOpen(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	minutes := t.Hour()*60 + t.Minute()
	morning := minutes >= 9*60 && minutes < 11*60+30
	afternoon := minutes >= 12*60+30 && minutes < 15*60+30
	return morning || afternoon
}
