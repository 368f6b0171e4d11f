package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/camuig/shuumulator/internal/logger"
	"github.com/camuig/shuumulator/internal/simulator"
)

var tokyo = time.FixedZone("JST", 9*60*60)

func TestMarketOpen(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"monday before open", time.Date(2021, 3, 1, 8, 59, 0, 0, tokyo), false},
		{"monday open", time.Date(2021, 3, 1, 9, 0, 0, 0, tokyo), true},
		{"morning session", time.Date(2021, 3, 1, 11, 29, 0, 0, tokyo), true},
		{"lunch break", time.Date(2021, 3, 1, 11, 30, 0, 0, tokyo), false},
		{"afternoon session", time.Date(2021, 3, 1, 12, 30, 0, 0, tokyo), true},
		{"afternoon close", time.Date(2021, 3, 1, 15, 30, 0, 0, tokyo), false},
		{"friday afternoon", time.Date(2021, 3, 5, 14, 0, 0, 0, tokyo), true},
		{"saturday", time.Date(2021, 3, 6, 10, 0, 0, 0, tokyo), false},
		{"sunday", time.Date(2021, 3, 7, 10, 0, 0, 0, tokyo), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MarketOpen(tt.at); got != tt.want {
				t.Errorf("MarketOpen(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

type fakeRunner struct {
	calls int
	err   error
	panic bool
}

func (f *fakeRunner) RunCycle(context.Context) (*simulator.CycleResult, error) {
	f.calls++
	if f.panic {
		panic("boom")
	}
	return &simulator.CycleResult{}, f.err
}

type fakeNotifier struct {
	errs []error
}

func (f *fakeNotifier) NotifyError(_ string, err error) {
	f.errs = append(f.errs, err)
}

func newTestScheduler(r Runner, n ErrorNotifier, at time.Time) *Scheduler {
	s := NewScheduler(r, n, time.Hour, tokyo, logger.Nop())
	s.now = func() time.Time { return at }
	return s
}

func TestRunCycle_Gating(t *testing.T) {
	r := &fakeRunner{}
	closed := newTestScheduler(r, &fakeNotifier{}, time.Date(2021, 3, 6, 10, 0, 0, 0, tokyo))
	if closed.runCycle(context.Background()) || r.calls != 0 {
		t.Errorf("cycle must be skipped when market is closed")
	}

	// 01:00 UTC is 10:00 in Tokyo
	open := newTestScheduler(r, &fakeNotifier{}, time.Date(2021, 3, 1, 1, 0, 0, 0, time.UTC))
	if !open.runCycle(context.Background()) || r.calls != 1 {
		t.Errorf("cycle must run when market is open")
	}
}

func TestRunCycle_ErrorAndPanic(t *testing.T) {
	at := time.Date(2021, 3, 1, 10, 0, 0, 0, tokyo)

	failing := &fakeRunner{err: errors.New("scrape failed")}
	if !newTestScheduler(failing, &fakeNotifier{}, at).runCycle(context.Background()) {
		t.Error("failed cycle still counts as attempted")
	}

	n := &fakeNotifier{}
	panicking := &fakeRunner{panic: true}
	newTestScheduler(panicking, n, at).runCycle(context.Background())
	if len(n.errs) != 1 {
		t.Errorf("expected panic to be notified, got %d", len(n.errs))
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	r := &fakeRunner{}
	s := newTestScheduler(r, &fakeNotifier{}, time.Date(2021, 3, 1, 10, 0, 0, 0, tokyo))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	if r.calls != 1 {
		t.Errorf("expected the immediate cycle, got %d calls", r.calls)
	}
}
