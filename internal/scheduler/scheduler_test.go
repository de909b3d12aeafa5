package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/i474232898/weather-reporter/internal/weather"
)

type countingUpdater struct {
	calls atomic.Int32
	ran   chan struct{}
}

func (u *countingUpdater) Update(ctx context.Context) (weather.UpdateStatus, error) {
	if u.calls.Add(1) == 1 {
		close(u.ran)
	}
	return weather.StatusNotDue, nil
}

func TestSchedulerRunsImmediately(t *testing.T) {
	u := &countingUpdater{ran: make(chan struct{})}
	s := New(time.Hour, u)
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Stop()

	select {
	case <-u.ran:
	case <-time.After(5 * time.Second):
		t.Fatalf("expected the first update to run on start")
	}
}

func TestSchedulerRunHandlesErrors(t *testing.T) {
	s := New(time.Minute, updaterFunc(func(ctx context.Context) (weather.UpdateStatus, error) {
		if _, ok := ctx.Deadline(); !ok {
			t.Fatalf("expected update to run with a deadline")
		}
		return weather.StatusDeferred, weather.ErrLocationUnavailable
	}))
	s.run()
}

type updaterFunc func(ctx context.Context) (weather.UpdateStatus, error)

func (f updaterFunc) Update(ctx context.Context) (weather.UpdateStatus, error) {
	return f(ctx)
}
