package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-reporter/internal/weather"
)

// Updater is the part of weather.Reporter the scheduler drives.
type Updater interface {
	Update(ctx context.Context) (weather.UpdateStatus, error)
}

// Scheduler periodically asks the reporter to refresh its snapshot.
// The reporter's freshness gate decides whether a fetch actually happens.
type Scheduler struct {
	scheduler *gocron.Scheduler
	updater   Updater
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler.
func New(interval time.Duration, updater Updater) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		updater:   updater,
		interval:  interval,
		timeout:   30 * time.Second,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	status, err := s.updater.Update(ctx)
	switch {
	case err == nil:
		log.Printf("scheduler: weather update %s", status)
	case errors.Is(err, weather.ErrLocationUnavailable):
		log.Println("scheduler: waiting for location")
	default:
		log.Printf("scheduler: weather update %s: %v", status, err)
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
