package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/i474232898/openweathermap-provider/internal/weather"
)

// Fetcher is the part of weather.Service the scheduler drives.
type Fetcher interface {
	FetchAndStore(ctx context.Context, loc weather.Location) error
	FetchForecastAndStore(ctx context.Context, loc weather.Location) error
}

// Scheduler periodically fetches weather data for configured locations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Fetcher
	locations []weather.Location
	interval  time.Duration
	logger    *zap.Logger
}

// New creates a new Scheduler.
func New(locations []weather.Location, interval time.Duration, service Fetcher, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		locations: locations,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		s.logger.Info("scheduler: no locations configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval < time.Minute {
		interval = 15 * time.Minute
	}

	if _, err := s.scheduler.Every(interval).Do(s.RunOnce); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce fetches current weather and forecast for every location and waits for all of them.
func (s *Scheduler) RunOnce() {
	logger := s.logger.With(zap.String("run", uuid.NewString()))
	logger.Info("scheduler: running weather fetch job", zap.Int("locations", len(s.locations)))

	var wg sync.WaitGroup
	for _, loc := range s.locations {
		loc := loc // per-iteration copy; go.mod directive lowered below 1.22
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := s.service.FetchAndStore(ctx, loc); err != nil {
				logger.Warn("scheduler: current fetch failed", zap.String("location", loc.Key()), zap.Error(err))
			}
			if err := s.service.FetchForecastAndStore(ctx, loc); err != nil {
				logger.Warn("scheduler: forecast fetch failed", zap.String("location", loc.Key()), zap.Error(err))
			}
		}()
	}
	wg.Wait()
	logger.Info("scheduler: completed weather fetch job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
