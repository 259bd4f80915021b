package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/place-weather/internal/geocode"
	"github.com/i474232898/place-weather/internal/weather"
)

const (
	probeQuery     = "New Delhi"
	probeLatitude  = 28.6139
	probeLongitude = 77.2090
	probeTimeout   = 30 * time.Second
)

// Scheduler periodically probes the upstream providers and keeps the latest
// result per provider for the health endpoint.
type Scheduler struct {
	scheduler *gocron.Scheduler
	geocoder  geocode.Fetcher
	forecast  weather.Provider
	interval  time.Duration
	logger    *zap.SugaredLogger
	clock     func() time.Time

	geocoderHealth providerHealth
	forecastHealth providerHealth
}

// New creates a new Scheduler. A non-positive interval disables probing.
func New(geocoder geocode.Fetcher, forecast weather.Provider, interval time.Duration, logger *zap.SugaredLogger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		geocoder:  geocoder,
		forecast:  forecast,
		interval:  interval,
		logger:    logger,
		clock:     time.Now,
	}
}

// Start schedules the probe job and starts the underlying scheduler. The first
// run happens immediately.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Infow("health probe disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.logger.Infow("health probe scheduled", "interval", s.interval.String())
	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil && s.scheduler.IsRunning() {
		s.scheduler.Stop()
	}
}

// RunOnce probes both providers concurrently and records the outcome.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.logger.Debugw("running health probe")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := s.geocoder.Fetch(ctx, probeQuery, "")
		s.geocoderHealth.record(err, s.clock())
		if err != nil {
			s.logger.Warnw("geocoding probe failed", "provider", s.geocoder.Name(), "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		_, err := s.forecast.Fetch(ctx, probeLatitude, probeLongitude)
		s.forecastHealth.record(err, s.clock())
		if err != nil {
			s.logger.Warnw("forecast probe failed", "provider", s.forecast.Name(), "error", err)
		}
	}()
	wg.Wait()
}

// Status returns the last probe result keyed by provider name. Providers that
// have not been probed yet are omitted.
func (s *Scheduler) Status() map[string]ProviderStatus {
	out := make(map[string]ProviderStatus, 2)
	if st, ok := s.geocoderHealth.snapshot(); ok {
		out[s.geocoder.Name()] = st
	}
	if st, ok := s.forecastHealth.snapshot(); ok {
		out[s.forecast.Name()] = st
	}
	return out
}
