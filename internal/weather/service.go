package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Service orchestrates fetching from the provider and persisting records.
type Service struct {
	store    Store
	provider Provider
	logger   *zap.Logger
}

// NewService creates a new Service. A nil logger disables logging.
func NewService(store Store, provider Provider, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		provider: provider,
		logger:   logger,
	}
}

// FetchAndStore fetches current weather for the location and stores it.
func (s *Service) FetchAndStore(ctx context.Context, loc Location) error {
	if s.provider == nil {
		return fmt.Errorf("no weather provider configured")
	}

	s.logger.Debug("fetching current weather", zap.String("location", loc.Key()), zap.String("provider", s.provider.Name()))

	rec, err := s.provider.CurrentWeather(ctx, loc.Query())
	if err != nil {
		// Do not overwrite the last good record.
		s.logger.Warn("current weather fetch failed", zap.String("location", loc.Key()), zap.Error(err))
		return err
	}

	s.store.Save(loc, rec)
	return nil
}

// FetchForecastAndStore fetches the forecast for the location and replaces the stored one.
func (s *Service) FetchForecastAndStore(ctx context.Context, loc Location) error {
	if s.provider == nil {
		return fmt.Errorf("no weather provider configured")
	}

	col, err := s.provider.Forecast(ctx, loc.Query())
	if err != nil {
		s.logger.Warn("forecast fetch failed", zap.String("location", loc.Key()), zap.Error(err))
		return err
	}
	if col.Len() == 0 {
		s.logger.Info("forecast returned no records", zap.String("location", loc.Key()))
		return nil
	}

	s.store.ReplaceForecast(loc, col.Items())
	return nil
}

// Current fetches live current weather.
func (s *Service) Current(ctx context.Context, q Query) (*Record, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("no weather provider configured")
	}
	return s.provider.CurrentWeather(ctx, q)
}

// Forecast fetches a live forecast.
func (s *Service) Forecast(ctx context.Context, q Query) (*Collection, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("no weather provider configured")
	}
	return s.provider.Forecast(ctx, q)
}

// Historical asks the provider for historical weather at q.DateTime.
func (s *Service) Historical(ctx context.Context, q Query) (*Record, error) {
	if s.provider == nil {
		return nil, ErrNoWeatherData
	}
	rec, err := s.provider.Historical(ctx, q)
	if errors.Is(err, ErrNoWeatherData) {
		s.logger.Debug("provider has no historical data", zap.String("provider", s.provider.Name()))
	}
	return rec, err
}

// HistoricalTimeline asks the provider for a historical timeline.
func (s *Service) HistoricalTimeline(ctx context.Context, q Query) (*Collection, error) {
	if s.provider == nil {
		return nil, ErrNoWeatherData
	}
	return s.provider.HistoricalTimeline(ctx, q)
}

// Sources returns the attribution of the configured provider.
func (s *Service) Sources() []Source {
	if s.provider == nil {
		return nil
	}
	return s.provider.Sources()
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest(loc Location) (*Record, error) {
	return s.store.GetLatest(loc)
}

// GetForecast returns the last stored forecast for the location.
func (s *Service) GetForecast(loc Location) ([]*Record, error) {
	return s.store.GetForecast(loc)
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(loc Location, from, to time.Time) ([]*Record, error) {
	return s.store.GetRange(loc, from, to)
}
