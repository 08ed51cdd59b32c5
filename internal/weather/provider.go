package weather

import (
	"context"
	"errors"
	"time"
)

// ErrNoWeatherData is returned when a provider cannot serve the requested kind of data.
var ErrNoWeatherData = errors.New("no weather data available")

// Provider abstracts a weather data source.
type Provider interface {
	Name() string
	Sources() []Source

	CurrentWeather(ctx context.Context, q Query) (*Record, error)
	Forecast(ctx context.Context, q Query) (*Collection, error)
	Historical(ctx context.Context, q Query) (*Record, error)
	HistoricalTimeline(ctx context.Context, q Query) (*Collection, error)
}

// Store is the contract the in-memory store (and any future persistent store) must satisfy.
type Store interface {
	Save(loc Location, records ...*Record)
	ReplaceForecast(loc Location, records []*Record)
	GetLatest(loc Location) (*Record, error)
	GetForecast(loc Location) ([]*Record, error)
	GetRange(loc Location, from, to time.Time) ([]*Record, error)
}
