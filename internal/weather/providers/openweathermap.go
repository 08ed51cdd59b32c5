package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/i474232898/openweathermap-provider/internal/units"
	"github.com/i474232898/openweathermap-provider/internal/weather"
)

const defaultOpenWeatherMapBaseURL = "https://api.openweathermap.org/data/2.5"

// OpenWeatherMap implements weather.Provider on top of the OpenWeatherMap 2.5 API.
// It only serves current weather and forecasts; historical lookups fail with
// weather.ErrNoWeatherData.
type OpenWeatherMap struct {
	name    string
	apiKey  string
	baseURL string
	units   units.System
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	logger  *zap.Logger
	now     func() time.Time

	sourcesOnce sync.Once
	sources     []weather.Source
}

// Option configures an OpenWeatherMap provider.
type Option func(*OpenWeatherMap)

// WithBaseURL points the provider at a different API host, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(p *OpenWeatherMap) { p.baseURL = u }
}

// WithUnits sets the unit system records are converted into.
func WithUnits(s units.System) Option {
	return func(p *OpenWeatherMap) { p.units = s }
}

// WithLogger sets the provider's logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *OpenWeatherMap) { p.logger = l }
}

// WithBackoff overrides the retry policy.
func WithBackoff(b BackoffConfig) Option {
	return func(p *OpenWeatherMap) { p.httpCfg.Backoff = b }
}

// WithClock replaces the wall clock used to classify forecast items and to
// stamp items without a timestamp.
func WithClock(now func() time.Time) Option {
	return func(p *OpenWeatherMap) { p.now = now }
}

func NewOpenWeatherMap(client *http.Client, apiKey string, opts ...Option) *OpenWeatherMap {
	p := &OpenWeatherMap{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: defaultOpenWeatherMapBaseURL,
		units:   units.Metric,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: DefaultBackoff,
		},
		circuit: newCircuitBreaker("openweathermap"),
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *OpenWeatherMap) Name() string {
	return p.name
}

// Sources returns the attribution attached to every record. The slice is
// built once and shared; callers must not modify it.
func (p *OpenWeatherMap) Sources() []weather.Source {
	p.sourcesOnce.Do(func() {
		p.sources = []weather.Source{{
			ID:   "openweathermap",
			Name: "OpenWeatherMap",
			URL:  "https://openweathermap.org/",
		}}
	})
	return p.sources
}

// CurrentWeatherURL returns the current-weather endpoint for q.
func (p *OpenWeatherMap) CurrentWeatherURL(q weather.Query) string {
	return p.endpoint("weather", q)
}

// ForecastURL returns the 5 day / 3 hour forecast endpoint for q.
func (p *OpenWeatherMap) ForecastURL(q weather.Query) string {
	return p.endpoint("forecast", q)
}

// HistoricalURL always fails: the 2.5 API has no historical endpoint we use.
func (p *OpenWeatherMap) HistoricalURL(weather.Query) (string, error) {
	return "", weather.ErrNoWeatherData
}

// HistoricalTimelineURL always fails, see HistoricalURL.
func (p *OpenWeatherMap) HistoricalTimelineURL(weather.Query) (string, error) {
	return "", weather.ErrNoWeatherData
}

// Raw values are always requested in metric; conversion happens in MapRawData.
func (p *OpenWeatherMap) endpoint(path string, q weather.Query) string {
	return fmt.Sprintf(
		"%s/%s?lat=%s&lon=%s&appid=%s&units=%s",
		p.baseURL,
		path,
		formatCoordinate(q.Latitude),
		formatCoordinate(q.Longitude),
		p.apiKey,
		units.Metric,
	)
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (p *OpenWeatherMap) CurrentWeather(ctx context.Context, q weather.Query) (*weather.Record, error) {
	raw, err := p.fetch(ctx, p.CurrentWeatherURL(q))
	if err != nil {
		return nil, err
	}

	switch res := p.MapRawData(q.Latitude, q.Longitude, raw, weather.TypeCurrent, p.units).(type) {
	case *weather.Record:
		return res, nil
	case *weather.Collection:
		if res.Len() == 0 {
			return nil, weather.ErrNoWeatherData
		}
		return res.Records[0], nil
	default:
		return nil, fmt.Errorf("unexpected mapping result %T", res)
	}
}

func (p *OpenWeatherMap) Forecast(ctx context.Context, q weather.Query) (*weather.Collection, error) {
	raw, err := p.fetch(ctx, p.ForecastURL(q))
	if err != nil {
		return nil, err
	}

	switch res := p.MapRawData(q.Latitude, q.Longitude, raw, weather.TypeForecast, p.units).(type) {
	case *weather.Collection:
		return res, nil
	case *weather.Record:
		return &weather.Collection{Records: []*weather.Record{res}}, nil
	default:
		return nil, fmt.Errorf("unexpected mapping result %T", res)
	}
}

func (p *OpenWeatherMap) Historical(context.Context, weather.Query) (*weather.Record, error) {
	return nil, weather.ErrNoWeatherData
}

func (p *OpenWeatherMap) HistoricalTimeline(context.Context, weather.Query) (*weather.Collection, error) {
	return nil, weather.ErrNoWeatherData
}

func (p *OpenWeatherMap) fetch(ctx context.Context, u string) (map[string]any, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweathermap api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, p.logger, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var raw map[string]any
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}
