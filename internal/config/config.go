package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelvins/geocoder"
	"go.uber.org/zap/zapcore"

	"github.com/i474232898/openweathermap-provider/internal/units"
	"github.com/i474232898/openweathermap-provider/internal/weather"
)

type AppConfig struct {
	OpenWeatherAPIKey string
	GeocoderAPIKey    string

	// FetchInterval controls how often we fetch data for each location.
	FetchInterval time.Duration
	HTTPTimeout   time.Duration

	// Units records are converted into.
	Units units.System

	// Locations to track.
	Locations []weather.Location

	// In-memory store retention.
	StoreMaxHistory int           // max number of records per location (0 = unlimited)
	StoreMaxAge     time.Duration // max age of records (0 = unlimited)

	Port     string
	LogLevel zapcore.Level

	// Notices are non-fatal remarks collected while loading, logged once the
	// logger exists.
	Notices []string
}

func (cfg *AppConfig) notice(format string, args ...any) {
	cfg.Notices = append(cfg.Notices, fmt.Sprintf(format, args...))
}

// GeocodeFunc resolves a city to coordinates.
type GeocodeFunc func(city, country string) (lat, lon float64, err error)

// geocode is swapped out in tests.
var geocode GeocodeFunc = googleGeocode

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := godotenv.Load(); err != nil {
		cfg.notice("no .env file found or error loading it: %v", err)
	}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	var err error
	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	if cfg.Units, err = units.ParseSystem(os.Getenv("WEATHER_UNITS")); err != nil {
		return nil, fmt.Errorf("invalid WEATHER_UNITS: %w", err)
	}

	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 96) // roughly 24h at 15-minute intervals
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", 24*time.Hour); err != nil {
		return nil, err
	}

	cfg.Port = getenvDefault("PORT", "8080")

	if cfg.LogLevel, err = zapcore.ParseLevel(getenvDefault("LOG_LEVEL", "info")); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	locs, err := ParseLocations(os.Getenv("WEATHER_LOCATIONS"))
	if err != nil {
		return nil, err
	}
	cityLocs, err := loadCityLocations(cfg)
	if err != nil {
		return nil, err
	}
	cfg.Locations = append(locs, cityLocs...)

	return cfg, nil
}

// ParseLocations parses "name:lat:lon" entries separated by semicolons.
func ParseLocations(s string) ([]weather.Location, error) {
	var locs []weather.Location
	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.Split(entry, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid location %q: want name:lat:lon", entry)
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || lat < -90 || lat > 90 {
			return nil, fmt.Errorf("invalid latitude in location %q", entry)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil || lon < -180 || lon > 180 {
			return nil, fmt.Errorf("invalid longitude in location %q", entry)
		}

		locs = append(locs, weather.Location{
			Name:      strings.TrimSpace(parts[0]),
			Latitude:  lat,
			Longitude: lon,
		})
	}
	return locs, nil
}

// loadCityLocations resolves WEATHER_LOCATION_CITY / WEATHER_LOCATION_COUNTRY
// through the geocoder. Without an API key, cities are skipped.
func loadCityLocations(cfg *AppConfig) ([]weather.Location, error) {
	city := os.Getenv("WEATHER_LOCATION_CITY")
	if city == "" {
		return nil, nil
	}
	if cfg.GeocoderAPIKey == "" {
		cfg.notice("WEATHER_LOCATION_CITY set but GEOCODER_API_KEY is empty; skipping city locations")
		return nil, nil
	}
	geocoder.ApiKey = cfg.GeocoderAPIKey

	cities := strings.Split(city, ",")
	countries := strings.Split(os.Getenv("WEATHER_LOCATION_COUNTRY"), ",")
	if len(cities) != len(countries) {
		return nil, fmt.Errorf("number of cities and countries must be the same")
	}

	var locs []weather.Location
	for i := range cities {
		c, country := strings.TrimSpace(cities[i]), strings.TrimSpace(countries[i])
		lat, lon, err := geocode(c, country)
		if err != nil {
			return nil, fmt.Errorf("geocode %s,%s: %w", c, country, err)
		}
		locs = append(locs, weather.Location{
			Name:      c + ":" + country,
			Latitude:  lat,
			Longitude: lon,
		})
	}

	return locs, nil
}

func googleGeocode(city, country string) (float64, float64, error) {
	loc, err := geocoder.Geocoding(geocoder.Address{City: city, Country: country})
	if err != nil {
		return 0, 0, err
	}
	return loc.Latitude, loc.Longitude, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
