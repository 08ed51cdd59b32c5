package weather

import (
	"fmt"
	"strconv"
	"time"
)

// Type tags a record as current, forecast or historical data.
type Type string

const (
	TypeCurrent    Type = "current"
	TypeForecast   Type = "forecast"
	TypeHistorical Type = "historical"
)

// Query is the caller's request for weather at a coordinate.
// DateTime is optional and only meaningful for historical lookups.
type Query struct {
	Latitude  float64
	Longitude float64
	DateTime  *time.Time
}

// NewQuery creates a Query. at may be nil.
func NewQuery(lat, lon float64, at *time.Time) Query {
	q := Query{Latitude: lat, Longitude: lon}
	if at != nil {
		utc := at.UTC()
		q.DateTime = &utc
	}
	return q
}

// Location represents a logical place for which we track weather.
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	if l.Name != "" {
		return l.Name
	}
	return strconv.FormatFloat(l.Latitude, 'f', -1, 64) + ":" + strconv.FormatFloat(l.Longitude, 'f', -1, 64)
}

// Query builds a Query for the location's coordinates.
func (l Location) Query() Query {
	return NewQuery(l.Latitude, l.Longitude, nil)
}

func (l Location) String() string {
	return fmt.Sprintf("%s (%v,%v)", l.Key(), l.Latitude, l.Longitude)
}

// Source attributes a record to the provider it came from.
type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Record is a normalized weather observation or forecast for one instant.
// Optional measurements are nil when the provider did not report them.
type Record struct {
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	UTCDateTime time.Time `json:"utcDateTime"`
	Type        Type      `json:"type"`

	Temperature              *float64 `json:"temperature,omitempty"`
	FeelsLike                *float64 `json:"feelsLike,omitempty"`
	Pressure                 *float64 `json:"pressure,omitempty"`
	Humidity                 *float64 `json:"humidity,omitempty"`
	WindSpeed                *float64 `json:"windSpeed,omitempty"`
	WindDirection            *float64 `json:"windDirection,omitempty"`
	CloudCover               *float64 `json:"cloudCover,omitempty"`
	PrecipitationProbability *float64 `json:"precipitationProbability,omitempty"`

	WeatherCode int     `json:"weatherCode"`
	Icon        *string `json:"icon,omitempty"`

	Sources []Source `json:"sources"`
}

// Collection is an ordered list of records, kept in insertion order.
type Collection struct {
	Records []*Record `json:"records"`
}

// Add appends r to the collection.
func (c *Collection) Add(r *Record) {
	c.Records = append(c.Records, r)
}

// Len returns the number of records.
func (c *Collection) Len() int {
	return len(c.Records)
}

// Result is what a payload maps to: a single *Record or a *Collection.
type Result interface {
	// Items flattens the result into its records.
	Items() []*Record
	isResult()
}

func (r *Record) Items() []*Record { return []*Record{r} }
func (r *Record) isResult()        {}

func (c *Collection) Items() []*Record { return c.Records }
func (c *Collection) isResult()        {}
