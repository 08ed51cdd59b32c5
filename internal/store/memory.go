package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/openweathermap-provider/internal/weather"
)

var (
	// ErrNotFound is returned when no data is available for a given location.
	ErrNotFound = errors.New("no weather data for location")
)

// RecordHistory holds the observations saved for a location, in insertion
// order, and the most recent forecast fetched for it.
type RecordHistory struct {
	Records  []*weather.Record
	Forecast []*weather.Record
}

// MemoryStore is a concurrency-safe in-memory implementation of a weather store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key, value: history
	data map[string]*RecordHistory

	maxHistory int           // max number of observations per location
	maxAge     time.Duration // optional max age for observations
	now        func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited; likewise maxAge.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*RecordHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

func (s *MemoryStore) history(key string) *RecordHistory {
	history, ok := s.data[key]
	if !ok {
		history = &RecordHistory{}
		s.data[key] = history
	}
	return history
}

// Save appends observations for a location and enforces retention.
func (s *MemoryStore) Save(loc weather.Location, records ...*weather.Record) {
	if len(records) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.history(loc.Key())
	recs := append(history.Records, records...)

	start := 0
	if s.maxHistory > 0 && len(recs) > s.maxHistory {
		start = len(recs) - s.maxHistory
	}

	var cutoff time.Time
	if s.maxAge > 0 {
		cutoff = s.now().Add(-s.maxAge)
	}

	// Copy survivors so evicted records do not stay reachable through the old array.
	kept := make([]*weather.Record, 0, len(recs)-start)
	for _, r := range recs[start:] {
		if s.maxAge > 0 && r.UTCDateTime.Before(cutoff) {
			continue
		}
		kept = append(kept, r)
	}
	history.Records = kept
}

// ReplaceForecast swaps the stored forecast for a location with records.
func (s *MemoryStore) ReplaceForecast(loc weather.Location, records []*weather.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.history(loc.Key())
	history.Forecast = append([]*weather.Record(nil), records...)
}

// GetForecast returns the last forecast stored for a location.
func (s *MemoryStore) GetForecast(loc weather.Location) ([]*weather.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[loc.Key()]
	if !ok || len(history.Forecast) == 0 {
		return nil, ErrNotFound
	}
	return append([]*weather.Record(nil), history.Forecast...), nil
}

// GetLatest returns the most recently saved observation for a location.
func (s *MemoryStore) GetLatest(loc weather.Location) (*weather.Record, error) {
	key := loc.Key()

	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[key]
	if !ok || len(history.Records) == 0 {
		return nil, ErrNotFound
	}
	return history.Records[len(history.Records)-1], nil
}

// GetRange returns all observations for a location whose timestamp lies between from and to (inclusive).
func (s *MemoryStore) GetRange(loc weather.Location, from, to time.Time) ([]*weather.Record, error) {
	key := loc.Key()

	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[key]
	if !ok || len(history.Records) == 0 {
		return nil, ErrNotFound
	}

	var result []*weather.Record
	for _, r := range history.Records {
		if !r.UTCDateTime.Before(from) && !r.UTCDateTime.After(to) {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	return result, nil
}
