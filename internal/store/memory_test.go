package store

import (
	"errors"
	"testing"
	"time"

	"github.com/i474232898/openweathermap-provider/internal/weather"
)

var todtnau = weather.Location{Name: "todtnau", Latitude: 47.83, Longitude: 7.94}

func record(ts time.Time) *weather.Record {
	return &weather.Record{UTCDateTime: ts, Type: weather.TypeCurrent}
}

func TestMemoryStoreLatestAndRange(t *testing.T) {
	s := NewMemoryStore(0, 0)

	if _, err := s.GetLatest(todtnau); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}

	base := time.Date(2022, 7, 31, 0, 0, 0, 0, time.UTC)
	s.Save(todtnau, record(base), record(base.Add(time.Hour)))
	s.Save(todtnau, record(base.Add(2*time.Hour)))

	latest, err := s.GetLatest(todtnau)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !latest.UTCDateTime.Equal(base.Add(2 * time.Hour)) {
		t.Fatalf("unexpected latest record %s", latest.UTCDateTime)
	}

	got, err := s.GetRange(todtnau, base.Add(time.Hour), base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records in inclusive range, got %d", len(got))
	}

	if _, err := s.GetRange(todtnau, base.Add(3*time.Hour), base.Add(4*time.Hour)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty range, got %v", err)
	}
}

func TestMemoryStoreRetention(t *testing.T) {
	now := time.Date(2022, 7, 31, 12, 0, 0, 0, time.UTC)

	s := NewMemoryStore(3, 24*time.Hour)
	s.now = func() time.Time { return now }

	s.Save(todtnau,
		record(now.Add(-48*time.Hour)),
		record(now.Add(-2*time.Hour)),
		record(now.Add(-1*time.Hour)),
		record(now),
		record(now.Add(3*time.Hour)),
	)

	got, err := s.GetRange(todtnau, now.Add(-72*time.Hour), now.Add(72*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records after count retention, got %d", len(got))
	}
	if !got[0].UTCDateTime.Equal(now.Add(-1 * time.Hour)) {
		t.Fatalf("expected oldest records to be dropped, first is %s", got[0].UTCDateTime)
	}

	s.Save(todtnau)
	if latest, _ := s.GetLatest(todtnau); !latest.UTCDateTime.Equal(now.Add(3 * time.Hour)) {
		t.Fatalf("saving nothing should not change the store")
	}
}

func TestMemoryStoreAgeRetentionDropsStale(t *testing.T) {
	now := time.Date(2022, 7, 31, 12, 0, 0, 0, time.UTC)

	s := NewMemoryStore(0, time.Hour)
	s.now = func() time.Time { return now }

	s.Save(todtnau, record(now.Add(-2*time.Hour)))
	if _, err := s.GetLatest(todtnau); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected stale record to be evicted, got %v", err)
	}
}

func TestMemoryStoreKeepsForecastApartFromObservations(t *testing.T) {
	s := NewMemoryStore(0, 0)
	base := time.Date(2022, 7, 31, 0, 0, 0, 0, time.UTC)

	if _, err := s.GetForecast(todtnau); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound without forecast, got %v", err)
	}

	current := record(base)
	s.Save(todtnau, current)
	s.ReplaceForecast(todtnau, []*weather.Record{
		{UTCDateTime: base.Add(3 * time.Hour), Type: weather.TypeForecast},
		{UTCDateTime: base.Add(6 * time.Hour), Type: weather.TypeForecast},
	})
	s.ReplaceForecast(todtnau, []*weather.Record{
		{UTCDateTime: base.Add(9 * time.Hour), Type: weather.TypeForecast},
	})

	latest, err := s.GetLatest(todtnau)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest != current {
		t.Fatalf("expected latest observation, got %+v", latest)
	}

	got, err := s.GetRange(todtnau, base, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected only the observation in range, got %d records", len(got))
	}

	forecast, err := s.GetForecast(todtnau)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(forecast) != 1 || !forecast[0].UTCDateTime.Equal(base.Add(9*time.Hour)) {
		t.Fatalf("expected forecast to be replaced, got %d records", len(forecast))
	}

	forecast[0] = nil
	if again, _ := s.GetForecast(todtnau); again[0] == nil {
		t.Fatalf("caller mutated stored forecast")
	}
}

func TestMemoryStoreTrimReleasesEvictedRecords(t *testing.T) {
	s := NewMemoryStore(2, 0)
	base := time.Date(2022, 7, 31, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		s.Save(todtnau, record(base.Add(time.Duration(i)*time.Hour)))
	}

	recs := s.data[todtnau.Key()].Records
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if cap(recs) != len(recs) {
		t.Fatalf("expected trimmed history to own its array, len %d cap %d", len(recs), cap(recs))
	}
	if !recs[0].UTCDateTime.Equal(base.Add(3 * time.Hour)) {
		t.Fatalf("unexpected oldest record %s", recs[0].UTCDateTime)
	}
}
