package weather

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeProvider struct {
	current  *Record
	forecast *Collection
	err      error
	queries  []Query
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Sources() []Source {
	return []Source{{ID: "fake", Name: "Fake", URL: "https://example.com"}}
}

func (f *fakeProvider) CurrentWeather(_ context.Context, q Query) (*Record, error) {
	f.queries = append(f.queries, q)
	return f.current, f.err
}

func (f *fakeProvider) Forecast(_ context.Context, q Query) (*Collection, error) {
	f.queries = append(f.queries, q)
	return f.forecast, f.err
}

func (f *fakeProvider) Historical(context.Context, Query) (*Record, error) {
	return nil, ErrNoWeatherData
}

func (f *fakeProvider) HistoricalTimeline(context.Context, Query) (*Collection, error) {
	return nil, ErrNoWeatherData
}

type fakeStore struct {
	saved     map[string][]*Record
	forecasts map[string][]*Record
}

func (s *fakeStore) Save(loc Location, records ...*Record) {
	if s.saved == nil {
		s.saved = make(map[string][]*Record)
	}
	s.saved[loc.Key()] = append(s.saved[loc.Key()], records...)
}

func (s *fakeStore) ReplaceForecast(loc Location, records []*Record) {
	if s.forecasts == nil {
		s.forecasts = make(map[string][]*Record)
	}
	s.forecasts[loc.Key()] = records
}

func (s *fakeStore) GetForecast(loc Location) ([]*Record, error) {
	return s.forecasts[loc.Key()], nil
}

func (s *fakeStore) GetLatest(loc Location) (*Record, error) {
	recs := s.saved[loc.Key()]
	if len(recs) == 0 {
		return nil, errors.New("not found")
	}
	return recs[len(recs)-1], nil
}

func (s *fakeStore) GetRange(loc Location, _, _ time.Time) ([]*Record, error) {
	return s.saved[loc.Key()], nil
}

var loc = Location{Name: "todtnau", Latitude: 47.83, Longitude: 7.94}

func TestFetchAndStore(t *testing.T) {
	rec := &Record{Type: TypeCurrent}
	p := &fakeProvider{current: rec}
	st := &fakeStore{}
	svc := NewService(st, p, nil)

	if err := svc.FetchAndStore(context.Background(), loc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := svc.GetLatest(loc); got != rec {
		t.Fatalf("expected fetched record to be stored")
	}
	if q := p.queries[0]; q.Latitude != 47.83 || q.Longitude != 7.94 || q.DateTime != nil {
		t.Fatalf("unexpected query %+v", q)
	}
}

func TestFetchAndStoreKeepsLastGoodRecord(t *testing.T) {
	boom := errors.New("boom")
	st := &fakeStore{}
	st.Save(loc, &Record{Type: TypeCurrent})
	svc := NewService(st, &fakeProvider{err: boom}, nil)

	if err := svc.FetchAndStore(context.Background(), loc); !errors.Is(err, boom) {
		t.Fatalf("expected provider error to propagate, got %v", err)
	}
	if len(st.saved[loc.Key()]) != 1 {
		t.Fatalf("failed fetch must not touch the store")
	}
}

func TestFetchForecastAndStore(t *testing.T) {
	col := &Collection{}
	col.Add(&Record{Type: TypeForecast})
	col.Add(&Record{Type: TypeForecast})

	st := &fakeStore{}
	svc := NewService(st, &fakeProvider{forecast: col}, nil)

	if err := svc.FetchForecastAndStore(context.Background(), loc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.forecasts[loc.Key()]) != 2 {
		t.Fatalf("expected 2 stored forecast records, got %d", len(st.forecasts[loc.Key()]))
	}
	if len(st.saved[loc.Key()]) != 0 {
		t.Fatalf("forecast records must not be saved as observations")
	}
}

func TestHistoricalDelegates(t *testing.T) {
	svc := NewService(&fakeStore{}, &fakeProvider{}, nil)
	at := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, err := svc.Historical(context.Background(), NewQuery(1, 2, &at)); !errors.Is(err, ErrNoWeatherData) {
		t.Fatalf("expected ErrNoWeatherData, got %v", err)
	}
	if _, err := svc.HistoricalTimeline(context.Background(), NewQuery(1, 2, nil)); !errors.Is(err, ErrNoWeatherData) {
		t.Fatalf("expected ErrNoWeatherData, got %v", err)
	}
}

func TestServiceWithoutProvider(t *testing.T) {
	svc := NewService(&fakeStore{}, nil, nil)
	if err := svc.FetchAndStore(context.Background(), loc); err == nil {
		t.Fatalf("expected error without provider")
	}
	if svc.Sources() != nil {
		t.Fatalf("expected no sources without provider")
	}
}

func TestResultItems(t *testing.T) {
	rec := &Record{}
	var res Result = rec
	if items := res.Items(); len(items) != 1 || items[0] != rec {
		t.Fatalf("record should flatten to itself")
	}

	col := &Collection{}
	col.Add(rec)
	col.Add(&Record{})
	res = col
	if items := res.Items(); len(items) != 2 || items[0] != rec {
		t.Fatalf("collection should flatten in order")
	}
}

func TestLocationKey(t *testing.T) {
	if got := (Location{Latitude: 47.8739259, Longitude: -8.5}).Key(); got != "47.8739259:-8.5" {
		t.Fatalf("unexpected key %s", got)
	}
	if got := loc.Key(); got != "todtnau" {
		t.Fatalf("unexpected key %s", got)
	}
}
