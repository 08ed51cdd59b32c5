package sun

import (
	"testing"
	"time"
)

const (
	lat = 47.8739259
	lon = 8.0043961
)

func TestIsNight(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"midnight utc", time.Date(2022, 7, 31, 0, 0, 0, 0, time.UTC), true},
		{"noon utc", time.Date(2022, 7, 31, 12, 0, 0, 0, time.UTC), false},
		{"late evening", time.Date(2022, 7, 31, 21, 30, 0, 0, time.UTC), true},
		{"afternoon", time.Date(2022, 7, 31, 16, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNight(tt.at, lat, lon); got != tt.want {
				t.Fatalf("IsNight(%s) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestInfoOrdersEvents(t *testing.T) {
	day := time.Date(2022, 7, 31, 10, 0, 0, 0, time.UTC)
	ev := Info(day, lat, lon)
	if ev.Polar {
		t.Fatalf("did not expect polar conditions at %v,%v", lat, lon)
	}
	if !ev.Sunrise.Before(ev.Sunset) {
		t.Fatalf("sunrise %s not before sunset %s", ev.Sunrise, ev.Sunset)
	}
	if ev.Sunrise.Day() != 31 || ev.Sunset.Day() != 31 {
		t.Fatalf("expected events on the 31st, got %s / %s", ev.Sunrise, ev.Sunset)
	}

	// Boundaries are inclusive on the day side.
	if IsNight(ev.Sunrise, lat, lon) {
		t.Fatalf("sunrise instant classified as night")
	}
	if IsNight(ev.Sunset, lat, lon) {
		t.Fatalf("sunset instant classified as night")
	}
}

func TestPolar(t *testing.T) {
	const svalbardLat, svalbardLon = 78.22, 15.65

	summer := time.Date(2022, 6, 21, 0, 0, 0, 0, time.UTC)
	ev := Info(summer, svalbardLat, svalbardLon)
	if !ev.Polar || !ev.AlwaysUp {
		t.Fatalf("expected midnight sun, got %+v", ev)
	}
	if IsNight(summer, svalbardLat, svalbardLon) {
		t.Fatalf("midnight sun classified as night")
	}

	winter := time.Date(2022, 12, 21, 12, 0, 0, 0, time.UTC)
	if !IsNight(winter, svalbardLat, svalbardLon) {
		t.Fatalf("polar night noon classified as day")
	}
}
