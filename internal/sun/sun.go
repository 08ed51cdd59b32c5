// Package sun answers whether an instant falls between sunrise and sunset at a coordinate.
package sun

import (
	"math"
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// Events holds sunrise and sunset for one UTC calendar date at a coordinate.
// When the sun does not rise or set that day, Polar is set and AlwaysUp
// says whether it stays above the horizon.
type Events struct {
	Sunrise  time.Time
	Sunset   time.Time
	Polar    bool
	AlwaysUp bool
}

// Info computes sun events for the UTC date of t.
func Info(t time.Time, lat, lon float64) Events {
	t = t.UTC()
	rise, set := sunrise.SunriseSunset(lat, lon, t.Year(), t.Month(), t.Day())
	if rise.IsZero() || set.IsZero() {
		return Events{Polar: true, AlwaysUp: noonElevation(t, lat) > 0}
	}
	return Events{Sunrise: rise.UTC(), Sunset: set.UTC()}
}

// IsNight reports whether t is strictly before sunrise or strictly after sunset.
func IsNight(t time.Time, lat, lon float64) bool {
	ev := Info(t, lat, lon)
	if ev.Polar {
		return !ev.AlwaysUp
	}
	return t.Before(ev.Sunrise) || t.After(ev.Sunset)
}

// noonElevation approximates the solar elevation at local noon, in degrees.
func noonElevation(t time.Time, lat float64) float64 {
	doy := float64(t.YearDay())
	decl := -23.44 * math.Cos(2*math.Pi/365*(doy+10))
	return 90 - math.Abs(lat-decl)
}
