// Package units converts provider measurements into a target unit system.
package units

import (
	"errors"
	"fmt"
	"strings"

	"github.com/martinlindhe/unit"
)

// System is a unit system records are expressed in.
type System string

const (
	Metric   System = "metric"
	Imperial System = "imperial"
)

// Unit identifies the unit a raw value is expressed in.
type Unit string

const (
	Celsius    Unit = "celsius"
	Fahrenheit Unit = "fahrenheit"
	Kelvin     Unit = "kelvin"

	HPa  Unit = "hpa"
	InHg Unit = "inhg"

	MS  Unit = "m/s"
	KMH Unit = "km/h"
	MPH Unit = "mph"
)

// ErrUnknownSystem is returned by ParseSystem for unsupported names.
var ErrUnknownSystem = errors.New("unknown unit system")

// ParseSystem parses a unit system name. The empty string means metric.
func ParseSystem(s string) (System, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Metric):
		return Metric, nil
	case string(Imperial):
		return Imperial, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSystem, s)
	}
}

// TemperatureUnit returns the temperature unit used by the system.
func (s System) TemperatureUnit() Unit {
	if s == Imperial {
		return Fahrenheit
	}
	return Celsius
}

// PressureUnit returns the pressure unit used by the system.
func (s System) PressureUnit() Unit {
	if s == Imperial {
		return InHg
	}
	return HPa
}

// SpeedUnit returns the speed unit used by the system.
func (s System) SpeedUnit() Unit {
	if s == Imperial {
		return MPH
	}
	return MS
}

// Temperature converts v from the given unit into the system's temperature unit.
func Temperature(v float64, from Unit, to System) float64 {
	target := to.TemperatureUnit()
	if from == target {
		return v
	}

	var t unit.Temperature
	switch from {
	case Fahrenheit:
		t = unit.FromFahrenheit(v)
	case Kelvin:
		t = unit.FromKelvin(v)
	default:
		t = unit.FromCelsius(v)
	}

	if target == Fahrenheit {
		return t.Fahrenheit()
	}
	return t.Celsius()
}

// Pressure converts v from the given unit into the system's pressure unit.
func Pressure(v float64, from Unit, to System) float64 {
	target := to.PressureUnit()
	if from == target {
		return v
	}

	p := unit.Pressure(v) * unit.Hectopascal
	if from == InHg {
		p = unit.Pressure(v) * unit.InchOfMercury
	}

	if target == InHg {
		return float64(p / unit.InchOfMercury)
	}
	return float64(p / unit.Hectopascal)
}

// Speed converts v from the given unit into the system's speed unit.
func Speed(v float64, from Unit, to System) float64 {
	target := to.SpeedUnit()
	if from == target {
		return v
	}

	var sp unit.Speed
	switch from {
	case KMH:
		sp = unit.Speed(v) * unit.KilometersPerHour
	case MPH:
		sp = unit.Speed(v) * unit.MilesPerHour
	default:
		sp = unit.Speed(v) * unit.MetersPerSecond
	}

	if target == MPH {
		return float64(sp / unit.MilesPerHour)
	}
	return float64(sp / unit.MetersPerSecond)
}
