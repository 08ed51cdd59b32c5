package providers

import (
	"encoding/json"
	"math"
	"time"

	"github.com/i474232898/openweathermap-provider/internal/units"
	"github.com/i474232898/openweathermap-provider/internal/weather"
)

// MapRawData maps a decoded OpenWeatherMap payload. Payloads with a "list"
// key map to a *weather.Collection whose items are typed forecast or
// historical relative to now; anything else maps to a single
// *weather.Record carrying typ. lat and lon are used when the payload has
// no coordinates of its own. An empty system means metric.
//
// Missing fields leave the corresponding record field unset; mapping never fails.
func (p *OpenWeatherMap) MapRawData(lat, lon float64, raw map[string]any, typ weather.Type, system units.System) weather.Result {
	list, ok := raw["list"]
	if !ok {
		return p.mapItem(lat, lon, raw, typ, system)
	}

	if city, ok := object(raw["city"]); ok {
		if coord, ok := object(city["coord"]); ok {
			if v, ok := number(coord["lat"]); ok {
				lat = v
			}
			if v, ok := number(coord["lon"]); ok {
				lon = v
			}
		}
	}

	col := &weather.Collection{}
	items, _ := list.([]any)
	now := p.now().Unix()
	for _, it := range items {
		item, _ := object(it)

		itemType := weather.TypeHistorical
		if dt, ok := number(item["dt"]); ok && int64(dt) > now {
			itemType = weather.TypeForecast
		}

		col.Add(p.mapItem(lat, lon, item, itemType, system))
	}

	return col
}

func (p *OpenWeatherMap) mapItem(lat, lon float64, raw map[string]any, typ weather.Type, system units.System) *weather.Record {
	if system == "" {
		system = units.Metric
	}

	if coord, ok := object(raw["coord"]); ok {
		if v, ok := number(coord["lon"]); ok {
			lon = v
		}
		if v, ok := number(coord["lat"]); ok {
			lat = v
		}
	}

	rec := &weather.Record{
		Latitude:  lat,
		Longitude: lon,
		Type:      typ,
		Sources:   p.Sources(),
	}

	// Without "dt" the record is stamped with the current time.
	ts := p.now().UTC()
	if dt, ok := number(raw["dt"]); ok {
		ts = time.Unix(int64(dt), 0).UTC()
	}
	rec.UTCDateTime = ts

	if main, ok := object(raw["main"]); ok {
		if v, ok := number(main["temp"]); ok {
			rec.Temperature = ptr(units.Temperature(v, units.Celsius, system))
		}
		if v, ok := number(main["feels_like"]); ok {
			rec.FeelsLike = ptr(units.Temperature(v, units.Celsius, system))
		}
		if v, ok := number(main["pressure"]); ok {
			rec.Pressure = ptr(units.Pressure(v, units.HPa, system))
		}
		if v, ok := number(main["humidity"]); ok {
			rec.Humidity = ptr(v)
		}
	}

	if wind, ok := object(raw["wind"]); ok {
		if v, ok := number(wind["speed"]); ok {
			rec.WindSpeed = ptr(units.Speed(v, units.MS, system))
		}
		if v, ok := number(wind["deg"]); ok {
			rec.WindDirection = ptr(v)
		}
	}

	if clouds, ok := object(raw["clouds"]); ok {
		if v, ok := number(clouds["all"]); ok {
			rec.CloudCover = ptr(v / 100)
		}
	}

	if v, ok := number(raw["pop"]); ok {
		rec.PrecipitationProbability = ptr(v)
	}

	if conditions, ok := raw["weather"].([]any); ok && len(conditions) > 0 {
		if first, ok := object(conditions[0]); ok {
			if id, ok := number(first["id"]); ok {
				code := int(id)
				rec.WeatherCode = mapWeatherCode(code)
				if icon, ok := mapIcon(code, ts, lat, lon); ok {
					rec.Icon = &icon
				}
			}
		}
	}

	return rec
}

func object(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// number accepts the shapes a decoded JSON number can take.
func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func ptr(v float64) *float64 {
	return &v
}
