package providers

import (
	"time"

	"github.com/i474232898/openweathermap-provider/internal/sun"
)

// mapWeatherCode translates an OpenWeatherMap condition id into the
// normalized WMO-style code used by weather.Record. Unknown ids map to 0.
func mapWeatherCode(id int) int {
	switch id {
	// Thunderstorm
	case 200, 210, 221, 230:
		return 95
	case 201, 211, 231:
		return 96
	case 202, 212, 232:
		return 99
	// Drizzle
	case 300, 310:
		return 51
	case 301, 311:
		return 53
	case 302, 312, 313, 314, 321:
		return 55
	// Rain
	case 500:
		return 61
	case 501:
		return 63
	case 502, 503, 504:
		return 65
	case 511:
		return 66
	case 520:
		return 80
	case 521:
		return 81
	case 522, 531:
		return 82
	// Snow
	case 600:
		return 71
	case 601:
		return 73
	case 602:
		return 75
	case 611, 612, 613, 615, 616, 620:
		return 85
	case 621, 622:
		return 86
	// Atmosphere
	case 701, 711, 721, 731, 741, 751, 761, 762, 771, 781:
		return 45
	// Clear and clouds
	case 800, 801, 802:
		return 1
	case 803:
		return 2
	case 804:
		return 3
	default:
		return 0
	}
}

// mapIcon picks the weather-icons glyph for id, using the night variant when
// at lies outside sunrise..sunset at the coordinate. ok is false for ids
// without an icon.
func mapIcon(id int, at time.Time, lat, lon float64) (icon string, ok bool) {
	if sun.IsNight(at, lat, lon) {
		icon = nightIcon(id)
	} else {
		icon = dayIcon(id)
	}
	return icon, icon != ""
}

func nightIcon(id int) string {
	switch id {
	case 200, 232, 231, 230, 202, 201:
		return "night-alt-thunderstorm"
	case 210, 221, 212, 211:
		return "night-alt-lightning"
	case 300, 500, 321, 301:
		return "night-alt-sprinkle"
	case 302, 504, 503, 502, 501, 314, 313, 312, 311, 310:
		return "night-alt-rain"
	case 511, 620, 616, 615, 612, 611:
		return "night-alt-rain-mix"
	case 520, 701, 522, 521:
		return "night-alt-showers"
	case 531:
		return "night-alt-storm-showers"
	case 600, 622, 621, 602:
		return "night-alt-snow"
	case 601:
		return "night-alt-sleet"
	case 741:
		return "night-fog"
	case 800:
		return "night-clear"
	case 801, 803, 802:
		return "night-alt-cloudy-gusts"
	case 804:
		return "night-alt-cloudy"
	case 906:
		return "night-alt-hail"
	default:
		return sharedIcon(id)
	}
}

func dayIcon(id int) string {
	switch id {
	case 200, 232, 231, 230, 202, 201:
		return "day-thunderstorm"
	case 210, 221, 212, 211:
		return "day-lightning"
	case 300, 500, 321, 301:
		return "day-sprinkle"
	case 302, 504, 503, 502, 501, 314, 313, 312, 311, 310:
		return "day-rain"
	case 511, 620, 616, 615, 612, 611:
		return "day-rain-mix"
	case 520, 701, 522, 521:
		return "day-showers"
	case 531:
		return "day-storm-showers"
	case 600, 622, 621, 602:
		return "day-snow"
	case 601:
		return "day-sleet"
	case 741:
		return "day-fog"
	case 800:
		return "day-sunny"
	case 801, 803, 802:
		return "day-cloudy-gusts"
	case 804:
		return "day-sunny-overcast"
	case 906:
		return "day-hail"
	default:
		return sharedIcon(id)
	}
}

// sharedIcon covers ids whose glyph does not depend on the time of day.
func sharedIcon(id int) string {
	switch id {
	case 711:
		return "smoke"
	case 721:
		return "day-haze"
	case 731, 762, 761:
		return "dust"
	case 781, 900:
		return "tornado"
	case 902:
		return "hurricane"
	case 903:
		return "snowflake-cold"
	case 904:
		return "hot"
	case 957:
		return "strong-wind"
	default:
		return ""
	}
}
