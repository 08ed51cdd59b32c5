package httpapi

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/openweathermap-provider/internal/store"
	"github.com/i474232898/openweathermap-provider/internal/weather"
)

var validate = validator.New()

// WeatherService is what the routes need from weather.Service.
type WeatherService interface {
	Current(ctx context.Context, q weather.Query) (*weather.Record, error)
	Forecast(ctx context.Context, q weather.Query) (*weather.Collection, error)
	Historical(ctx context.Context, q weather.Query) (*weather.Record, error)
	HistoricalTimeline(ctx context.Context, q weather.Query) (*weather.Collection, error)
	Sources() []weather.Source
	GetLatest(loc weather.Location) (*weather.Record, error)
	GetForecast(loc weather.Location) ([]*weather.Record, error)
	GetRange(loc weather.Location, from, to time.Time) ([]*weather.Record, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
// locations maps the names accepted by the stored-data endpoints.
func RegisterRoutes(app *fiber.App, service WeatherService, locations []weather.Location) {
	v1 := app.Group("/api/v1")

	byName := make(map[string]weather.Location, len(locations))
	for _, l := range locations {
		byName[l.Key()] = l
	}

	v1.Get("/sources", func(c *fiber.Ctx) error {
		return c.JSON(service.Sources())
	})

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		q, err := parseCoordinateQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rec, err := service.Current(c.UserContext(), q.toQuery())
		if err != nil {
			return providerError(err)
		}
		return c.JSON(rec)
	})

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		q, err := parseCoordinateQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		col, err := service.Forecast(c.UserContext(), q.toQuery())
		if err != nil {
			return providerError(err)
		}
		return c.JSON(col)
	})

	v1.Get("/weather/historical", func(c *fiber.Ctx) error {
		q, err := parseCoordinateQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rec, err := service.Historical(c.UserContext(), q.toQuery())
		if err != nil {
			return providerError(err)
		}
		return c.JSON(rec)
	})

	v1.Get("/weather/historical/timeline", func(c *fiber.Ctx) error {
		q, err := parseCoordinateQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		col, err := service.HistoricalTimeline(c.UserContext(), q.toQuery())
		if err != nil {
			return providerError(err)
		}
		return c.JSON(col)
	})

	v1.Get("/weather/latest", func(c *fiber.Ctx) error {
		loc, err := lookupLocation(c, byName)
		if err != nil {
			return err
		}

		rec, err := service.GetLatest(loc)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather data for requested location")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
		}
		return c.JSON(rec)
	})

	v1.Get("/weather/forecast/stored", func(c *fiber.Ctx) error {
		loc, err := lookupLocation(c, byName)
		if err != nil {
			return err
		}

		records, err := service.GetForecast(loc)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no forecast stored for requested location")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch forecast")
		}
		return c.JSON(fiber.Map{
			"location": loc,
			"records":  records,
		})
	})

	v1.Get("/weather/history", func(c *fiber.Ctx) error {
		loc, err := lookupLocation(c, byName)
		if err != nil {
			return err
		}

		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		records, err := service.GetRange(loc, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather history for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather history")
		}

		return c.JSON(fiber.Map{
			"location": loc,
			"from":     req.From,
			"to":       req.To,
			"records":  records,
		})
	})
}

func providerError(err error) error {
	if errors.Is(err, weather.ErrNoWeatherData) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return fiber.NewError(fiber.StatusBadGateway, "weather provider request failed")
}

func lookupLocation(c *fiber.Ctx, byName map[string]weather.Location) (weather.Location, error) {
	name := c.Query("location")
	if name == "" {
		return weather.Location{}, fiber.NewError(fiber.StatusBadRequest, "location query parameter is required")
	}
	loc, ok := byName[name]
	if !ok {
		return weather.Location{}, fiber.NewError(fiber.StatusNotFound, "unknown location")
	}
	return loc, nil
}

// coordinateQuery holds query parameters for live provider requests.
type coordinateQuery struct {
	Lat *float64   `validate:"required,gte=-90,lte=90"`
	Lon *float64   `validate:"required,gte=-180,lte=180"`
	At  *time.Time
}

func (q coordinateQuery) toQuery() weather.Query {
	return weather.NewQuery(*q.Lat, *q.Lon, q.At)
}

func parseCoordinateQuery(c *fiber.Ctx) (coordinateQuery, error) {
	var q coordinateQuery

	var err error
	if q.Lat, err = parseFloat(c.Query("lat")); err != nil {
		return q, errors.New("lat must be a number")
	}
	if q.Lon, err = parseFloat(c.Query("lon")); err != nil {
		return q, errors.New("lon must be a number")
	}
	if s := c.Query("at"); s != "" {
		at, err := parseTime(s)
		if err != nil {
			return q, err
		}
		q.At = &at
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}

func parseFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC(), nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
