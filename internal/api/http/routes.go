package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/umbrella-alerts/umbrella/internal/forecast"
	"github.com/umbrella-alerts/umbrella/internal/scheduler"
	"github.com/umbrella-alerts/umbrella/internal/store"
)

var validate = validator.New()

// JobLister exposes the scheduler's job table.
type JobLister interface {
	Jobs() []scheduler.JobStatus
}

// ForecastSource exposes the latest fetched documents.
type ForecastSource interface {
	Latest(key string) (*forecast.Document, error)
	Keys() []string
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, jobs JobLister, source ForecastSource) {
	v1 := app.Group("/api/v1")

	v1.Get("/jobs", func(c *fiber.Ctx) error {
		statuses := jobs.Jobs()
		return c.JSON(fiber.Map{
			"count": len(statuses),
			"jobs":  statuses,
		})
	})

	v1.Get("/forecast/locations", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"locations": source.Keys()})
	})

	v1.Get("/forecast/latest", func(c *fiber.Ctx) error {
		req, err := parseLatestQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		doc, err := source.Latest(req.Key)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no forecast data for requested location")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch forecast data")
		}

		return c.JSON(doc)
	})
}

// latestQuery holds query parameters for the latest-forecast endpoint.
type latestQuery struct {
	Key string `validate:"required"`
}

func parseLatestQuery(c *fiber.Ctx) (latestQuery, error) {
	q := latestQuery{Key: c.Query("key")}
	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}
