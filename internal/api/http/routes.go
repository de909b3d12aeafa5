package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-reporter/internal/weather"
)

var validate = validator.New()

// Reporter is the part of weather.Reporter the HTTP API needs.
type Reporter interface {
	Update(ctx context.Context) (weather.UpdateStatus, error)
	Snapshot() (weather.Snapshot, error)
	Report() weather.Report
	Config() weather.ReporterConfig
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, reporter Reporter) {
	v1 := app.Group("/api/v1")

	v1.Get("/conditions", func(c *fiber.Ctx) error {
		var q conditionsQuery
		q.Window = c.Query("window")
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "window must be one of past, today, future")
		}

		report := reporter.Report()
		if q.Window == "" {
			return c.JSON(conditionsResponse(report))
		}

		cfg := reporter.Config()
		var v weather.Verdict
		switch weather.Window(q.Window) {
		case weather.WindowPast:
			v = report.WasDry
		case weather.WindowToday:
			v = report.IsDry
		case weather.WindowFuture:
			v = report.WillBeDry
		}
		r, _ := cfg.Window.Range(weather.Window(q.Window))
		return c.JSON(fiber.Map{
			"window":     q.Window,
			"firstIndex": r.Lo,
			"days":       r.Len(),
			"dry":        v.Bool(),
			"verdict":    v,
			"snapshotId": report.SnapshotID,
		})
	})

	v1.Get("/snapshot", func(c *fiber.Ctx) error {
		snap, err := reporter.Snapshot()
		if err != nil {
			if errors.Is(err, weather.ErrNoSnapshot) {
				return fiber.NewError(fiber.StatusNotFound, "no weather data fetched yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read weather data")
		}
		return c.JSON(snap)
	})

	v1.Post("/update", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 30*time.Second)
		defer cancel()

		status, err := reporter.Update(ctx)
		body := fiber.Map{"status": status}
		switch {
		case err == nil:
			return c.JSON(body)
		case errors.Is(err, weather.ErrUpdateInProgress):
			body["error"] = err.Error()
			return c.Status(fiber.StatusConflict).JSON(body)
		case errors.Is(err, weather.ErrLocationUnavailable):
			body["error"] = err.Error()
			return c.Status(fiber.StatusAccepted).JSON(body)
		case errors.Is(err, weather.ErrFetchFailed):
			body["error"] = err.Error()
			return c.Status(fiber.StatusBadGateway).JSON(body)
		default:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	})
}

// conditionsQuery holds query parameters for the conditions endpoint.
type conditionsQuery struct {
	Window string `validate:"omitempty,oneof=past today future"`
}

func conditionsResponse(r weather.Report) fiber.Map {
	return fiber.Map{
		"wasDry":     r.WasDry.Bool(),
		"isDry":      r.IsDry.Bool(),
		"willBeDry":  r.WillBeDry.Bool(),
		"isWindy":    r.IsWindy.Bool(),
		"verdicts":   r,
		"snapshotId": r.SnapshotID,
	}
}
