package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsLabelsFiberErrorWithItsStatus(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	app.Use(Metrics())
	app.Get("/missing/:id", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "no such record")
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/missing/:id", "404"))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/missing/7", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/missing/:id", "404"))
	assert.Equal(t, before+1, after)
}

func TestMetricsLabelsPlainErrorAsInternal(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	app.Use(Metrics())
	app.Get("/broken", func(c *fiber.Ctx) error {
		return errors.New("store unavailable")
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/broken", "500"))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/broken", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/broken", "500"))
	assert.Equal(t, before+1, after)
}

func TestMetricsLabelsSuccessWithWrittenStatus(t *testing.T) {
	app := fiber.New()
	app.Use(Metrics())
	app.Get("/fine", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/fine", "200"))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/fine", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/fine", "200"))
	assert.Equal(t, before+1, after)
}
