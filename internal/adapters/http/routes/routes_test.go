package routes

import (
	"net/http/httptest"
	"testing"

	"siamvisa-backoffice/internal/adapters/persistence/models"
	"siamvisa-backoffice/internal/config"
	"siamvisa-backoffice/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The guards reject before any handler runs, so no database is needed.
func newRouteApp() (*fiber.App, *config.Config) {
	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:           "route-test-secret",
			RefreshSecret:    "route-test-refresh",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}
	app := fiber.New()
	Setup(app, nil, nil, cfg)
	return app, cfg
}

var guardedPaths = []string{
	"/api/v1/users/1",
	"/api/v1/clients/1",
	"/api/v1/visas/1",
	"/api/v1/properties/1",
	"/api/v1/clients/stats",
	"/api/v1/visas/stats",
	"/api/v1/properties/stats",
}

func TestEntityRoutesRejectNonAdminRole(t *testing.T) {
	app, cfg := newRouteApp()
	token, err := jwt.GenerateAccessToken(3, "somchai@example.com", models.RoleUser, cfg.JWT.Secret, 15)
	require.NoError(t, err)

	for _, path := range guardedPaths {
		req := httptest.NewRequest(fiber.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, path)
	}
}

func TestEntityRoutesRejectMissingToken(t *testing.T) {
	app, _ := newRouteApp()

	for _, path := range guardedPaths {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestVocabulariesRouteIsPublic(t *testing.T) {
	app, _ := newRouteApp()

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/meta/vocabularies", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
