package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp() *fiber.App {
	handler := NewSelectionHandler(nil, nil, zap.NewNop())
	srv := fiber.New()
	srv.Get("/selection/run", handler.Run)
	srv.Get("/selection/status", handler.Status)
	return srv
}

func TestRunRejectsMalformedDate(t *testing.T) {
	srv := newTestApp()

	resp, err := srv.Test(httptest.NewRequest("GET", "/selection/run?date=10-06-2024", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestStatusRequiresDate(t *testing.T) {
	srv := newTestApp()

	resp, err := srv.Test(httptest.NewRequest("GET", "/selection/status", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = srv.Test(httptest.NewRequest("GET", "/selection/status?date=junk", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
