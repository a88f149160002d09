package handler_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/handler"
	"github.com/noah-isme/company-site-api/internal/service"
)

type mockSeedService struct {
	err       error
	lastToken string
	lastItems []dto.ProductCreateRequest
	result    service.ImportResult
}

func (m *mockSeedService) ImportProducts(_ context.Context, token string, items []dto.ProductCreateRequest) (service.ImportResult, error) {
	m.lastToken = token
	m.lastItems = items
	if m.err != nil {
		return service.ImportResult{}, m.err
	}
	return m.result, nil
}

func (m *mockSeedService) EnsureAdmin(context.Context, string, string, string) (bool, error) {
	return false, nil
}

func newSeedApp(svc service.SeedService) *fiber.App {
	app := fiber.New()
	handler.NewSeedHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/seed"))
	return app
}

func TestSeedHandler_ProductsSuccess(t *testing.T) {
	svc := &mockSeedService{result: service.ImportResult{Imported: 2, Skipped: []string{"broken"}}}
	app := newSeedApp(svc)

	req := jsonRequest(t, http.MethodPost, "/api/seed/products", map[string]interface{}{
		"items": []map[string]string{{"name": "Granite", "price": "10"}, {"name": "Marble", "price": "12"}},
	})
	req.Header.Set("X-Seed-Token", "secret")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool                 `json:"success"`
		Data    service.ImportResult `json:"data"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Equal(t, 2, response.Data.Imported)
	require.Equal(t, []string{"broken"}, response.Data.Skipped)
	require.Equal(t, "secret", svc.lastToken)
	require.Len(t, svc.lastItems, 2)
	require.Equal(t, "Granite", svc.lastItems[0].Name)
}

func TestSeedHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		statusCode int
		message    string
	}{
		{name: "disabled", err: service.ErrSeedDisabled, statusCode: fiber.StatusForbidden, message: "seeding disabled"},
		{name: "unauthorized", err: service.ErrSeedUnauthorized, statusCode: fiber.StatusForbidden, message: "invalid token"},
		{name: "empty", err: service.ErrSeedEmpty, statusCode: fiber.StatusBadRequest, message: "no items to import"},
		{name: "generic", err: errors.New("boom"), statusCode: fiber.StatusInternalServerError, message: "seed operation failed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newSeedApp(&mockSeedService{err: tc.err})

			req := jsonRequest(t, http.MethodPost, "/api/seed/products", map[string]interface{}{"items": []interface{}{}})
			req.Header.Set("X-Seed-Token", "secret")

			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.statusCode, resp.StatusCode)

			var response struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			decodeResponse(t, resp, &response)
			require.False(t, response.Success)
			require.Equal(t, tc.message, response.Message)
		})
	}
}

func TestSeedHandler_InvalidPayload(t *testing.T) {
	svc := &mockSeedService{}
	app := newSeedApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/seed/products", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Nil(t, svc.lastItems)
}
