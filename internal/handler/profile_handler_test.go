package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/handler"
	"github.com/noah-isme/company-site-api/internal/service"
)

type mockProfileService struct {
	passwordErr error
	lastUserID  uint
	lastUpdate  dto.ProfileUpdateRequest
}

func (m *mockProfileService) Get(_ context.Context, userID uint) (dto.ProfileResponse, error) {
	m.lastUserID = userID
	return dto.ProfileResponse{ID: userID, Username: "editor"}, nil
}

func (m *mockProfileService) UpdateProfile(_ context.Context, userID uint, req dto.ProfileUpdateRequest) (dto.ProfileResponse, error) {
	m.lastUserID = userID
	m.lastUpdate = req
	return dto.ProfileResponse{ID: userID, Username: "editor"}, nil
}

func (m *mockProfileService) ChangePassword(_ context.Context, userID uint, _ dto.PasswordChangeRequest) error {
	m.lastUserID = userID
	return m.passwordErr
}

func newProfileApp(svc service.ProfileService, userID uint) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/admin/profile", func(c *fiber.Ctx) error {
		if userID != 0 {
			c.Locals("user_id", userID)
		}
		return c.Next()
	})
	handler.NewProfileHandler(svc, zerolog.Nop()).Register(group)
	return app
}

func TestProfileHandler_UsesAuthenticatedUser(t *testing.T) {
	svc := &mockProfileService{}
	app := newProfileApp(svc, 9)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/admin/profile", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, uint(9), svc.lastUserID)

	resp, err = app.Test(jsonRequest(t, http.MethodPatch, "/api/admin/profile", map[string]string{"full_name": "New Name"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, svc.lastUpdate.FullName)
	require.Equal(t, "New Name", *svc.lastUpdate.FullName)
}

func TestProfileHandler_RequiresUser(t *testing.T) {
	resp, err := newProfileApp(&mockProfileService{}, 0).Test(jsonRequest(t, http.MethodGet, "/api/admin/profile", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProfileHandler_PasswordErrors(t *testing.T) {
	cases := map[error]int{
		service.ErrPasswordMismatch:  http.StatusBadRequest,
		service.ErrPasswordUnchanged: http.StatusBadRequest,
		service.ErrUserNotFound:      http.StatusNotFound,
		nil:                          http.StatusOK,
	}

	for svcErr, status := range cases {
		app := newProfileApp(&mockProfileService{passwordErr: svcErr}, 3)
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/admin/profile/password", dto.PasswordChangeRequest{
			CurrentPassword: "old-password",
			NewPassword:     "new-password",
		}))
		require.NoError(t, err)
		require.Equal(t, status, resp.StatusCode)
	}
}
