package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/company-site-api/internal/middleware"
)

func TestWithAuth(t *testing.T) {
	type identity struct {
		userID uint
		role   string
	}
	cases := []struct {
		name   string
		who    *identity
		opts   middleware.AuthOptions
		status int
	}{
		{"superadmin deletes product", &identity{10, "SuperAdmin"}, middleware.AuthOptions{Role: middleware.AuthRoleAdmin}, fiber.StatusNoContent},
		{"editor cannot delete product", &identity{11, "editor"}, middleware.AuthOptions{Role: middleware.AuthRoleAdmin}, fiber.StatusForbidden},
		{"unknown required role", &identity{10, "superadmin"}, middleware.AuthOptions{Role: "owner"}, fiber.StatusForbidden},
		{"signed in any role", &identity{12, "editor"}, middleware.AuthOptions{}, fiber.StatusNoContent},
		{"anonymous rejected by default", nil, middleware.AuthOptions{}, fiber.StatusUnauthorized},
		{"anonymous opt in", nil, middleware.AuthOptions{AllowAnonymous: true}, fiber.StatusNoContent},
		{"anonymous opt in ignored with role", nil, middleware.AuthOptions{Role: middleware.AuthRoleEditor, AllowAnonymous: true}, fiber.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			if tc.who != nil {
				who := *tc.who
				app.Use(func(c *fiber.Ctx) error {
					c.Locals("user_id", who.userID)
					c.Locals("user_role", who.role)
					return c.Next()
				})
			}
			app.Delete("/products/1", middleware.WithAuth(func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusNoContent)
			}, tc.opts))

			resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/products/1", nil), -1)
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
