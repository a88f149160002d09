package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/company-site-api/internal/models"
)

func roleApp(role interface{}, minimum string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if role != nil {
			c.Locals("user_role", role)
		}
		return c.Next()
	})
	app.Use(RequireRole(minimum))
	app.Get("/console", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequireRoleHierarchy(t *testing.T) {
	cases := []struct {
		name    string
		role    interface{}
		minimum string
		status  int
	}{
		{"editor meets editor", "editor", AuthRoleEditor, fiber.StatusOK},
		{"superadmin meets admin", "SuperAdmin", AuthRoleAdmin, fiber.StatusOK},
		{"typed role", models.RoleAdmin, AuthRoleAdmin, fiber.StatusOK},
		{"editor below admin", "editor", AuthRoleAdmin, fiber.StatusForbidden},
		{"unknown role", "viewer", AuthRoleEditor, fiber.StatusForbidden},
		{"missing role", nil, AuthRoleEditor, fiber.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := roleApp(tc.role, tc.minimum).Test(httptest.NewRequest(http.MethodGet, "/console", nil))
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestRequireRolePanicsOnUnknownMinimum(t *testing.T) {
	require.Panics(t, func() { RequireRole("owner") })
}
