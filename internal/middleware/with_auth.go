package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/company-site-api/internal/utils"
)

// AuthOptions configures the WithAuth helper.
type AuthOptions struct {
	// Role is the minimum console role. Higher roles are accepted.
	Role           string
	AllowAnonymous bool
}

// WithAuth guards a single route. Anonymous access is only granted when
// AllowAnonymous is set and no role is required.
func WithAuth(handler fiber.Handler, opts AuthOptions) fiber.Handler {
	role := strings.ToLower(strings.TrimSpace(opts.Role))
	if role == "" {
		role = AuthRoleAny
	}
	allowAnonymous := opts.AllowAnonymous && role == AuthRoleAny
	required, known := roleRank[role]

	return func(c *fiber.Ctx) error {
		if c.Locals("user_id") == nil {
			if allowAnonymous {
				return handler(c)
			}
			return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
		}
		if role == AuthRoleAny {
			return handler(c)
		}
		if !known || !hasRank(c, required) {
			return utils.Fail(c, fiber.StatusForbidden, "insufficient permissions", fiber.Map{"required_role": role})
		}
		return handler(c)
	}
}
