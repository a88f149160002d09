package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/company-site-api/internal/models"
	"github.com/noah-isme/company-site-api/internal/utils"
)

// Console roles in ascending order of privilege.
const (
	AuthRoleAny        = "any"
	AuthRoleEditor     = string(models.RoleEditor)
	AuthRoleAdmin      = string(models.RoleAdmin)
	AuthRoleSuperAdmin = string(models.RoleSuperAdmin)
)

var roleRank = map[string]int{
	AuthRoleEditor:     1,
	AuthRoleAdmin:      2,
	AuthRoleSuperAdmin: 3,
}

// RequireRole admits requests whose role is at least minimum. Unknown
// roles, including an empty one, are rejected.
func RequireRole(minimum string) fiber.Handler {
	minimum = strings.ToLower(strings.TrimSpace(minimum))
	required, known := roleRank[minimum]
	if !known {
		panic(fmt.Sprintf("middleware: unknown console role %q", minimum))
	}

	return func(c *fiber.Ctx) error {
		if !hasRank(c, required) {
			return utils.Fail(c, fiber.StatusForbidden, "insufficient permissions", fiber.Map{"required_role": minimum})
		}
		return c.Next()
	}
}

func hasRank(c *fiber.Ctx, required int) bool {
	current, ok := roleRank[normalizeRoleValue(c.Locals("user_role"))]
	return ok && current >= required
}

func normalizeRoleValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case models.UserRole:
		return strings.ToLower(strings.TrimSpace(string(v)))
	default:
		return strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", v)))
	}
}
