package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/flashmind-analytics-api/internal/utils"
)

// Roles recognised by the quiz platform.
const (
	RoleProfessor = "professor"
	RoleAdmin     = "admin"
	RoleStudent   = "student"
)

// roleAliases maps the localised labels some accounts carry to their role.
var roleAliases = map[string]string{
	"professeur":     RoleProfessor,
	"instructor":     RoleProfessor,
	"étudiant":       RoleStudent,
	"etudiant":       RoleStudent,
	"administrateur": RoleAdmin,
}

// RequireRole admits callers whose role, set by JWTProtected, is one of roles.
// A caller without a role is unauthenticated (401); any other role is
// forbidden (403).
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		if canonical := canonicalRole(role); canonical != "" {
			allowed[canonical] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		value, _ := c.Locals("user_role").(string)
		role := canonicalRole(value)
		if role == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
		}
		if _, ok := allowed[role]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

func canonicalRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	if alias, ok := roleAliases[role]; ok {
		return alias
	}
	return role
}
