package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func roleApp(role interface{}) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if role != nil {
			c.Locals("user_role", role)
		}
		return c.Next()
	})
	app.Use(RequireRole(RoleProfessor, RoleAdmin))
	app.Get("/analytics", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequireRoleAllowsAuthorizedRoles(t *testing.T) {
	for _, role := range []string{"professor", "Admin", "Professeur"} {
		req := httptest.NewRequest(http.MethodGet, "/analytics", nil)
		resp, err := roleApp(role).Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, role)
	}
}

func TestRequireRoleRejectsUnauthorizedRoles(t *testing.T) {
	for _, role := range []string{"student", "Étudiant", "guest"} {
		req := httptest.NewRequest(http.MethodGet, "/analytics", nil)
		resp, err := roleApp(role).Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusForbidden, resp.StatusCode, role)
	}
}

func TestRequireRoleRejectsMissingRole(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/analytics", nil)
	resp, err := roleApp(nil).Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
