package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lor-tracker-api/internal/policy"
)

func setupRoleApp(roles ...policy.Role) *fiber.App {
	app := fiber.New()
	app.Get("/guarded", func(c *fiber.Ctx) error {
		c.Locals(LocalUserID, uint(7))
		c.Locals(LocalUserRole, policy.Role(c.Get("X-Test-Role")))
		return c.Next()
	}, RequireRole(roles...), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequireRoleAllowsListedRoles(t *testing.T) {
	app := setupRoleApp(policy.RoleStudent, policy.RoleAlumni)

	for _, role := range []string{"student", "alumni"} {
		req := httptest.NewRequest("GET", "/guarded", nil)
		req.Header.Set("X-Test-Role", role)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, "role %s should pass", role)
	}
}

func TestRequireRoleRejectsOtherRoles(t *testing.T) {
	app := setupRoleApp(policy.RoleFaculty)

	for _, role := range []string{"student", "admin", "auditor"} {
		req := httptest.NewRequest("GET", "/guarded", nil)
		req.Header.Set("X-Test-Role", role)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusForbidden, resp.StatusCode, "role %s should be rejected", role)
	}
}

func TestRequireRoleRejectsMissingPrincipal(t *testing.T) {
	app := fiber.New()
	app.Get("/guarded", RequireRole(policy.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
