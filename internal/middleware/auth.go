package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"okr-dashboard/internal/config"
	"okr-dashboard/internal/utils"
)

// AuthMiddleware validates the Bearer token and stores the caller's
// identity and tenant scope in the request context.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Authorization header is required",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid authorization header format",
			})
		}

		claims, err := utils.ValidateToken(parts[1], cfg.JWTSecret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid or expired token",
			})
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("tenant_id", claims.TenantID)
		c.Locals("area_id", claims.AreaID)
		c.Locals("username", claims.Username)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// AdminOnly rejects callers without the admin role.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals("role") != "admin" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "Admin access required",
			})
		}
		return c.Next()
	}
}

// TenantID reads the tenant scope placed by AuthMiddleware.
func TenantID(c *fiber.Ctx) int {
	if id, ok := c.Locals("tenant_id").(int); ok {
		return id
	}
	return 0
}

// AreaID reads the caller's area scope, nil for tenant-wide roles.
func AreaID(c *fiber.Ctx) *int {
	if id, ok := c.Locals("area_id").(*int); ok {
		return id
	}
	return nil
}

// Role reads the caller's role.
func Role(c *fiber.Ctx) string {
	if role, ok := c.Locals("role").(string); ok {
		return role
	}
	return ""
}
