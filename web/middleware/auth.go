package middleware

import (
	"github.com/Patricemapiye-ctrl/navira-forge/auth"
	"github.com/gofiber/fiber/v2"
)

const claimsKey = "claims"

// Protected rejects requests without a valid Bearer token and stores the
// token claims in the request locals.
func Protected(tokens *auth.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := auth.FromBearer(c.Get(fiber.HeaderAuthorization))
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing or malformed token",
			})
		}

		claims, err := tokens.ValidateToken(raw)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// RequireRole allows the request through only when the authenticated user
// holds one of the given roles. Role hiding in the UI is a convenience;
// this guard is the security boundary.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}
}

// Claims returns the authenticated token claims, or nil on an
// unauthenticated request.
func Claims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(claimsKey).(*auth.Claims)
	return claims
}
