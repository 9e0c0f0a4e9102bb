// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"strings"

	"docmanager/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Locals keys set by the auth middleware.
const (
	LocalUserID = "userID"
	LocalRole   = "role"
	LocalEmail  = "email"
)

// RequireAuth verifies the bearer token and attaches the caller identity
// to the request context.
func RequireAuth(jwtSecret string) fiber.Handler {
	secret := []byte(jwtSecret)
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
				Error: "Missing or malformed authorization header",
			})
		}

		token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
				Error: "Invalid or expired token",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
				Error: "Invalid token claims",
			})
		}
		sub, ok := claims["sub"].(float64)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
				Error: "Invalid token subject",
			})
		}

		c.Locals(LocalUserID, uint(sub))
		if role, ok := claims["role"].(string); ok {
			c.Locals(LocalRole, models.Role(role))
		}
		if email, ok := claims["email"].(string); ok {
			c.Locals(LocalEmail, email)
		}
		return c.Next()
	}
}

// RequireCapability rejects callers whose role does not hold the
// capability. Must run after RequireAuth.
func RequireCapability(cap models.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(LocalRole).(models.Role)
		if !role.Can(cap) {
			return models.RespondWithError(c, models.NewUnauthorizedError("Role is not allowed to perform this action"))
		}
		return c.Next()
	}
}

// CallerFrom rebuilds the caller identity from request locals.
func CallerFrom(c *fiber.Ctx) models.Caller {
	id, _ := c.Locals(LocalUserID).(uint)
	role, _ := c.Locals(LocalRole).(models.Role)
	email, _ := c.Locals(LocalEmail).(string)
	return models.Caller{ID: id, Role: role, Email: email}
}
