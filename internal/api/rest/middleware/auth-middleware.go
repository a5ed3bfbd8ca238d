package middleware

import (
	"strings"

	"github.com/ScholarLink/application_service/internal/dto"
	"github.com/ScholarLink/application_service/internal/helper"
	"github.com/ScholarLink/application_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware verifies the token and builds the per-request Session,
// resolving admin privilege once up front. Everything downstream reads the
// session from locals instead of re-checking auth state.
func AuthMiddleware(auth helper.Auth, resolver *services.RoleResolver) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		// 1) try cookie first
		tokenStr := strings.TrimSpace(ctx.Cookies("access_token"))

		// 2) fallback to Authorization header
		if tokenStr == "" {
			tokenStr = strings.TrimSpace(ctx.Get("Authorization"))
		}

		user, err := auth.VerifyToken(tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		session := dto.Session{
			UserID:  uint(user.UserID),
			Email:   user.Email,
			IsAdmin: resolver.ResolveRole(uint(user.UserID)),
		}

		ctx.Locals("session", session)
		return ctx.Next()
	}
}

func AdminOnly() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		session, ok := ctx.Locals("session").(dto.Session)
		if !ok || session.UserID == 0 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		if !session.IsAdmin {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin only",
			})
		}

		return ctx.Next()
	}
}
