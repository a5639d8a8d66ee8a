package middleware

import (
	"strings"

	"github.com/SamuelLeutner/student-declarations/models"
	"github.com/SamuelLeutner/student-declarations/services"
	"github.com/gofiber/fiber/v3"
)

const (
	SessionCookieName = "session_token"
	principalKey      = "principalEmail"
)

// RequireSession rejects requests without a valid session before any
// handler runs. The token is read from the session cookie or a Bearer
// Authorization header.
func RequireSession(sessions *services.SessionManager) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := c.Cookies(SessionCookieName)
		if token == "" {
			if auth := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
				token = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		email, err := sessions.Verify(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "Unauthorized"})
		}

		c.Locals(principalKey, email)
		return c.Next()
	}
}

// PrincipalEmail returns the signed-in email, or "" outside RequireSession.
func PrincipalEmail(c fiber.Ctx) string {
	email, _ := c.Locals(principalKey).(string)
	return email
}
