package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const subjectLocalKey = "auth_subject"

// Middleware guards routes with bearer token authentication.
type Middleware struct {
	tokens *TokenService
}

// NewMiddleware creates the auth middleware.
func NewMiddleware(tokens *TokenService) *Middleware {
	return &Middleware{tokens: tokens}
}

// Authenticate verifies the Authorization header and stores the token
// subject in request locals.
func (m *Middleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return ErrUnauthorized().WithDetail("reason", "missing Authorization header")
		}

		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			return ErrUnauthorized().WithDetail("reason", "expected Bearer token")
		}

		claims, err := m.tokens.ParseToken(tokenString)
		if err != nil {
			return err
		}

		c.Locals(subjectLocalKey, claims.Subject)
		return c.Next()
	}
}

// GetSubject returns the authenticated subject set by Authenticate.
func GetSubject(c *fiber.Ctx) (string, bool) {
	subject, ok := c.Locals(subjectLocalKey).(string)
	return subject, ok && subject != ""
}
