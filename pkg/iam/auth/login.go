package auth

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// AdminCredential is the single configured principal allowed to log in.
// PasswordHash is a bcrypt hash, never the plaintext password.
type AdminCredential struct {
	Email        string
	PasswordHash string
}

// LoginRequest - DTO for the login endpoint
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse - DTO returned on successful login
type LoginResponse struct {
	Token string `json:"token"`
}

// Handlers provides HTTP handlers for authentication
type Handlers struct {
	tokens *TokenService
	admin  AdminCredential
}

// NewHandlers creates auth handlers for the configured admin credential.
func NewHandlers(tokens *TokenService, admin AdminCredential) *Handlers {
	return &Handlers{tokens: tokens, admin: admin}
}

// Login authenticates the admin credential and returns a bearer token
// POST /auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrInvalidCredentials().WithDetail("parse_error", err.Error())
	}

	if req.Email != h.admin.Email {
		return ErrInvalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.admin.PasswordHash), []byte(req.Password)); err != nil {
		return ErrInvalidCredentials()
	}

	token, err := h.tokens.IssueToken(req.Email)
	if err != nil {
		return ErrUnauthorized().WithDetail("issue_error", err.Error())
	}

	return c.JSON(LoginResponse{Token: token})
}

// RegisterRoutes registers the auth routes
func RegisterRoutes(app *fiber.App, handlers *Handlers) {
	app.Post("/auth/login", handlers.Login)
}
