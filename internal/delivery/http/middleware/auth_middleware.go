package middleware

import (
	"crypto/subtle"
	"errors"
	"strings"

	"govtjobs/internal/domain/user"
	"govtjobs/internal/pkg/jwt"
	"govtjobs/internal/session"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	CtxUserIDKey  = "user_id"
	CtxEmailKey   = "email"
	CtxRoleKey    = "role"
	CtxSessionKey = "session_user"

	HeaderInternalToken = "X-Internal-Token"
)

type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

// Middleware requires a valid access token.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := BearerToken(c.Get("Authorization"))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := m.jwt.ValidateAccessToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		setClaims(c, claims)
		return c.Next()
	}
}

// Optional attaches the caller's identity when a valid bearer token is
// present and never rejects the request. The session cookie is unsigned
// profile data and never establishes identity.
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c fiber.Ctx) error {
		if token, ok := BearerToken(c.Get("Authorization")); ok {
			if claims, err := m.jwt.ValidateAccessToken(token); err == nil {
				setClaims(c, claims)
			}
		}
		return c.Next()
	}
}

// RequireAdmin must run after Middleware.
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c fiber.Ctx) error {
		role, _ := c.Locals(CtxRoleKey).(string)
		if role != user.RoleAdmin {
			return NewAppError(fiber.StatusForbidden, "Admin access required", nil, nil)
		}
		return c.Next()
	}
}

func setClaims(c fiber.Ctx, claims jwt.Claims) {
	c.Locals(CtxUserIDKey, claims.UserID)
	c.Locals(CtxEmailKey, claims.Email)
	c.Locals(CtxRoleKey, claims.Role)
}

func UserIDFromCtx(c fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(CtxUserIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// SessionCookie reads the govtjobs-user cookie. An unreadable cookie is
// cleared silently and the request continues anonymously.
func SessionCookie() fiber.Handler {
	return func(c fiber.Ctx) error {
		raw := c.Cookies(session.Key)
		if raw == "" {
			return c.Next()
		}
		s, ok := session.Decode(raw)
		if !ok {
			c.ClearCookie(session.Key)
			return c.Next()
		}
		c.Locals(CtxSessionKey, s)
		return c.Next()
	}
}

func SessionFromCtx(c fiber.Ctx) (session.User, bool) {
	s, ok := c.Locals(CtxSessionKey).(session.User)
	return s, ok
}

// InternalToken guards service-to-service endpoints. An empty expected token
// disables the endpoint.
func InternalToken(expected string) fiber.Handler {
	expected = strings.TrimSpace(expected)
	return func(c fiber.Ctx) error {
		if expected == "" {
			return NewAppError(fiber.StatusForbidden, "Internal endpoint disabled", nil, nil)
		}
		got := strings.TrimSpace(c.Get(HeaderInternalToken))
		if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		return c.Next()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
