package handler

import (
	"errors"
	"strings"
	"time"

	"govtjobs/internal/delivery/http/dto"
	"govtjobs/internal/delivery/http/middleware"
	"govtjobs/internal/domain/user"
	"govtjobs/internal/pkg/response"
	"govtjobs/internal/session"
	"govtjobs/internal/usecase"
	ucauth "govtjobs/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

const sessionMaxAge = 7 * 24 * time.Hour

type AuthHandler struct {
	uc           usecase.AuthUsecase
	accessTTL    time.Duration
	secureCookie bool
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func NewAuthHandler(uc usecase.AuthUsecase, accessTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{uc: uc, accessTTL: accessTTL, secureCookie: secureCookie}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
	r.Post("/logout", h.Logout)
	r.Get("/session", h.Session)
}

func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req registerRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	usr, tokens, err := h.uc.Register(c.Context(), ucauth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return h.signedIn(c, fiber.StatusCreated, usr, tokens)
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	usr, tokens, err := h.uc.Login(c.Context(), ucauth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return h.signedIn(c, fiber.StatusOK, usr, tokens)
}

// Refresh accepts the refresh token as a bearer token or in the body.
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	tok, ok := middleware.BearerToken(c.Get("Authorization"))
	if !ok {
		var req refreshRequest
		if len(c.Body()) > 0 {
			if err := c.Bind().Body(&req); err != nil {
				return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
			}
		}
		tok = strings.TrimSpace(req.RefreshToken)
	}

	_, tokens, err := h.uc.Refresh(c.Context(), tok)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrRefreshTokenExpired):
			return middleware.NewAppError(fiber.StatusUnauthorized, "Refresh token expired", nil, err)
		case errors.Is(err, usecase.ErrInvalidRefreshToken):
			return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid refresh token", nil, err)
		case errors.Is(err, usecase.ErrUnauthorized):
			return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.TokenResponse{
		AccessToken:  tokens.Access,
		RefreshToken: tokens.Refresh,
		ExpiresIn:    int64(h.accessTTL.Seconds()),
	})
}

// Logout only drops the session cookie; tokens expire on their own.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	c.ClearCookie(session.Key)
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

// Session echoes the profile restored from the govtjobs-user cookie so the
// portal can repaint the signed-in header. It carries no authority.
func (h *AuthHandler) Session(c fiber.Ctx) error {
	s, ok := middleware.SessionFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusNotFound, "No session", nil, nil)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, s)
}

func (h *AuthHandler) signedIn(c fiber.Ctx, status int, usr user.User, tokens usecase.Tokens) error {
	raw, err := session.Encode(dto.SessionUser(usr))
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     session.Key,
		Value:    raw,
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	msg := response.MessageOK
	if status == fiber.StatusCreated {
		msg = response.MessageCreated
	}
	return response.Success(c, status, msg, dto.AuthResponse{
		User:         dto.NewUserResponse(usr),
		AccessToken:  tokens.Access,
		RefreshToken: tokens.Refresh,
		ExpiresIn:    int64(h.accessTTL.Seconds()),
	})
}

func mapAuthUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ucauth.ErrEmailAlreadyRegistered):
		return middleware.NewAppError(fiber.StatusConflict, "Email already registered", nil, err)
	case errors.Is(err, ucauth.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid email or password", nil, err)
	case errors.Is(err, ucauth.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Name, a valid email and a password of at least 8 characters are required", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
