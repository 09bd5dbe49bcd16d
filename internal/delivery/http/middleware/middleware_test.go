package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"govtjobs/internal/config"
	"govtjobs/internal/pkg/jwt"
	"govtjobs/internal/pkg/response"
	"govtjobs/internal/session"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func newJWT() *jwt.HMACService {
	return jwt.NewHMACService(config.JWTConfig{
		AccessSecret:     "a",
		RefreshSecret:    "r",
		AccessExpiresIn:  time.Minute,
		RefreshExpiresIn: time.Hour,
	})
}

func decodeEnvelope(t *testing.T, resp *http.Response) response.SemanticResponse {
	t.Helper()
	b, _ := io.ReadAll(resp.Body)
	var env response.SemanticResponse
	if err := json.Unmarshal(b, &env); err != nil {
		t.Fatalf("decode %s: %v", b, err)
	}
	return env
}

func TestErrorMiddleware_MasksServerErrors(t *testing.T) {
	app := fiber.New()
	app.Use(NewErrorMiddleware(nil).Middleware())
	app.Get("/boom", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusInternalServerError, "db password is hunter2", nil, errors.New("dial tcp"))
	})
	app.Get("/bad", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusBadRequest, "Invalid page", map[string]string{"field": "page"}, nil)
	})
	app.Get("/panic", func(c fiber.Ctx) error {
		panic("unexpected")
	})

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	env := decodeEnvelope(t, resp)
	if resp.StatusCode != 500 || env.Message != response.MessageInternalServerError {
		t.Fatalf("expected masked 500, got %d %q", resp.StatusCode, env.Message)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/bad", nil))
	env = decodeEnvelope(t, resp)
	if resp.StatusCode != 400 || env.Message != "Invalid page" || env.Data == nil {
		t.Fatalf("unexpected 400 envelope %+v", env)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/panic", nil))
	if resp.StatusCode != 500 {
		t.Fatalf("expected recovered panic, got %d", resp.StatusCode)
	}
}

func TestAccessLog_SetsRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(NewAccessLogMiddleware(nil).Middleware())
	app.Get("/", func(c fiber.Ctx) error { return c.SendString("ok") })

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if _, err := uuid.Parse(resp.Header.Get(HeaderRequestID)); err != nil {
		t.Fatalf("expected generated request id, got %q", resp.Header.Get(HeaderRequestID))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc")
	resp, _ = app.Test(req)
	if resp.Header.Get(HeaderRequestID) != "abc" {
		t.Fatalf("expected propagated request id")
	}
}

func authApp(svc jwt.Service) *fiber.App {
	m := NewAuthMiddleware(svc)
	app := fiber.New()
	app.Use(NewErrorMiddleware(nil).Middleware())
	app.Use(SessionCookie())
	app.Get("/me", m.Middleware(), func(c fiber.Ctx) error {
		id, _ := UserIDFromCtx(c)
		return c.SendString(id.String())
	})
	app.Get("/admin", m.Middleware(), m.RequireAdmin(), func(c fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/maybe", m.Optional(), func(c fiber.Ctx) error {
		id, ok := UserIDFromCtx(c)
		if !ok {
			return c.SendString("anon")
		}
		return c.SendString(id.String())
	})
	return app
}

func TestAuth_RequiredAndAdmin(t *testing.T) {
	svc := newJWT()
	app := authApp(svc)
	id := uuid.New()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	userTok, _ := svc.GenerateAccessToken(id, "u@example.com", "user")
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+userTok)
	resp, _ = app.Test(req)
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 || string(body) != id.String() {
		t.Fatalf("expected 200 with user id, got %d %s", resp.StatusCode, body)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userTok)
	resp, _ = app.Test(req)
	if resp.StatusCode != 403 {
		t.Fatalf("expected 403 for non-admin, got %d", resp.StatusCode)
	}

	adminTok, _ := svc.GenerateAccessToken(id, "a@example.com", "admin")
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminTok)
	resp, _ = app.Test(req)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 for admin, got %d", resp.StatusCode)
	}

	refresh, _ := svc.GenerateRefreshToken(id)
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	resp, _ = app.Test(req)
	if resp.StatusCode != 401 {
		t.Fatalf("expected refresh token rejected, got %d", resp.StatusCode)
	}
}

func TestAuth_OptionalIgnoresSessionCookieIdentity(t *testing.T) {
	svc := newJWT()
	app := authApp(svc)
	victim := uuid.New()
	raw, _ := session.Encode(session.User{ID: victim, Name: "Asha", Email: "asha@example.com"})

	req := httptest.NewRequest(http.MethodGet, "/maybe", nil)
	req.AddCookie(&http.Cookie{Name: session.Key, Value: raw})
	resp, _ := app.Test(req)
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "anon" {
		t.Fatalf("session cookie must not set the caller, got %s", body)
	}

	caller := uuid.New()
	access, err := svc.GenerateAccessToken(caller, "me@example.com", "user")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/maybe", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	req.AddCookie(&http.Cookie{Name: session.Key, Value: raw})
	resp, _ = app.Test(req)
	body, _ = io.ReadAll(resp.Body)
	if string(body) != caller.String() {
		t.Fatalf("expected bearer identity, got %s", body)
	}

	req = httptest.NewRequest(http.MethodGet, "/maybe", nil)
	req.AddCookie(&http.Cookie{Name: session.Key, Value: "garbage!!"})
	resp, _ = app.Test(req)
	body, _ = io.ReadAll(resp.Body)
	if resp.StatusCode != 200 || string(body) != "anon" {
		t.Fatalf("expected anonymous request, got %d %s", resp.StatusCode, body)
	}
	cleared := false
	for _, c := range resp.Cookies() {
		if c.Name == session.Key && c.Value == "" {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expected corrupted session cookie to be cleared")
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":   "abc",
		"bearer  abc ": "abc",
		"Basic abc":    "",
		"Bearer ":      "",
		"":             "",
	}
	for header, want := range cases {
		got, ok := BearerToken(header)
		if got != want || ok != (want != "") {
			t.Fatalf("%q: got %q ok=%v", header, got, ok)
		}
	}
}

func TestInternalToken(t *testing.T) {
	app := fiber.New()
	app.Use(NewErrorMiddleware(nil).Middleware())
	app.Post("/hook", InternalToken("s3cret"), func(c fiber.Ctx) error { return c.SendStatus(204) })

	req := httptest.NewRequest(http.MethodPost, "/hook", nil)
	req.Header.Set(HeaderInternalToken, "wrong")
	resp, _ := app.Test(req)
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodPost, "/hook", nil)
	req.Header.Set(HeaderInternalToken, "s3cret")
	resp, _ = app.Test(req)
	if resp.StatusCode != 204 {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	disabled := fiber.New()
	disabled.Use(NewErrorMiddleware(nil).Middleware())
	disabled.Post("/hook", InternalToken(""), func(c fiber.Ctx) error { return c.SendStatus(204) })
	resp, _ = disabled.Test(httptest.NewRequest(http.MethodPost, "/hook", nil))
	if resp.StatusCode != 403 {
		t.Fatalf("expected 403 when disabled, got %d", resp.StatusCode)
	}
}
