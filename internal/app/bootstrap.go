package app

import (
	"context"
	"fmt"
	"strings"

	"govtjobs/internal/config"
	"govtjobs/internal/delivery/http/middleware"
	"govtjobs/internal/delivery/http/routes"
	"govtjobs/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

type App struct {
	Fiber *fiber.App
}

func New(cfg config.Config, h routes.Handlers, auth *middleware.AuthMiddleware, log logrus.FieldLogger) *App {
	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	registerGlobalMiddleware(f, log)
	routes.NewRegistry(h, auth, cfg.InternalToken).Register(f)

	return &App{Fiber: f}
}

// Bootstrap wires the container and starts its background workers. The
// returned cleanup closes every connection the container opened.
func Bootstrap(ctx context.Context, cfg config.Config, log *logrus.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	c.Start(ctx)
	return New(cfg, c.Handlers, c.AuthMW, log), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, log logrus.FieldLogger) {
	if app == nil {
		return
	}
	log = logger.OrDiscard(log)

	app.Use(middleware.NewAccessLogMiddleware(log).Middleware())
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
	app.Use(middleware.SessionCookie())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
