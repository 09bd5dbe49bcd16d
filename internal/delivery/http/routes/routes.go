package routes

import (
	"govtjobs/internal/delivery/http/handler"
	"govtjobs/internal/delivery/http/middleware"
	v1 "govtjobs/internal/delivery/http/routes/v1"
	"govtjobs/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Health *handler.HealthHandler
	Stats  *handler.StatsHandler
	Jobs   *handler.JobsHandler
	Auth   *handler.AuthHandler
	Users  *handler.UserHandler
	Admin  *handler.AdminJobsHandler
	Scrape *handler.ScrapeCompletedHandler
	WS     *ws.Handler
}

type Registry struct {
	h             Handlers
	auth          *middleware.AuthMiddleware
	internalToken string
}

func NewRegistry(h Handlers, auth *middleware.AuthMiddleware, internalToken string) *Registry {
	return &Registry{h: h, auth: auth, internalToken: internalToken}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerWS(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.h.Health != nil {
		r.h.Health.RegisterRoutes(app)
	}
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.h.WS != nil {
		r.h.WS.RegisterRoutes(app)
	}
}

// registerAPI mounts the two bare-JSON endpoints the portal polls, then the
// enveloped v1 API.
func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	if r.h.Stats != nil {
		api.Get("/stats", r.h.Stats.Portal)
	}
	if r.h.Jobs != nil {
		api.Get("/jobs", r.h.Jobs.PortalSearch)
	}

	RegisterV1(api.Group("/v1"), v1.Deps{
		Stats:         r.h.Stats,
		Jobs:          r.h.Jobs,
		Auth:          r.h.Auth,
		Users:         r.h.Users,
		Admin:         r.h.Admin,
		Scrape:        r.h.Scrape,
		AuthMW:        r.auth,
		InternalToken: r.internalToken,
	})
}
