package v1

import (
	"govtjobs/internal/delivery/http/handler"
	"govtjobs/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type Deps struct {
	Stats  *handler.StatsHandler
	Jobs   *handler.JobsHandler
	Auth   *handler.AuthHandler
	Users  *handler.UserHandler
	Admin  *handler.AdminJobsHandler
	Scrape *handler.ScrapeCompletedHandler

	AuthMW        *middleware.AuthMiddleware
	InternalToken string
}

func Register(r fiber.Router, d Deps) {
	if r == nil {
		return
	}

	if d.Stats != nil {
		d.Stats.RegisterRoutes(r)
	}
	if d.Jobs != nil {
		var identify fiber.Handler
		if d.AuthMW != nil {
			identify = d.AuthMW.Optional()
		}
		d.Jobs.RegisterRoutes(r, identify)
	}
	if d.Auth != nil {
		d.Auth.RegisterRoutes(r.Group("/auth"))
	}
	if d.Scrape != nil {
		d.Scrape.RegisterRoutes(r.Group("/internal", middleware.InternalToken(d.InternalToken)))
	}

	if d.AuthMW == nil {
		return
	}
	if d.Users != nil {
		d.Users.RegisterRoutes(r.Group("/users", d.AuthMW.Middleware()))
	}
	if d.Admin != nil {
		d.Admin.RegisterRoutes(r.Group("/admin", d.AuthMW.Middleware(), d.AuthMW.RequireAdmin()))
	}
}
