package app

import (
	"context"
	"errors"
	"time"

	"govtjobs/internal/config"
	"govtjobs/internal/database"
	dbpostgres "govtjobs/internal/database/postgres"
	"govtjobs/internal/delivery/http/handler"
	"govtjobs/internal/delivery/http/middleware"
	"govtjobs/internal/delivery/http/routes"
	"govtjobs/internal/infrastructure/cache"
	"govtjobs/internal/infrastructure/events"
	"govtjobs/internal/pkg/jwt"
	"govtjobs/internal/repository"
	"govtjobs/internal/usecase"
	ucauth "govtjobs/internal/usecase/auth"
	ucuser "govtjobs/internal/usecase/user"
	"govtjobs/internal/ws"

	"github.com/sirupsen/logrus"
)

// Container owns every long-lived dependency of the API process.
type Container struct {
	Config    config.Config
	Logger    logrus.FieldLogger
	DB        database.DB
	Cache     *cache.Redis
	Publisher events.Publisher
	Hub       *ws.Hub

	Handlers    routes.Handlers
	AuthMW      *middleware.AuthMiddleware
	Broadcaster *usecase.StatsBroadcaster
}

func NewContainer(ctx context.Context, cfg config.Config, log *logrus.Logger) (*Container, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:    cfg,
		Logger:    log,
		DB:        db,
		Cache:     cache.NewRedis(cfg.Redis, log),
		Publisher: events.NewPublisher(cfg.Kafka.Broker, cfg.Kafka.Topic),
		Hub:       ws.NewHub(log),
	}
	c.wire()
	return c, nil
}

func (c *Container) wire() {
	cfg := c.Config
	clock := usecase.NewClock(cfg.App.Location())
	notifier := ws.NewNotifier(c.Hub)

	jobRepo := repository.NewPostgresJobRepository(c.DB)
	statsRepo := repository.NewPostgresStatsRepository(c.DB)
	appRepo := repository.NewPostgresApplicationRepository(c.DB)
	userRepo := repository.NewPostgresUserRepository(c.DB)

	jwtSvc := jwt.NewHMACService(cfg.JWT)
	c.AuthMW = middleware.NewAuthMiddleware(jwtSvc)

	listing := usecase.NewListingEvents(c.Cache, notifier, c.Publisher, c.Logger)
	searchUC := usecase.NewJobSearchUsecase(jobRepo, c.Cache, clock, c.Logger)
	statsUC := usecase.NewStatsUsecase(statsRepo, c.Cache, cfg.Stats.CacheTTL, clock, c.Logger)
	adminUC := usecase.NewAdminJobUsecase(jobRepo, listing, clock, c.Logger).
		WithScrapeRuns(repository.NewPostgresScrapeRunRepository(c.DB))
	applyUC := usecase.NewApplicationUsecase(jobRepo, appRepo, c.Cache, clock, c.Logger)
	authUC := usecase.NewAuthUsecase(ucauth.NewService(userRepo), userRepo, jwtSvc)
	userUC := usecase.NewUserUsecase(ucuser.NewService(userRepo))

	c.Broadcaster = usecase.NewStatsBroadcaster(statsUC, notifier, cfg.Stats.Interval, c.Logger)

	c.Handlers = routes.Handlers{
		Health: handler.NewHealthHandler(c.DB, c.Cache),
		Stats:  handler.NewStatsHandler(statsUC),
		Jobs:   handler.NewJobsHandler(searchUC, applyUC),
		Auth:   handler.NewAuthHandler(authUC, jwtSvc.AccessTTL(), cfg.App.IsProduction()),
		Users:  handler.NewUserHandler(userUC),
		Admin:  handler.NewAdminJobsHandler(adminUC),
		Scrape: handler.NewScrapeCompletedHandler(adminUC, c.Logger),
		WS:     ws.NewHandler(c.Hub, c.Logger),
	}
}

// Start launches the websocket hub and the stats broadcaster. Both stop when
// ctx is cancelled.
func (c *Container) Start(ctx context.Context) {
	go c.Hub.Run(ctx)
	go c.Broadcaster.Run(ctx)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Publisher != nil {
		errs = append(errs, c.Publisher.Close())
	}
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
