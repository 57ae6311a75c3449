// Package container holds the components constructed once at startup.
// Nothing here is global: main builds a Container and hands it to the router.
package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/studyforest/study-forest-api/config"
	"github.com/studyforest/study-forest-api/internal/application"
	"github.com/studyforest/study-forest-api/internal/domain/repository"
	handlers "github.com/studyforest/study-forest-api/internal/interface/http"
	"github.com/studyforest/study-forest-api/internal/interface/middleware"
	"github.com/studyforest/study-forest-api/pkg/helpers"
)

type Container struct {
	Config  *config.Config
	Logger  *logrus.Logger
	DB      handlers.Pinger
	Stores  repository.Stores
	Redis   *redis.Client // nil disables rate limiting
	JWT     *helpers.JWTManager
	Cookies *helpers.CookieManager
	Events  application.EventPublisher // nil disables events
	Metrics *middleware.Metrics
}

// New builds the session codec and cookie manager from cfg. It fails when no
// JWT secret is configured.
func New(cfg *config.Config, logger *logrus.Logger, db handlers.Pinger, stores repository.Stores) (*Container, error) {
	jwt, err := helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiresIn)
	if err != nil {
		return nil, err
	}
	return &Container{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Stores:  stores,
		JWT:     jwt,
		Cookies: helpers.NewCookie(cfg.CookieName, cfg.CookieDomain, cfg.CookieSecure),
		Metrics: middleware.NewMetrics(),
	}, nil
}
