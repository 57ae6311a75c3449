package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/studyforest/study-forest-api/internal/application"
	"github.com/studyforest/study-forest-api/internal/container"
	handlers "github.com/studyforest/study-forest-api/internal/interface/http"
	"github.com/studyforest/study-forest-api/internal/interface/middleware"
	"github.com/studyforest/study-forest-api/internal/router/modules"
)

// NewEngine builds the gin engine with global middleware and every module.
func NewEngine(c *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(c.Logger))
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	r.Use(c.Metrics.Middleware())
	if c.Config.HTTPLogEnabled {
		r.Use(middleware.AccessLog(c.Logger))
	}
	if origins := c.Config.CORSOrigins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.HeaderRequestID},
			ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(middleware.ErrorHandler(c.Logger))

	reg := NewRegistry(r)
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}

// InitModules wires services and handlers from the container and adds every module.
func InitModules(reg *Registry, c *container.Container) {
	authSvc := application.NewAuthService(c.Stores.Users, c.JWT, c.Logger)
	studySvc := application.NewStudyService(c.Stores, c.Events, c.Logger)
	memberSvc := application.NewMembershipService(c.Stores, c.Events, c.Logger)

	var allow middleware.AllowFunc
	if !c.Config.IsProduction() {
		allow = middleware.AllowPrivateIP()
	}
	gates := modules.Gates{
		Authenticated: middleware.Authenticated(c.JWT, c.Config.CookieName, c.Logger),
		OptionalAuth:  middleware.OptionalAuth(c.JWT, c.Config.CookieName),
		Lookup:        memberSvc,
		Logger:        c.Logger,
	}
	writeLimit := middleware.RateLimit(c.Redis, middleware.Limit{Max: 30, Window: time.Minute},
		middleware.KeyByUserID(), allow, c.Logger)

	reg.AddRoot(modules.NewHealthModule(handlers.NewHealthHandler(c.DB, c.Logger)))
	reg.Add(modules.NewAuthModule(
		handlers.NewAuthHandler(authSvc, c.Cookies, c.Logger),
		gates,
		middleware.RateLimit(c.Redis, middleware.Limit{Max: 10, Window: time.Minute},
			middleware.KeyByIPAndPath(), allow, c.Logger),
	))
	reg.Add(modules.NewStudyModule(handlers.NewStudyHandler(studySvc), gates, writeLimit))
	reg.Add(modules.NewStudyMemberModule(handlers.NewStudyMemberHandler(memberSvc), gates, writeLimit))
	if c.Config.DebugMetricsEnabled {
		reg.Add(modules.NewDebugModule(c.Metrics, middleware.RateLimit(c.Redis,
			middleware.Limit{Max: 120, Window: time.Minute}, middleware.KeyByIPAndPath(), allow, c.Logger)))
	}
}
