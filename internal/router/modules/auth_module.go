package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/studyforest/study-forest-api/internal/interface/http"
	"github.com/studyforest/study-forest-api/internal/interface/middleware"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	Gates   Gates
	Limiter gin.HandlerFunc
}

func NewAuthModule(h *handlers.AuthHandler, gates Gates, limiter gin.HandlerFunc) *AuthModule {
	return &AuthModule{Handler: h, Gates: gates, Limiter: limiter}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	// Credential endpoints are rate limited per IP and route.
	auth.POST("/register", m.Limiter, m.Handler.Register)
	auth.POST("/login", m.Limiter, m.Handler.Login)
	auth.POST("/logout", m.Handler.Logout)
	auth.GET("/me", middleware.Chain(m.Gates.Authenticated), m.Handler.Me)
}
