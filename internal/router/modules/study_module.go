package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/studyforest/study-forest-api/internal/interface/http"
	"github.com/studyforest/study-forest-api/internal/interface/middleware"
)

type StudyModule struct {
	Handler    *handlers.StudyHandler
	Gates      Gates
	WriteLimit gin.HandlerFunc
}

func NewStudyModule(h *handlers.StudyHandler, gates Gates, writeLimit gin.HandlerFunc) *StudyModule {
	return &StudyModule{Handler: h, Gates: gates, WriteLimit: writeLimit}
}

func (m *StudyModule) Register(rg *gin.RouterGroup) {
	g := m.Gates
	studies := rg.Group("/studies")

	studies.GET("", m.Handler.List)
	studies.POST("", middleware.Chain(g.Authenticated), m.WriteLimit, m.Handler.Create)

	studies.GET("/:studyId",
		middleware.Chain(g.OptionalAuth, g.studyExists(), middleware.StudyVisible(g.Lookup, g.Logger)),
		m.Handler.Detail)

	ownerOnly := middleware.Chain(g.Authenticated, g.studyExists(), g.owner())
	studies.PATCH("/:studyId", ownerOnly, m.WriteLimit, m.Handler.Update)
	studies.DELETE("/:studyId", ownerOnly, m.WriteLimit, m.Handler.Delete)
}
