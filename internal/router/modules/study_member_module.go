package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/studyforest/study-forest-api/internal/interface/http"
	"github.com/studyforest/study-forest-api/internal/interface/middleware"
)

type StudyMemberModule struct {
	Handler    *handlers.StudyMemberHandler
	Gates      Gates
	WriteLimit gin.HandlerFunc
}

func NewStudyMemberModule(h *handlers.StudyMemberHandler, gates Gates, writeLimit gin.HandlerFunc) *StudyMemberModule {
	return &StudyMemberModule{Handler: h, Gates: gates, WriteLimit: writeLimit}
}

func (m *StudyMemberModule) Register(rg *gin.RouterGroup) {
	members := rg.Group("/studies/:studyId/members")
	gate := middleware.Chain(m.Gates.Authenticated, m.Gates.studyExists())

	members.GET("/me", gate, m.Handler.Me)
	members.POST("/join", gate, m.WriteLimit, m.Handler.Join)
	members.POST("/leave", gate, m.WriteLimit, m.Handler.Leave)
}
