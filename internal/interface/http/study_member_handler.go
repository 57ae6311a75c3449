package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyforest/study-forest-api/internal/application"
	"github.com/studyforest/study-forest-api/internal/interface/middleware"
	"github.com/studyforest/study-forest-api/pkg/response"
)

// StudyMemberHandler runs behind the auth and study-exists guards.
type StudyMemberHandler struct {
	Svc *application.MembershipService
}

func NewStudyMemberHandler(svc *application.MembershipService) *StudyMemberHandler {
	return &StudyMemberHandler{Svc: svc}
}

func (h *StudyMemberHandler) Me(c *gin.Context) {
	res, err := h.Svc.Status(c.Request.Context(), c.Param("studyId"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, "membership status")
}

func (h *StudyMemberHandler) Join(c *gin.Context) {
	res, err := h.Svc.Join(c.Request.Context(), c.Param("studyId"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res, "joined study")
}

func (h *StudyMemberHandler) Leave(c *gin.Context) {
	res, err := h.Svc.Leave(c.Request.Context(), c.Param("studyId"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, "left study")
}
