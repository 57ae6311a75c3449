package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/studyforest/study-forest-api/internal/application"
	repo "github.com/studyforest/study-forest-api/internal/domain/repository"
	"github.com/studyforest/study-forest-api/internal/interface/middleware"
	"github.com/studyforest/study-forest-api/pkg/response"
)

type StudyHandler struct {
	Svc *application.StudyService
}

func NewStudyHandler(svc *application.StudyService) *StudyHandler {
	return &StudyHandler{Svc: svc}
}

func queryInt(c *gin.Context, key string, def int, details map[string]string) int {
	raw, ok := c.GetQuery(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		details[key] = "must be a positive integer"
		return 0
	}
	return n
}

// List: GET /studies?page=&pageSize=&keyword=&sort=recent|oldest
func (h *StudyHandler) List(c *gin.Context) {
	details := map[string]string{}
	page := queryInt(c, "page", application.DefaultPage, details)
	size := queryInt(c, "pageSize", application.DefaultPageSize, details)
	if len(details) > 0 {
		response.Error(c, http.StatusBadRequest, "page and pageSize must be positive integers", details)
		return
	}

	res, err := h.Svc.List(c.Request.Context(), application.ListParams{
		Page:     page,
		PageSize: size,
		Keyword:  c.Query("keyword"),
		Sort:     repo.ParseStudySort(c.Query("sort")),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, "studies loaded")
}

func (h *StudyHandler) Detail(c *gin.Context) {
	res, err := h.Svc.Detail(c.Request.Context(), c.Param("studyId"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, "study loaded")
}

func (h *StudyHandler) Create(c *gin.Context) {
	var req application.CreateStudyInput
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Svc.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res, "study created")
}

func (h *StudyHandler) Update(c *gin.Context) {
	var req application.UpdateStudyInput
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Svc.Update(c.Request.Context(), c.Param("studyId"), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, "study updated")
}

func (h *StudyHandler) Delete(c *gin.Context) {
	studyID := c.Param("studyId")
	if err := h.Svc.Delete(c.Request.Context(), studyID, middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"studyId": studyID}, "study deleted")
}
