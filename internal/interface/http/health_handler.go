package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/studyforest/study-forest-api/pkg/helpers"
	"github.com/studyforest/study-forest-api/pkg/response"
)

// Pinger checks database connectivity. *pgxpool.Pool implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	DB     Pinger
	Logger *logrus.Logger
}

func NewHealthHandler(db Pinger, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{DB: db, Logger: logger}
}

func (h *HealthHandler) Health(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"status": "ok"}, "healthy")
}

func (h *HealthHandler) DBCheck(c *gin.Context) {
	if h.DB == nil {
		response.Error(c, http.StatusServiceUnavailable, "database not configured", nil)
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.Ping(ctx); err != nil {
		helpers.LogError(h.Logger, "database ping failed", err, nil)
		response.Error(c, http.StatusServiceUnavailable, "database unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"database": "ok"}, "database reachable")
}
