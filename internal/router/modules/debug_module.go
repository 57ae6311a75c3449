package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/studyforest/study-forest-api/internal/interface/middleware"
)

type DebugModule struct {
	Metrics *middleware.Metrics
	Limiter gin.HandlerFunc
}

func NewDebugModule(metrics *middleware.Metrics, limiter gin.HandlerFunc) *DebugModule {
	return &DebugModule{Metrics: metrics, Limiter: limiter}
}

// Register exposes Prometheus metrics, rate limited per IP.
func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/debug/metrics", m.Limiter, gin.WrapH(m.Metrics.Handler()))
}
