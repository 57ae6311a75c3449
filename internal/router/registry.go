package router

import (
	"github.com/gin-gonic/gin"

	"github.com/studyforest/study-forest-api/internal/interface/middleware"
)

// Registry collects feature modules and mounts them on the engine.
// API modules live under /api; root modules (health probes) at the engine root.
type Registry struct {
	Engine  *gin.Engine
	API     *gin.RouterGroup
	modules []Module
	root    []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	api := engine.Group("/api")
	return &Registry{Engine: engine, API: api}
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

func (r *Registry) AddRoot(mod Module) {
	r.root = append(r.root, mod)
}

func (r *Registry) RegisterAll() {
	for _, m := range r.root {
		m.Register(&r.Engine.RouterGroup)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
	r.Engine.NoRoute(middleware.NotFound())
}
