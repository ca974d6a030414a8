package web

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the removal endpoints on rg.
//
//	GET /remove_library - preview or perform a library removal
//	GET /health         - liveness
func RegisterRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("/remove_library", h.HandleRemoveLibrary)
	rg.GET("/health", h.HandleHealth)
}

// NewRouter creates a gin engine with recovery and the removal routes
// mounted at the root.
func NewRouter(h *Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	RegisterRoutes(router.Group("/"), h)
	return router
}
