package router

import (
	"net/http"

	"github.com/cuongbtq/recruit-proxy/internal/api/handler"
	"github.com/gin-gonic/gin"
)

// routePrefixes mounts every integration under the API group and under the
// legacy Netlify function paths the front-end already calls.
var routePrefixes = []string{"/api", "/.netlify/functions"}

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(deps.Logger))
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware(deps.Config.CORS))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": deps.Config.App.Name,
		})
	})

	h := handler.NewHandlers(deps)
	integrations := []*handler.IntegrationHandler{
		h.CVAssistant,
		h.JDAssistant,
		h.FetchJobs,
		h.APIProxy,
	}

	for _, prefix := range routePrefixes {
		group := r.Group(prefix)
		for _, ih := range integrations {
			// Any: method checks belong to the pipeline so 405s share the error shape
			group.Any("/"+ih.Name(), ih.Handle)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})

	return r
}
