package handler

import (
	"github.com/cuongbtq/recruit-proxy/internal/proxy"
	"github.com/gin-gonic/gin"
)

// IntegrationHandler adapts a proxy.Pipeline to gin
type IntegrationHandler struct {
	pipeline *proxy.Pipeline
}

// NewIntegrationHandler creates a new IntegrationHandler instance
func NewIntegrationHandler(p *proxy.Pipeline) *IntegrationHandler {
	return &IntegrationHandler{pipeline: p}
}

// Name returns the integration name, used as the route segment
func (h *IntegrationHandler) Name() string {
	return h.pipeline.Name()
}

// Handle serves every method on the integration route. The pipeline
// rejects methods it does not accept, so 405 bodies share the error shape.
func (h *IntegrationHandler) Handle(c *gin.Context) {
	resp := h.pipeline.Serve(c.Request.Context(), proxy.Request{
		Method: c.Request.Method,
		Body:   c.Request.Body,
	})

	for k, v := range resp.Headers {
		c.Header(k, v)
	}

	c.Data(resp.StatusCode, resp.Headers["Content-Type"], resp.Body)
}
