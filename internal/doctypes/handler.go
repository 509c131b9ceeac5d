package doctypes

import (
	"github.com/gin-gonic/gin"

	"tender-backend/internal/shared/server/respond"
)

// Handler serves the document-type registry.
type Handler struct{}

// NewHandler constructs a Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes attaches document-type routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/document-types", h.list)
}

func (h *Handler) list(c *gin.Context) {
	respond.OK(c, ByCategory())
}
