package documents

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tender-backend/internal/doctypes"
	"tender-backend/internal/shared/server/middleware"
	"tender-backend/internal/shared/server/respond"
	"tender-backend/internal/tables"
)

const maxUploadSize = 25 << 20 // 25MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.upload)
	rg.GET("/documents", h.list)
	rg.GET("/documents/:id", h.get)
	rg.GET("/documents/:id/tables", h.tables)
	rg.DELETE("/documents/:id", h.remove)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	companyID := strings.TrimSpace(c.PostForm("companyId"))
	if companyID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "companyId is required", nil)
		return
	}
	category := Category(strings.TrimSpace(c.PostForm("category")))
	if !ValidCategory(category) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "category must be reference_proposal, company_data, or tender_document", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	docType := doctypes.Type(strings.TrimSpace(c.PostForm("documentType")))
	if docType != "" && !doctypes.Valid(docType) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown documentType", nil)
		return
	}

	in := UploadInput{
		CompanyID:  companyID,
		Category:   category,
		FileName:   fileHeader.Filename,
		UploadedBy: strings.TrimSpace(c.PostForm("uploadedBy")),
		Type:       docType,
	}

	ctx := middleware.ContextWithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	doc, err := h.Svc.Upload(ctx, in, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to upload document", nil)
		}
		return
	}

	respond.Created(c, toResponse(doc))
}

func (h *Handler) list(c *gin.Context) {
	companyID := strings.TrimSpace(c.Query("companyId"))
	if companyID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "companyId is required", nil)
		return
	}

	filter := ListFilter{Limit: 20}
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			filter.Limit = parsed
		}
	}
	if filter.Limit < 0 {
		filter.Limit = 0
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			filter.Offset = parsed
		}
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if v := strings.TrimSpace(c.Query("category")); v != "" {
		filter.Category = Category(v)
		if !ValidCategory(filter.Category) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unknown category", nil)
			return
		}
	}

	docs, err := h.Svc.List(c.Request.Context(), companyID, filter)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		}
		return
	}

	resp := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, toResponse(doc))
	}
	respond.OK(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	doc, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch document", nil)
		}
		return
	}
	respond.OK(c, toResponse(doc))
}

func (h *Handler) tables(c *gin.Context) {
	found, err := h.Svc.TablesFor(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch tables", nil)
		}
		return
	}
	if found == nil {
		found = []tables.ExtractedTable{}
	}
	respond.OK(c, found)
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete document", nil)
		}
		return
	}
	respond.OK(c, gin.H{"deleted": true})
}
