package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bengkelhub/bengkel-booking/internal/catalog"
	"github.com/bengkelhub/bengkel-booking/internal/file"
	fileHttp "github.com/bengkelhub/bengkel-booking/internal/file/http"
	"github.com/bengkelhub/bengkel-booking/internal/pkg/request"
	"github.com/bengkelhub/bengkel-booking/internal/pkg/response"
)

type Handler struct {
	catalog        catalog.Catalog
	fileHandler    *fileHttp.Handler
	maxUploadBytes int64
}

func NewHandler(c catalog.Catalog, fileHandler *fileHttp.Handler, maxUploadBytes int64) *Handler {
	return &Handler{catalog: c, fileHandler: fileHandler, maxUploadBytes: maxUploadBytes}
}

// ListActive returns active services in display order.
func (h *Handler) ListActive(c *gin.Context) {
	items, err := h.catalog.ListActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, newServiceList(items))
}

// Get returns one active service.
func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BindError(c, err)
		return
	}

	s, err := h.catalog.Get(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, NewServiceResponse(s))
}

func (h *Handler) Categories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	response.OK(c, http.StatusOK, categories)
}

func (h *Handler) ByCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BindError(c, err)
		return
	}

	items, err := h.catalog.ByCategory(c.Request.Context(), req.Category)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, newServiceList(items))
}

// ListAll includes inactive services.
// Access Control: Admin only.
func (h *Handler) ListAll(c *gin.Context) {
	items, err := h.catalog.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, newServiceList(items))
}

// Create adds a service at the end of the display order.
// Access Control: Admin only.
func (h *Handler) Create(c *gin.Context) {
	var body catalog.CreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	s, err := h.catalog.Create(c.Request.Context(), body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, "service created", NewServiceResponse(s))
}

// Update applies a partial update.
// Access Control: Admin only.
func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	var body catalog.UpdateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	s, err := h.catalog.Update(c.Request.Context(), uri.ID, body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "service updated", NewServiceResponse(s))
}

// Delete removes a service.
// Access Control: Admin only.
func (h *Handler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.catalog.Delete(c.Request.Context(), req.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "service deleted", nil)
}

// ToggleActive flips the active flag.
// Access Control: Admin only.
func (h *Handler) ToggleActive(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BindError(c, err)
		return
	}

	s, err := h.catalog.ToggleActive(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "service status updated", NewServiceResponse(s))
}

// UploadImage stores a picture for the service.
// Access Control: Admin only.
func (h *Handler) UploadImage(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BindError(c, err)
		return
	}

	if _, err := h.catalog.GetAny(c.Request.Context(), req.ID); err != nil {
		response.Error(c, err)
		return
	}

	h.fileHandler.HandleFileUpload(c, fileHttp.FileUploadConfig{
		FormFieldName: "image",
		MaxSizeBytes:  h.maxUploadBytes,
		AllowedTypes:  file.ImageTypes,
		SuccessMsg:    "service image updated",
		AfterUpload: func(ctx context.Context, fileID string) (any, error) {
			s, err := h.catalog.SetImage(ctx, req.ID, fileID)
			if err != nil {
				return nil, err
			}
			return NewServiceResponse(s), nil
		},
	})
}
