package http

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bengkelhub/bengkel-booking/internal/auth"
	"github.com/bengkelhub/bengkel-booking/internal/file"
	"github.com/bengkelhub/bengkel-booking/internal/pkg/apperror"
	"github.com/bengkelhub/bengkel-booking/internal/pkg/response"
)

// FileUploadConfig defines the configuration for generic file uploads
type FileUploadConfig struct {
	FormFieldName string   // default: "file"
	MaxSizeBytes  int64    // 0 = no limit
	AllowedTypes  []string // empty = any decodable image
	SuccessMsg    string

	// AfterUpload links the stored file to its owner. A failure rolls the upload back.
	AfterUpload func(ctx context.Context, fileID string) (any, error)
}

// HandleFileUpload stores an uploaded image, runs the after-upload hook and
// responds with the hook's result or the file descriptor.
func (h *Handler) HandleFileUpload(c *gin.Context, config FileUploadConfig) {
	fieldName := config.FormFieldName
	if fieldName == "" {
		fieldName = "file"
	}

	fileHeader, err := c.FormFile(fieldName)
	if err != nil {
		response.Error(c, apperror.New(http.StatusBadRequest, "invalid request").
			WithFields(map[string]string{fieldName: "is required"}))
		return
	}

	if config.MaxSizeBytes > 0 && fileHeader.Size > config.MaxSizeBytes {
		response.Error(c, file.ErrFileTooLarge)
		return
	}

	content, err := readAll(fileHeader, config.MaxSizeBytes)
	if err != nil {
		response.Error(c, err)
		return
	}

	f, err := h.fileService.Upload(c.Request.Context(), file.UploadInput{
		Filename:     fileHeader.Filename,
		Content:      content,
		UploaderID:   auth.GetUserID(c),
		MaxSizeBytes: config.MaxSizeBytes,
		AllowedTypes: config.AllowedTypes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	var data any = NewFileUploadResponse(f)
	if config.AfterUpload != nil {
		result, err := config.AfterUpload(c.Request.Context(), f.ID)
		if err != nil {
			_ = h.fileService.Delete(c.Request.Context(), f.ID)
			response.Error(c, err)
			return
		}
		if result != nil {
			data = result
		}
	}

	msg := config.SuccessMsg
	if msg == "" {
		msg = "file uploaded successfully"
	}
	response.Message(c, http.StatusOK, msg, data)
}

func NewFileUploadResponse(f *file.File) FileUploadResponse {
	var thumbURL *string
	if f.ThumbnailPath != nil {
		t := file.ThumbnailURL(f.ID)
		thumbURL = &t
	}
	return FileUploadResponse{
		FileID:       f.ID,
		URL:          file.FileURL(f.ID),
		ThumbnailURL: thumbURL,
		ContentType:  f.ContentType,
		Size:         f.Size,
	}
}

func readAll(header *multipart.FileHeader, limit int64) ([]byte, error) {
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	var r io.Reader = src
	if limit > 0 {
		r = io.LimitReader(src, limit+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, file.ErrFileTooLarge
	}
	return data, nil
}
