package file

import (
	"net/http"
	"time"

	"github.com/bengkelhub/bengkel-booking/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "file not found")
	ErrThumbnailNotFound = apperror.New(http.StatusNotFound, "thumbnail not available for this file")
	ErrFileTooLarge      = apperror.New(http.StatusRequestEntityTooLarge, "file is too large")
	ErrUnsupportedType   = apperror.New(http.StatusBadRequest, "unsupported file type")
	ErrInvalidImage      = apperror.New(http.StatusBadRequest, "file is not a valid image")
)

// File is an uploaded image plus its generated thumbnail.
type File struct {
	ID            string
	UploaderID    *int64
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}

// UploadInput describes one upload and the limits it must respect.
type UploadInput struct {
	Filename     string
	Content      []byte
	UploaderID   int64
	MaxSizeBytes int64
	AllowedTypes []string
}

// FileURL returns the public URL for accessing a file by its ID.
func FileURL(id string) string {
	return "/v1/files/" + id
}

// ThumbnailURL returns the public URL for accessing a file's thumbnail by its ID.
func ThumbnailURL(id string) string {
	return "/v1/files/" + id + "/thumbnail"
}

// OptionalURL maps a nullable file id to its URL.
func OptionalURL(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	u := FileURL(*id)
	return &u
}
