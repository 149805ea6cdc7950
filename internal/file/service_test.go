package file

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bengkelhub/bengkel-booking/internal/pkg/storage"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, f *File) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*File, error) {
	args := m.Called(ctx, id)
	if f := args.Get(0); f != nil {
		return f.(*File), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 300, 240))
	img.Set(10, 10, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestService(t *testing.T) (*service, *mockRepo) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := new(mockRepo)
	logger := zerolog.Nop()
	return NewService(repo, store, &logger).(*service), repo
}

func TestUploadStoresImageAndThumbnail(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	var saved *File
	repo.On("Create", ctx, mock.AnythingOfType("*file.File")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*File) }).
		Return(nil)

	f, err := svc.Upload(ctx, UploadInput{
		Filename:     "oli.PNG",
		Content:      pngBytes(t),
		UploaderID:   5,
		MaxSizeBytes: 5 << 20,
		AllowedTypes: ImageTypes,
	})
	require.NoError(t, err)
	require.Same(t, saved, f)

	assert.Equal(t, "image/png", f.ContentType)
	assert.Equal(t, int64(5), *f.UploaderID)
	assert.Contains(t, f.StoragePath, ".png")
	require.NotNil(t, f.ThumbnailPath)

	repo.On("GetByID", ctx, f.ID).Return(f, nil)

	rc, _, err := svc.DownloadThumbnail(ctx, f.ID)
	require.NoError(t, err)
	defer rc.Close()
	thumb, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", http.DetectContentType(thumb))
}

func TestUploadRejects(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, UploadInput{Filename: "a.png", Content: pngBytes(t), MaxSizeBytes: 10})
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = svc.Upload(ctx, UploadInput{Filename: "a.txt", Content: []byte("hello world"), AllowedTypes: ImageTypes})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = svc.Upload(ctx, UploadInput{Filename: "a.png", Content: []byte("\x89PNG\r\n\x1a\nbroken")})
	assert.ErrorIs(t, err, ErrInvalidImage)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUploadCleansUpWhenRecordFails(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	var attempted *File
	repo.On("Create", ctx, mock.Anything).
		Run(func(args mock.Arguments) { attempted = args.Get(1).(*File) }).
		Return(errors.New("db down"))

	_, err := svc.Upload(ctx, UploadInput{Filename: "a.png", Content: pngBytes(t)})
	require.Error(t, err)
	require.NotNil(t, attempted)

	_, err = svc.storage.Get(ctx, attempted.StoragePath)
	assert.ErrorIs(t, err, storage.ErrNotExist)
	require.NotNil(t, attempted.ThumbnailPath)
	_, err = svc.storage.Get(ctx, *attempted.ThumbnailPath)
	assert.ErrorIs(t, err, storage.ErrNotExist)
}

func TestGetRejectsMalformedID(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
