package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bengkelhub/bengkel-booking/internal/auth"
	"github.com/bengkelhub/bengkel-booking/internal/chat"
	"github.com/bengkelhub/bengkel-booking/internal/ratelimit"
)

type stubService struct {
	chat.Service
	sentBy *int64
}

func (s *stubService) Send(_ context.Context, userID *int64, req chat.SendRequest) (*chat.Message, *chat.Message, error) {
	s.sentBy = userID
	at := time.Date(2026, 1, 14, 3, 5, 0, 0, time.UTC)
	return &chat.Message{ID: 1, SessionID: req.SessionID, SenderType: chat.SenderUser, Body: req.Message, CreatedAt: at},
		&chat.Message{ID: 2, SessionID: req.SessionID, SenderType: chat.SenderAdmin, Body: "greeting", IsRead: true, CreatedAt: at},
		nil
}

func (s *stubService) UnreadCount(context.Context, string) (int, error) {
	return 3, nil
}

func setup(svc chat.Service, perSession int) (*gin.Engine, *auth.JWTManager) {
	return setupWithClientLimit(svc, perSession, 100)
}

func setupWithClientLimit(svc chat.Service, perSession, perClient int) (*gin.Engine, *auth.JWTManager) {
	gin.SetMode(gin.TestMode)
	jwt := auth.NewJWTManager("test-secret", time.Hour, "bengkel-test")
	jakarta, _ := time.LoadLocation("Asia/Jakarta")

	h := NewHandler(svc,
		ratelimit.NewLocalLimiter(perSession, time.Minute),
		ratelimit.NewLocalLimiter(perClient, time.Minute),
		jakarta,
	)
	r := gin.New()
	pass := func(c *gin.Context) { c.Next() }
	RegisterRoutes(r.Group("/v1"), h, auth.OptionalAuth(jwt), auth.AuthRequired(jwt), pass)
	return r, jwt
}

func post(r http.Handler, path string, body any, token string) (*httptest.ResponseRecorder, map[string]any) {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestSendAnonymous(t *testing.T) {
	svc := &stubService{}
	r, _ := setup(svc, 10)

	w, body := post(r, "/v1/chat/send", map[string]string{"session_id": "s-1", "message": "halo"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Nil(t, svc.sentBy)

	data := body["data"].(map[string]any)
	assert.Equal(t, "halo", data["message"].(map[string]any)["message"])
	assert.Equal(t, "10:05", data["message"].(map[string]any)["created_at"])
	assert.Equal(t, "greeting", data["reply"].(map[string]any)["message"])
}

func TestSendWithTokenRecordsUser(t *testing.T) {
	svc := &stubService{}
	r, jwt := setup(svc, 10)

	token, err := jwt.GenerateAccessToken(7, "customer")
	require.NoError(t, err)

	w, _ := post(r, "/v1/chat/send", map[string]string{"session_id": "s-1", "message": "halo"}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.sentBy)
	assert.Equal(t, int64(7), *svc.sentBy)
}

func TestSendIsRateLimitedPerSession(t *testing.T) {
	r, _ := setup(&stubService{}, 2)
	msg := func(session string) map[string]string { return map[string]string{"session_id": session, "message": "halo"} }

	for i := 0; i < 2; i++ {
		w, _ := post(r, "/v1/chat/send", msg("s-1"), "")
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, body := post(r, "/v1/chat/send", msg("s-1"), "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, false, body["success"])

	w, _ = post(r, "/v1/chat/send", msg("s-2"), "")
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSendIsRateLimitedPerClient(t *testing.T) {
	r, _ := setupWithClientLimit(&stubService{}, 10, 3)

	// Rotating session ids does not escape the per-client budget.
	for i := 0; i < 3; i++ {
		w, _ := post(r, "/v1/chat/send", map[string]string{"session_id": fmt.Sprintf("s-%d", i), "message": "halo"}, "")
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, body := post(r, "/v1/chat/send", map[string]string{"session_id": "s-new", "message": "halo"}, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, false, body["success"])
}

func TestUnreadCountRequiresSession(t *testing.T) {
	r, _ := setup(&stubService{}, 10)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/chat/unread-count", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/chat/unread-count?session_id=s-1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, float64(3), out["data"].(map[string]any)["unread_count"])
}
