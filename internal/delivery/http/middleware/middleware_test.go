package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"seaview-backend/internal/domain"
	"seaview-backend/pkg/apperror"
	"seaview-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r http.Handler, method, path, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitInMemory(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(RateLimitConfig{
		Limit:     2,
		Window:    time.Minute,
		KeyPrefix: "rl:test:" + t.Name() + ":",
		KeyFunc:   func(c *gin.Context) string { return c.ClientIP() },
	}))
	r.Any("/contact", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := serve(r, http.MethodPost, "/contact", "198.51.100.7:4000")
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := serve(r, http.MethodPost, "/contact", "198.51.100.7:4000")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Too many messages sent. Please try again later or call us directly."}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// Other clients and preflights are unaffected
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/contact", "198.51.100.8:4000").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodOptions, "/contact", "198.51.100.7:4000").Code)
}

func TestCheckRateLimitInMemoryWindowReset(t *testing.T) {
	cfg := RateLimitConfig{Limit: 1, Window: time.Second}
	key := "rl:test:" + t.Name()
	now := time.Now()

	count, _ := checkRateLimitInMemory(key, cfg, now)
	assert.Equal(t, 1, count)
	count, _ = checkRateLimitInMemory(key, cfg, now.Add(500*time.Millisecond))
	assert.Equal(t, 2, count)
	count, _ = checkRateLimitInMemory(key, cfg, now.Add(2*time.Second))
	assert.Equal(t, 1, count, "counter resets once the window has passed")
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware())
	r.Any("/contact", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodOptions, "/contact", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(r, http.MethodPost, "/contact", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "POST", w.Header().Get("Access-Control-Allow-Methods"))
}

func TestRequestID(t *testing.T) {
	var seenCtx context.Context
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		seenCtx = c.Request.Context()
		c.Status(http.StatusOK)
	})

	w := serve(r, http.MethodGet, "/", "203.0.113.9:5000")
	id := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, seenCtx.Value(domain.KeyRequestID))
	assert.Equal(t, "203.0.113.9", seenCtx.Value(domain.KeyClientIP))

	inbound := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, inbound)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, inbound, w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Header().Get(RequestIDHeader))
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/app", func(c *gin.Context) {
		c.Error(apperror.BadRequest("Field 'name' is required"))
	})
	r.GET("/wrapped", func(c *gin.Context) {
		c.Error(apperror.New(http.StatusInternalServerError, "Failed to send email.", errors.New("smtp: 554")))
	})
	r.GET("/raw", func(c *gin.Context) {
		c.Error(errors.New("pq: connection reset"))
	})
	r.GET("/written", func(c *gin.Context) {
		c.String(http.StatusTeapot, "short and stout")
		c.Error(errors.New("ignored"))
	})

	w := serve(r, http.MethodGet, "/app", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Field 'name' is required"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/wrapped", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to send email."}`, w.Body.String())

	w = serve(r, http.MethodGet, "/raw", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")

	w = serve(r, http.MethodGet, "/written", "")
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "short and stout", w.Body.String())
}

func TestErrorHandlerLogsWrappedErrorOnce(t *testing.T) {
	var buf bytes.Buffer
	previous := logger.Log
	logger.Log = slog.New(slog.NewJSONHandler(&buf, nil))
	defer func() { logger.Log = previous }()

	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/send", func(c *gin.Context) {
		c.Error(apperror.New(http.StatusInternalServerError, "Failed to send email.", errors.New("smtp: 554")))
	})
	r.GET("/missing", func(c *gin.Context) {
		c.Error(apperror.BadRequest("Field 'name' is required"))
	})

	serve(r, http.MethodGet, "/send", "")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"level":"ERROR"`)
	assert.Contains(t, lines[0], `"error":"smtp: 554"`)

	buf.Reset()
	serve(r, http.MethodGet, "/missing", "")
	assert.Empty(t, buf.String(), "client errors without a cause are not logged")
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeadersMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/", "")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "https://api.web3forms.com")
}
