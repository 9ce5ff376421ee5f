package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blendery/internal/core/apperror"
	appctx "blendery/internal/core/context"
	"blendery/internal/infrastructure/cache"
	"blendery/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type staticValidator map[string]*appctx.UserContext

func (v staticValidator) ValidateToken(token string) (*appctx.UserContext, error) {
	if u, ok := v[token]; ok {
		return u, nil
	}
	return nil, apperror.NewUnauthorized("invalid token")
}

var tokens = staticValidator{
	"admin": {UserID: "u-admin", IsAdmin: true},
	"clerk": {UserID: "u-clerk"},
}

func newEngine(extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(), Trace(), ErrorHandler())
	r.Use(extra...)
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestRecovery_RendersInternalError(t *testing.T) {
	r := newEngine()
	r.GET("/boom", func(*gin.Context) { panic("secret detail") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, apperror.CodeInternal, body.Code)
	assert.NotContains(t, w.Body.String(), "secret detail")
	assert.Equal(t, w.Header().Get(HeaderRequestID), body.Details["request_id"])
}

func TestRecovery_RouterOrderWritesEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(), Trace(), Logger(logger.Default()), ErrorHandler())
	r.POST("/runs", func(*gin.Context) {
		var m map[string]int
		m["x"] = 1
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/runs", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, http.StatusInternalServerError, body.StatusCode)
	assert.Equal(t, apperror.CodeInternal, body.Code)
}

func TestRecovery_PanicIsReplayedForIdempotencyKey(t *testing.T) {
	store := cache.NewMemoryIdempotencyStore(time.Hour)
	calls := 0

	r := newEngine(Auth(tokens), Idempotency(store))
	r.POST("/runs", func(*gin.Context) {
		calls++
		panic("boom")
	})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/runs", strings.NewReader(`{}`))
		req.Header.Set("Authorization", "Bearer clerk")
		req.Header.Set(HeaderIdempotencyKey, "k-panic")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := send()
	second := send()
	assert.Equal(t, http.StatusInternalServerError, first.Code)
	assert.Equal(t, http.StatusInternalServerError, second.Code)
	assert.Equal(t, 1, calls)
}

func TestTrace_KeepsIncomingRequestID(t *testing.T) {
	r := newEngine()
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(HeaderRequestID))
	assert.NotEmpty(t, w.Header().Get(HeaderTraceID))
}

func TestAuth_RejectsMalformedHeader(t *testing.T) {
	r := newEngine(Auth(tokens))
	r.GET("/me", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, header := range []string{"", "Token clerk", "Bearer ", "Bearer nope"} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		assert.Equal(t, apperror.CodeUnauthorized, decode(t, w).Code, header)
	}
}

func TestRequireAdmin(t *testing.T) {
	r := newEngine(Auth(tokens))
	r.DELETE("/x", RequireAdmin(), func(c *gin.Context) {
		assert.NotEmpty(t, c.GetString(KeyUserID))
		c.Status(http.StatusOK)
	})

	call := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, "/x", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := call("clerk")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperror.CodeForbidden, decode(t, w).Code)

	assert.Equal(t, http.StatusOK, call("admin").Code)
}

func TestErrorHandler_KeepsClientDetails(t *testing.T) {
	r := newEngine()
	r.GET("/short", func(c *gin.Context) {
		_ = c.Error(apperror.NewInsufficientStock("Insufficient stock for: Cumin", []apperror.Shortage{
			{ID: "m1", Name: "Cumin", Available: "1", Required: "2"},
		}))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/short", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, apperror.CodeInsufficientStock, body.Code)
	items, ok := body.Details["items"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 1)
}

func TestIdempotency_ReplaysFailureAndSkipsGet(t *testing.T) {
	store := cache.NewMemoryIdempotencyStore(time.Hour)
	calls := 0

	r := newEngine(Auth(tokens), Idempotency(store))
	r.POST("/runs", func(c *gin.Context) {
		calls++
		_ = c.Error(apperror.NewValidation("quantity must be positive"))
	})
	r.GET("/runs", func(c *gin.Context) {
		calls++
		c.Status(http.StatusOK)
	})

	send := func(method string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/runs", strings.NewReader(`{"quantity":0}`))
		req.Header.Set("Authorization", "Bearer clerk")
		req.Header.Set(HeaderIdempotencyKey, "k-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := send(http.MethodPost)
	second := send(http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, first.Code)
	assert.Equal(t, http.StatusBadRequest, second.Code)
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)

	send(http.MethodGet)
	send(http.MethodGet)
	assert.Equal(t, 3, calls)
}
