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

	"github.com/medictrans/oncall-api/pkg/errors"
	"github.com/medictrans/oncall-api/pkg/httputil"
)

func do(engine *gin.Engine, method string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, "/", nil))
	return w
}

func TestErrorHandlerRendersUnwrittenErrors(t *testing.T) {
	engine := gin.New()
	engine.Use(ErrorHandler())
	engine.GET("/", func(c *gin.Context) {
		_ = c.Error(errors.NotFound("request", nil))
	})

	w := do(engine, http.MethodGet)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body httputil.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, httputil.StatusError, body.Status)
	assert.Equal(t, "request not found", body.Message)
}

func TestErrorHandlerKeepsWrittenResponse(t *testing.T) {
	engine := gin.New()
	engine.Use(ErrorHandler())
	engine.GET("/", func(c *gin.Context) {
		httputil.RespondWithError(c, errors.Forbidden("nope"))
	})

	w := do(engine, http.MethodGet)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "nope")
}

func TestRecovery(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID(), Recovery())
	engine.GET("/", func(c *gin.Context) {
		panic("boom")
	})

	w := do(engine, http.MethodGet)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
	assert.NotEmpty(t, w.Header().Get(HeaderXRequestID))
}

func TestRequestIDPropagates(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextRequestID))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, "abc-123")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(HeaderXRequestID))
}

func TestCache(t *testing.T) {
	engine := gin.New()
	engine.Use(Cache(DefaultCacheConfig()))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := do(engine, http.MethodGet)
	assert.Equal(t, "public, max-age=300, stale-while-revalidate=60", get.Header().Get("Cache-Control"))
	assert.Equal(t, "Accept, Accept-Language", get.Header().Get("Vary"))

	post := do(engine, http.MethodPost)
	assert.Equal(t, "no-store", post.Header().Get("Cache-Control"))
}

func TestTimeoutSetsDeadline(t *testing.T) {
	engine := gin.New()
	engine.Use(Timeout(TimeoutConfig{Duration: time.Second}))
	engine.GET("/", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		c.String(http.StatusOK, "%t", ok)
	})

	w := do(engine, http.MethodGet)

	assert.Equal(t, "true", w.Body.String())
}

func TestBodyLimit(t *testing.T) {
	engine := gin.New()
	engine.Use(BodyLimit(8))
	engine.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"too long"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusOK, w.Code)
}
