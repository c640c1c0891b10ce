package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func init() { gin.SetMode(gin.TestMode) }

func TestNewRouter_NoRoute(t *testing.T) {
	r := NewRouter(zap.NewNop())
	r.GET("/app", func(c *gin.Context) { c.String(http.StatusOK, "API is running") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"not found - /nope"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	// wrong method on a known path is also unmatched
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/app", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewRouter_RecoversPanics(t *testing.T) {
	r := NewRouter(zap.NewNop())
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"internal server error"}`, w.Body.String())
}

func TestBuildServer(t *testing.T) {
	srv := BuildServer(Addr("127.0.0.1", 5002), http.NewServeMux(), time.Second, 2*time.Second, 3*time.Second)
	assert.Equal(t, "127.0.0.1:5002", srv.Addr)
	assert.Equal(t, 2*time.Second, srv.WriteTimeout)
	assert.Equal(t, "http://127.0.0.1:5003", HumanURL("0.0.0.0", 5003))
	assert.Equal(t, "http://api.local:80", HumanURL("api.local", 80))
}
