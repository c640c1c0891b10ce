package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	mdw "go-gin-account-service/internal/transport/http/middleware"
	resp "go-gin-account-service/internal/transport/http/response"
)

// NewRouter returns an engine with access log, panic recovery, CORS and the
// JSON 404 every binary shares.
func NewRouter(l *zap.Logger) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = false
	r.Use(mdw.RequestID())
	r.Use(ginzap.GinzapWithConfig(l, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{"/health", "/metrics"},
		Context: func(c *gin.Context) []zapcore.Field {
			fields := []zapcore.Field{zap.String("request_id", c.GetString(mdw.KeyRequestID))}
			if uid := c.GetString(mdw.KeyUserID); uid != "" {
				fields = append(fields, zap.String("user_id", uid))
			}
			return fields
		},
	}))
	r.Use(mdw.RecoveryJSON(l))
	r.Use(cors.Default())
	r.NoRoute(func(c *gin.Context) {
		resp.Fail(c, http.StatusNotFound, "not found - "+c.Request.URL.Path)
	})
	return r
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       rt,
		ReadHeaderTimeout: rt,
		WriteTimeout:      wt,
		IdleTimeout:       it,
		MaxHeaderBytes:    1 << 20, // 1MB
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }

// HumanURL is the clickable base url logged at start-up.
func HumanURL(host string, port int) string {
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return "http://" + Addr(host, port)
}
