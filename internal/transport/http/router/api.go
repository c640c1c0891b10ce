package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-gin-account-service/internal/core/server"
	"go-gin-account-service/internal/domain"
	"go-gin-account-service/internal/service"
	"go-gin-account-service/internal/transport/http/handler"
	mdw "go-gin-account-service/internal/transport/http/middleware"
)

// Limits bounds every request on an engine. Zero fields take defaults.
type Limits struct {
	MaxInFlight    int64
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

func (l Limits) withDefaults() Limits {
	if l.MaxInFlight <= 0 {
		l.MaxInFlight = 300
	}
	if l.MaxBodyBytes <= 0 {
		l.MaxBodyBytes = 1 << 20
	}
	if l.RequestTimeout <= 0 {
		l.RequestTimeout = 10 * time.Second
	}
	return l
}

func base(l *zap.Logger, lim Limits) *gin.Engine {
	lim = lim.withDefaults()
	r := server.NewRouter(l)
	r.Use(
		mdw.ConcurrencyLimit(lim.MaxInFlight),
		mdw.MaxBodyBytes(lim.MaxBodyBytes),
		mdw.Timeout(lim.RequestTimeout),
		mdw.Metrics(),
	)
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// NewAPIEngine serves the public account routes at the root path.
func NewAPIEngine(l *zap.Logger, accounts *service.AccountService, tokens domain.TokenVerifier, lim Limits) *gin.Engine {
	r := base(l, lim)
	r.GET("/app", func(c *gin.Context) { c.String(http.StatusOK, "API is running") })

	authed := r.Group("", mdw.AuthJWT(tokens, accounts.Resolve))
	handler.NewAccountHandler(accounts).Mount(r, authed)
	return r
}
