package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-account-service/internal/domain"
	"go-gin-account-service/internal/service"
	"go-gin-account-service/internal/transport/http/handler"
	mdw "go-gin-account-service/internal/transport/http/middleware"
)

// NewAdminEngine serves /admin/v1. Every route needs a token whose account
// has isAdmin set.
func NewAdminEngine(l *zap.Logger, accounts *service.AccountService, admin *service.AdminService, tokens domain.TokenVerifier, lim Limits) *gin.Engine {
	r := base(l, lim)

	g := r.Group("/admin/v1", mdw.AuthJWT(tokens, accounts.Resolve), mdw.RequireAdmin())
	handler.NewAdminHandler(admin).Mount(g)
	return r
}
