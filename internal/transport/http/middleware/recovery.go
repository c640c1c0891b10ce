package middleware

import (
	"net/http"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-account-service/internal/domain"
	resp "go-gin-account-service/internal/transport/http/response"
)

// RecoveryJSON logs the panic with its stack and answers with the JSON 500.
func RecoveryJSON(l *zap.Logger) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, _ any) {
		resp.Fail(c, http.StatusInternalServerError, domain.MsgInternal)
	})
}
