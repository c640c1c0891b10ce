package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-account-service/internal/domain"
)

// Body is the shape of every error response and of plain acknowledgements.
type Body struct {
	Message string `json:"message"`
}

// Fail aborts the chain with status and {"message": msg}.
func Fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Body{Message: msg})
}

// Error writes err using its domain kind. Internal errors are reported with a
// generic message; the cause goes to c.Errors for the access log. A cause that
// ran out the request deadline is a 504.
func Error(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal && errors.Is(err, context.DeadlineExceeded) {
		_ = c.Error(err)
		Fail(c, http.StatusGatewayTimeout, MsgTimeout)
		return
	}
	if kind == domain.KindInternal {
		_ = c.Error(err)
		Fail(c, StatusOf(kind), domain.MsgInternal)
		return
	}
	Fail(c, StatusOf(kind), err.Error())
}
