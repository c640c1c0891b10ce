package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "go-gin-account-service/internal/transport/http/response"
)

// MaxBodyBytes rejects declared oversize bodies up front and caps the reader
// for chunked ones; the ez binder turns the reader error into a 413.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			resp.Fail(c, http.StatusRequestEntityTooLarge, resp.MsgBodyTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
