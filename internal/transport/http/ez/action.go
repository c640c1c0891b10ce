// Package ez registers typed request/response actions on gin routes: bind the
// input, hand the handler the caller, translate the returned error.
package ez

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"go-gin-account-service/internal/domain"
	mdw "go-gin-account-service/internal/transport/http/middleware"
	resp "go-gin-account-service/internal/transport/http/response"
)

type Binder string

const (
	BindJSON Binder = "json"
	// BindJSONOptional accepts an empty body as the zero input.
	BindJSONOptional Binder = "json?"
	BindQuery        Binder = "query"
	BindNone         Binder = "none" // handler reads c.Param itself
)

// Action describes one endpoint. I is the bound input, O the response body.
type Action[I any, O any] struct {
	Method string
	Path   string
	Binder Binder
	// Auth requires a principal set by middleware.AuthJWT on the group.
	Auth bool
	// Status on success; 200 when zero.
	Status  int
	Handler func(c *gin.Context, p *domain.Principal, in *I) (O, error)
}

func Register[I any, O any](g gin.IRoutes, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		var p *domain.Principal
		if a.Auth {
			if p = mdw.PrincipalFrom(c.Request.Context()); p == nil {
				resp.Error(c, domain.Unauthorized(domain.MsgNoToken))
				return
			}
		}

		var in I
		var err error
		switch a.Binder {
		case BindJSON:
			err = c.ShouldBindJSON(&in)
		case BindJSONOptional:
			if err = c.ShouldBindJSON(&in); errors.Is(err, io.EOF) {
				err = nil
			}
		case BindQuery:
			err = c.ShouldBindQuery(&in)
		}
		if err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				resp.Fail(c, http.StatusRequestEntityTooLarge, resp.MsgBodyTooLarge)
				return
			}
			resp.Error(c, domain.Validation(bindMessage(err)))
			return
		}

		out, err := a.Handler(c, p, &in)
		if err != nil {
			resp.Error(c, err)
			return
		}
		c.JSON(status, out)
	}
	g.Handle(strings.ToUpper(a.Method), a.Path, h)
}

// bindMessage turns binding errors into a short caller-facing sentence.
func bindMessage(err error) string {
	if errors.Is(err, io.EOF) {
		return "request body is required"
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return "invalid request body"
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		field := lowerFirst(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(msgs, "; ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
