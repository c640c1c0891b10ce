package ez

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"go-gin-account-service/internal/domain"
	mdw "go-gin-account-service/internal/transport/http/middleware"
)

func init() { gin.SetMode(gin.TestMode) }

type echoIn struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required,max=8"`
}

type echoOut struct {
	Email string `json:"email"`
	Who   string `json:"who"`
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegister_BindAndStatus(t *testing.T) {
	r := gin.New()
	Register(r, Action[echoIn, echoOut]{
		Method: http.MethodPost,
		Path:   "/echo",
		Binder: BindJSON,
		Status: http.StatusCreated,
		Handler: func(_ *gin.Context, p *domain.Principal, in *echoIn) (echoOut, error) {
			assert.Nil(t, p)
			return echoOut{Email: in.Email}, nil
		},
	})

	w := serve(r, http.MethodPost, "/echo", `{"email":"a@example.com","name":"a"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"email":"a@example.com","who":""}`, w.Body.String())

	w = serve(r, http.MethodPost, "/echo", `{"email":"bad"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"email must be a valid email; name is required"}`, w.Body.String())

	w = serve(r, http.MethodPost, "/echo", `{"email":"a@example.com","name":"much-too-long"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"name must be at most 8 characters"}`, w.Body.String())

	w = serve(r, http.MethodPost, "/echo", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"invalid request body"}`, w.Body.String())

	w = serve(r, http.MethodPost, "/echo", "")
	assert.JSONEq(t, `{"message":"request body is required"}`, w.Body.String())
}

func TestRegister_OptionalBody(t *testing.T) {
	r := gin.New()
	type in struct {
		Email string `json:"email" binding:"omitempty,email"`
	}
	Register(r, Action[in, echoOut]{
		Method: http.MethodPost,
		Path:   "/edit",
		Binder: BindJSONOptional,
		Handler: func(_ *gin.Context, _ *domain.Principal, in *in) (echoOut, error) {
			return echoOut{Email: in.Email}, nil
		},
	})

	w := serve(r, http.MethodPost, "/edit", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegister_AuthAndErrors(t *testing.T) {
	r := gin.New()
	withCaller := func(c *gin.Context) {
		if c.GetHeader("X-Test-User") != "" {
			p := &domain.Principal{ID: c.GetHeader("X-Test-User")}
			c.Request = c.Request.WithContext(mdw.WithPrincipal(c.Request.Context(), p))
		}
	}
	r.Use(withCaller)
	Register(r, Action[struct{}, echoOut]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: BindNone,
		Auth:   true,
		Handler: func(_ *gin.Context, p *domain.Principal, _ *struct{}) (echoOut, error) {
			switch p.ID {
			case "gone":
				return echoOut{}, domain.NotFound(domain.MsgUserNotFound)
			case "boom":
				return echoOut{}, errors.New("db down")
			}
			return echoOut{Who: p.ID}, nil
		},
	})

	w := serve(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"not authorized, no token"}`, w.Body.String())

	cases := map[string]struct {
		status int
		body   string
	}{
		"u1":   {http.StatusOK, `{"email":"","who":"u1"}`},
		"gone": {http.StatusNotFound, `{"message":"user not found"}`},
		"boom": {http.StatusInternalServerError, `{"message":"internal server error"}`},
	}
	for id, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("X-Test-User", id)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want.status, w.Code, id)
		assert.JSONEq(t, want.body, w.Body.String(), id)
	}
}
