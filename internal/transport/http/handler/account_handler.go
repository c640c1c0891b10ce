package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-account-service/internal/domain"
	"go-gin-account-service/internal/service"
	"go-gin-account-service/internal/transport/http/ez"
	resp "go-gin-account-service/internal/transport/http/response"
)

// UserOut is the public view of an account. Token is set only by register
// and login.
type UserOut struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	Pic     string `json:"pic"`
	Token   string `json:"token,omitempty"`
}

func toUserOut(u *domain.User, token string) UserOut {
	return UserOut{ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin, Pic: u.Pic, Token: token}
}

// Password length is checked in bytes by the service.
type registerIn struct {
	Name     string `json:"name" binding:"required,max=64"`
	Email    string `json:"email" binding:"required,email,max=191"`
	Password string `json:"password" binding:"required"`
	Pic      string `json:"pic" binding:"omitempty,max=512"`
}

// Email is not format-checked here so a malformed address fails like any
// other unknown one.
type loginIn struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type editIn struct {
	Name     string `json:"name" binding:"omitempty,max=64"`
	Email    string `json:"email" binding:"omitempty,email,max=191"`
	Password string `json:"password"`
	Pic      string `json:"pic" binding:"omitempty,max=512"`
}

type AccountHandler struct {
	svc *service.AccountService
}

func NewAccountHandler(svc *service.AccountService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

// Mount registers register/login on public and view/edit/delete on authed,
// which must already carry the auth guard.
func (h *AccountHandler) Mount(public, authed gin.IRoutes) {
	ez.Register(public, ez.Action[registerIn, UserOut]{
		Method:  http.MethodPost,
		Path:    "/register",
		Binder:  ez.BindJSON,
		Status:  http.StatusCreated,
		Handler: h.register,
	})
	ez.Register(public, ez.Action[loginIn, UserOut]{
		Method:  http.MethodPost,
		Path:    "/login",
		Binder:  ez.BindJSON,
		Handler: h.login,
	})
	ez.Register(authed, ez.Action[struct{}, UserOut]{
		Method:  http.MethodGet,
		Path:    "/view",
		Binder:  ez.BindNone,
		Auth:    true,
		Handler: h.view,
	})
	ez.Register(authed, ez.Action[editIn, UserOut]{
		Method:  http.MethodPost,
		Path:    "/edit",
		Binder:  ez.BindJSONOptional,
		Auth:    true,
		Handler: h.edit,
	})
	ez.Register(authed, ez.Action[struct{}, resp.Body]{
		Method:  http.MethodDelete,
		Path:    "/delete",
		Binder:  ez.BindNone,
		Auth:    true,
		Handler: h.delete,
	})
}

func (h *AccountHandler) register(c *gin.Context, _ *domain.Principal, in *registerIn) (UserOut, error) {
	s, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		Name: in.Name, Email: in.Email, Password: in.Password, Pic: in.Pic,
	})
	if err != nil {
		return UserOut{}, err
	}
	return toUserOut(s.User, s.Token), nil
}

func (h *AccountHandler) login(c *gin.Context, _ *domain.Principal, in *loginIn) (UserOut, error) {
	s, err := h.svc.Authenticate(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		return UserOut{}, err
	}
	return toUserOut(s.User, s.Token), nil
}

func (h *AccountHandler) view(c *gin.Context, p *domain.Principal, _ *struct{}) (UserOut, error) {
	u, err := h.svc.View(c.Request.Context(), p.ID)
	if err != nil {
		return UserOut{}, err
	}
	return toUserOut(u, ""), nil
}

func (h *AccountHandler) edit(c *gin.Context, p *domain.Principal, in *editIn) (UserOut, error) {
	u, err := h.svc.Edit(c.Request.Context(), p.ID, service.EditInput{
		Name: in.Name, Email: in.Email, Password: in.Password, Pic: in.Pic,
	})
	if err != nil {
		return UserOut{}, err
	}
	return toUserOut(u, ""), nil
}

func (h *AccountHandler) delete(c *gin.Context, p *domain.Principal, _ *struct{}) (resp.Body, error) {
	if err := h.svc.Delete(c.Request.Context(), p.ID); err != nil {
		return resp.Body{}, err
	}
	return resp.Body{Message: domain.MsgAccountRemoved}, nil
}
