package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-account-service/internal/domain"
	"go-gin-account-service/internal/service"
	"go-gin-account-service/internal/transport/http/ez"
)

type listQ struct {
	Offset int    `form:"offset,default=0"`
	Limit  int    `form:"limit,default=20"`
	Q      string `form:"q"` // matches email or name
}

type listOut struct {
	Total int64     `json:"total"`
	Items []UserOut `json:"items"`
}

type setAdminIn struct {
	IsAdmin *bool `json:"isAdmin" binding:"required"`
}

type AdminHandler struct {
	svc *service.AdminService
}

func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// Mount expects g to carry AuthJWT and RequireAdmin.
func (h *AdminHandler) Mount(g gin.IRoutes) {
	ez.Register(g, ez.Action[listQ, listOut]{
		Method:  http.MethodGet,
		Path:    "/users",
		Binder:  ez.BindQuery,
		Auth:    true,
		Handler: h.list,
	})
	ez.Register(g, ez.Action[setAdminIn, UserOut]{
		Method:  http.MethodPost,
		Path:    "/users/:id/admin",
		Binder:  ez.BindJSON,
		Auth:    true,
		Handler: h.setAdmin,
	})
}

func (h *AdminHandler) list(c *gin.Context, _ *domain.Principal, in *listQ) (listOut, error) {
	users, total, err := h.svc.ListUsers(c.Request.Context(), in.Offset, in.Limit, in.Q)
	if err != nil {
		return listOut{}, err
	}
	out := listOut{Total: total, Items: make([]UserOut, 0, len(users))}
	for i := range users {
		out.Items = append(out.Items, toUserOut(&users[i], ""))
	}
	return out, nil
}

func (h *AdminHandler) setAdmin(c *gin.Context, _ *domain.Principal, in *setAdminIn) (UserOut, error) {
	u, err := h.svc.SetAdmin(c.Request.Context(), c.Param("id"), *in.IsAdmin)
	if err != nil {
		return UserOut{}, err
	}
	return toUserOut(u, ""), nil
}
