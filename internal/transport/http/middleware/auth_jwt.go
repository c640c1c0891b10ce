package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"go-gin-account-service/internal/domain"
	resp "go-gin-account-service/internal/transport/http/response"
)

const KeyUserID = "userId"

type principalKey struct{}

func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the caller set by AuthJWT, or nil.
func PrincipalFrom(ctx context.Context) *domain.Principal {
	p, _ := ctx.Value(principalKey{}).(*domain.Principal)
	return p
}

// ResolveFunc loads the principal for a verified token subject.
type ResolveFunc func(ctx context.Context, id string) (*domain.Principal, error)

// AuthJWT requires "Authorization: Bearer <token>". The token subject must
// still resolve to an account; a deleted account fails like a bad token.
func AuthJWT(v domain.TokenVerifier, resolve ResolveFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		tok = strings.TrimSpace(tok)
		if !ok || tok == "" {
			reject(c, "no_token", domain.Unauthorized(domain.MsgNoToken))
			return
		}
		uid, err := v.Verify(tok)
		if err != nil {
			reject(c, "token_failed", domain.Unauthorized(domain.MsgTokenFailed))
			return
		}
		p, err := resolve(c.Request.Context(), uid)
		if err != nil {
			if domain.KindOf(err) == domain.KindNotFound || errors.Is(err, domain.ErrNotFound) {
				reject(c, "unknown_subject", domain.Unauthorized(domain.MsgTokenFailed))
				return
			}
			resp.Error(c, err)
			return
		}

		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), p))
		c.Set(KeyUserID, p.ID)
		c.Next()
	}
}

// RequireAdmin must run after AuthJWT.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := PrincipalFrom(c.Request.Context())
		if p == nil {
			reject(c, "no_token", domain.Unauthorized(domain.MsgNoToken))
			return
		}
		if !p.IsAdmin {
			reject(c, "not_admin", domain.Forbidden())
			return
		}
		c.Next()
	}
}

func reject(c *gin.Context, reason string, err error) {
	authRejections.WithLabelValues(reason).Inc()
	resp.Error(c, err)
}
