package cache

import (
	"context"
	"time"

	"go-gin-account-service/internal/domain"
)

const (
	principalKeyPrefix = "account:principal:"
	principalGenPrefix = "account:principal-gen:"
)

// PrincipalCache memoizes id -> principal lookups made by the auth guard.
// Entries must be invalidated whenever the account is edited or deleted.
type PrincipalCache struct {
	c   *Cache
	ttl time.Duration
}

func NewPrincipalCache(c *Cache, ttl time.Duration) *PrincipalCache {
	return &PrincipalCache{c: c, ttl: ttl}
}

func principalKey(id string) string { return principalKeyPrefix + id }

func principalGenKey(id string) string { return principalGenPrefix + id }

func (p *PrincipalCache) GetOrLoad(ctx context.Context, id string, load func(context.Context) (*domain.Principal, error)) (*domain.Principal, error) {
	return GetOrLoadJSON[domain.Principal](p.c, ctx, principalKey(id), principalGenKey(id), p.ttl, load)
}

func (p *PrincipalCache) Invalidate(ctx context.Context, id string) error {
	return p.c.Invalidate(ctx, principalKey(id), principalGenKey(id))
}
