package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"go-gin-account-service/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// AdminService is the privileged path for the isAdmin flag. It is only
// mounted on the admin api.
type AdminService struct {
	users domain.UserRepository
	cache PrincipalCache
	log   *zap.Logger
}

// NewAdminService accepts a nil cache and a nil logger.
func NewAdminService(users domain.UserRepository, c PrincipalCache, l *zap.Logger) *AdminService {
	if l == nil {
		l = zap.NewNop()
	}
	return &AdminService{users: users, cache: c, log: l}
}

func (s *AdminService) ListUsers(ctx context.Context, offset, limit int, q string) ([]domain.User, int64, error) {
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	users, total, err := s.users.List(ctx, offset, limit, q)
	if err != nil {
		s.log.Error("list users failed", zap.Error(err))
		return nil, 0, domain.Internal("list users failed", err)
	}
	return users, total, nil
}

func (s *AdminService) SetAdmin(ctx context.Context, id string, isAdmin bool) (*domain.User, error) {
	if err := s.users.SetAdmin(ctx, id, isAdmin); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound(domain.MsgUserNotFound)
		}
		s.log.Error("set admin failed", zap.String("user_id", id), zap.Error(err))
		return nil, domain.Internal("set admin failed", err)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			s.log.Warn("principal cache invalidate failed", zap.String("user_id", id), zap.Error(err))
		}
	}
	s.log.Info("admin flag changed", zap.String("user_id", id), zap.Bool("is_admin", isAdmin))

	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound(domain.MsgUserNotFound)
		}
		return nil, domain.Internal("find user failed", err)
	}
	return u, nil
}

// PromoteByEmail grants admin to an existing account, used at admin start-up.
func (s *AdminService) PromoteByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound(domain.MsgUserNotFound)
		}
		return nil, domain.Internal("find user by email failed", err)
	}
	if u.IsAdmin {
		return u, nil
	}
	return s.SetAdmin(ctx, u.ID, true)
}
