// Package service holds the account operations. Every method returns a
// *domain.Error (or nil) so the transport layer can map failures without
// inspecting store or crypto errors.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"go-gin-account-service/internal/domain"
)

// PrincipalCache is an optional read-through cache for Resolve.
type PrincipalCache interface {
	GetOrLoad(ctx context.Context, id string, load func(context.Context) (*domain.Principal, error)) (*domain.Principal, error)
	Invalidate(ctx context.Context, id string) error
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Pic      string
}

// EditInput fields left empty keep their current value.
type EditInput struct {
	Name     string
	Email    string
	Password string
	Pic      string
}

// Session is a user together with a freshly issued bearer token.
type Session struct {
	User  *domain.User
	Token string
}

type AccountService struct {
	users  domain.UserRepository
	hasher domain.PasswordHasher
	tokens domain.TokenIssuer
	cache  PrincipalCache
	log    *zap.Logger

	// compared against on unknown emails so login timing does not reveal
	// whether an account exists
	dummyHash string
}

type Option func(*AccountService)

func WithPrincipalCache(c PrincipalCache) Option {
	return func(s *AccountService) { s.cache = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *AccountService) { s.log = l }
}

func NewAccountService(users domain.UserRepository, hasher domain.PasswordHasher, tokens domain.TokenIssuer, opts ...Option) *AccountService {
	s := &AccountService{users: users, hasher: hasher, tokens: tokens, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	if h, err := hasher.Hash("account-service-dummy-password"); err == nil {
		s.dummyHash = h
	}
	return s
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, domain.Validation("name, email and password are required")
	}
	pic := strings.TrimSpace(in.Pic)
	if err := checkBounds(name, email, pic, in.Password); err != nil {
		return nil, err
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.Conflict(domain.MsgUserExists)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, s.internal("find user by email failed", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, s.internal("hash password failed", err)
	}
	if pic == "" {
		pic = domain.DefaultPic
	}
	u := &domain.User{Name: name, Email: email, PasswordHash: hash, Pic: pic}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			// lost a race with a concurrent registration
			return nil, domain.Conflict(domain.MsgUserExists)
		}
		return nil, s.internal("create user failed", err)
	}

	tok, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, s.internal("issue token failed", err)
	}
	s.log.Info("account registered", zap.String("user_id", u.ID))
	return &Session{User: u, Token: tok}, nil
}

// Authenticate fails with the same credentials error whether the email is
// unknown or the password is wrong.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.hasher.Compare(password, s.dummyHash)
			return nil, domain.Credentials()
		}
		return nil, s.internal("find user by email failed", err)
	}
	if !s.hasher.Compare(password, u.PasswordHash) {
		return nil, domain.Credentials()
	}

	tok, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, s.internal("issue token failed", err)
	}
	return &Session{User: u, Token: tok}, nil
}

// Resolve loads the principal for a verified token subject. A subject that no
// longer exists yields a not-found error.
func (s *AccountService) Resolve(ctx context.Context, id string) (*domain.Principal, error) {
	load := func(ctx context.Context) (*domain.Principal, error) {
		u, err := s.users.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return u.Principal(), nil
	}
	var (
		p   *domain.Principal
		err error
	)
	if s.cache != nil {
		p, err = s.cache.GetOrLoad(ctx, id, load)
	} else {
		p, err = load(ctx)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound(domain.MsgUserNotFound)
		}
		return nil, s.internal("resolve principal failed", err)
	}
	return p, nil
}

func (s *AccountService) View(ctx context.Context, id string) (*domain.User, error) {
	return s.find(ctx, id)
}

func (s *AccountService) Edit(ctx context.Context, id string, in EditInput) (*domain.User, error) {
	if err := checkBounds(strings.TrimSpace(in.Name), strings.TrimSpace(in.Email), strings.TrimSpace(in.Pic), in.Password); err != nil {
		return nil, err
	}
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(in.Name); v != "" {
		u.Name = v
	}
	if v := strings.TrimSpace(in.Email); v != "" {
		u.Email = v
	}
	if v := strings.TrimSpace(in.Pic); v != "" {
		u.Pic = v
	}
	if in.Password != "" {
		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return nil, s.internal("hash password failed", err)
		}
		u.PasswordHash = hash
	}

	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.Conflict(domain.MsgUserExists)
		}
		return nil, s.internal("update user failed", err)
	}
	s.invalidate(ctx, id)
	return u, nil
}

func (s *AccountService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound(domain.MsgUserNotFound)
		}
		return s.internal("delete user failed", err)
	}
	s.invalidate(ctx, id)
	s.log.Info("account removed", zap.String("user_id", id))
	return nil
}

// checkBounds rejects values the store or the hasher cannot take. Empty
// values pass.
func checkBounds(name, email, pic, password string) error {
	switch {
	case utf8.RuneCountInString(name) > domain.MaxNameLen:
		return domain.Validation(fmt.Sprintf("name must be at most %d characters", domain.MaxNameLen))
	case utf8.RuneCountInString(email) > domain.MaxEmailLen:
		return domain.Validation(fmt.Sprintf("email must be at most %d characters", domain.MaxEmailLen))
	case utf8.RuneCountInString(pic) > domain.MaxPicLen:
		return domain.Validation(fmt.Sprintf("pic must be at most %d characters", domain.MaxPicLen))
	case len(password) > domain.MaxPasswordBytes:
		return domain.Validation(fmt.Sprintf("password must be at most %d bytes", domain.MaxPasswordBytes))
	}
	return nil
}

func (s *AccountService) find(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound(domain.MsgUserNotFound)
		}
		return nil, s.internal("find user failed", err)
	}
	return u, nil
}

func (s *AccountService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn("principal cache invalidate failed", zap.String("user_id", id), zap.Error(err))
	}
}

func (s *AccountService) internal(msg string, err error) error {
	s.log.Error(msg, zap.Error(err))
	return domain.Internal(msg, err)
}
