package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"go-gin-account-service/internal/domain"
	"go-gin-account-service/internal/feature/user"
)

// UserRepo is the gorm credential store. The unique index on email is what
// keeps two racing registrations from both succeeding.
type UserRepo struct{ db *gorm.DB }

var _ domain.UserRepository = (*UserRepo)(nil)

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func Migrate(db *gorm.DB) error { return db.AutoMigrate(&user.UserModel{}) }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	m := user.FromDomain(u)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate("create user", err)
	}
	*u = *m.ToDomain()
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepo) first(ctx context.Context, where string, arg string) (*domain.User, error) {
	var m user.UserModel
	if err := r.db.WithContext(ctx).Where(where, arg).Take(&m).Error; err != nil {
		return nil, translate("find user", err)
	}
	return m.ToDomain(), nil
}

// Update writes the mutable profile columns only; is_admin is never part of
// the statement.
func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	m := user.FromDomain(u)
	err := r.db.WithContext(ctx).
		Model(m).
		Select("name", "email", "password_hash", "pic", "updated_at").
		Updates(m).Error
	if err != nil {
		return translate("update user", err)
	}
	u.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&user.UserModel{})
	if res.Error != nil {
		return translate("delete user", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepo) List(ctx context.Context, offset, limit int, q string) ([]domain.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&user.UserModel{})
	if s := strings.TrimSpace(q); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("email LIKE ? OR name LIKE ?", like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, translate("count users", err)
	}
	var ms []user.UserModel
	if err := tx.Order("created_at DESC").Order("id").Offset(offset).Limit(limit).Find(&ms).Error; err != nil {
		return nil, 0, translate("list users", err)
	}
	out := make([]domain.User, 0, len(ms))
	for i := range ms {
		out = append(out, *ms[i].ToDomain())
	}
	return out, total, nil
}

func (r *UserRepo) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	res := r.db.WithContext(ctx).Model(&user.UserModel{}).Where("id = ?", id).Update("is_admin", isAdmin)
	if res.Error != nil {
		return translate("set admin", res.Error)
	}
	if res.RowsAffected == 0 {
		// mysql reports 0 when the flag already had this value
		_, err := r.FindByID(ctx, id)
		return err
	}
	return nil
}

func translate(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isDupKey(err):
		return domain.ErrDuplicateEmail
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isDupKey(err error) bool {
	// drivers without TranslateError support still surface the raw message
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
