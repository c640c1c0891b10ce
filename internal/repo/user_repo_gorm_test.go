package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-gin-account-service/internal/domain"
	"go-gin-account-service/pkg/utils"
)

func newSQLiteRepo(t *testing.T) *UserRepo {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", utils.NewID())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, Migrate(db))
	return NewUserRepo(db)
}

func newMockRepo(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return NewUserRepo(db), mock
}

func seed(t *testing.T, r *UserRepo, name, email string) *domain.User {
	t.Helper()
	u := &domain.User{Name: name, Email: email, PasswordHash: "hash-" + name, Pic: domain.DefaultPic}
	require.NoError(t, r.Create(context.Background(), u))
	return u
}

func TestCreate_AssignsIDAndTimestamps(t *testing.T) {
	r := newSQLiteRepo(t)

	u := seed(t, r, "Test User", "test@example.com")

	assert.Len(t, u.ID, 32)
	assert.False(t, u.IsAdmin)
	assert.False(t, u.CreatedAt.IsZero())
}

func TestCreate_DuplicateEmail(t *testing.T) {
	r := newSQLiteRepo(t)
	seed(t, r, "a", "dup@example.com")

	err := r.Create(context.Background(), &domain.User{Name: "b", Email: "dup@example.com", PasswordHash: "h", Pic: "p"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestFind_ByIDAndEmail(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()
	u := seed(t, r, "Test User", "test@example.com")

	got, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", got.Email)
	assert.Equal(t, "hash-Test User", got.PasswordHash)

	got, err = r.FindByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = r.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = r.FindByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_ProfileFieldsOnly(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()
	u := seed(t, r, "Test User", "test@example.com")
	require.NoError(t, r.SetAdmin(ctx, u.ID, true))

	u.Name = "Updated User"
	u.Pic = "new.jpg"
	u.PasswordHash = "new-hash"
	u.IsAdmin = false
	require.NoError(t, r.Update(ctx, u))

	got, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated User", got.Name)
	assert.Equal(t, "new.jpg", got.Pic)
	assert.Equal(t, "new-hash", got.PasswordHash)
	assert.True(t, got.IsAdmin, "update must not touch is_admin")
}

func TestUpdate_EmailTakenByAnotherUser(t *testing.T) {
	r := newSQLiteRepo(t)
	seed(t, r, "a", "a@example.com")
	b := seed(t, r, "b", "b@example.com")

	b.Email = "a@example.com"
	assert.ErrorIs(t, r.Update(context.Background(), b), domain.ErrDuplicateEmail)
}

func TestDelete(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()
	u := seed(t, r, "Test User", "test@example.com")

	require.NoError(t, r.Delete(ctx, u.ID))
	_, err := r.FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, u.ID), domain.ErrNotFound)

	// hard delete frees the email
	seed(t, r, "Again", "test@example.com")
}

func TestList_FilterAndPage(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()
	seed(t, r, "alice", "alice@example.com")
	seed(t, r, "bob", "bob@example.com")
	seed(t, r, "carol", "carol@corp.test")

	all, total, err := r.List(ctx, 0, 10, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 3)

	page, total, err := r.List(ctx, 1, 1, "example.com")
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, page, 1)
}

func TestSetAdmin(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()
	u := seed(t, r, "Test User", "test@example.com")

	require.NoError(t, r.SetAdmin(ctx, u.ID, true))
	got, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin)

	assert.ErrorIs(t, r.SetAdmin(ctx, "missing", true), domain.ErrNotFound)
}

func TestFindByEmail_DBError(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnError(errors.New("db down"))

	_, err := r.FindByEmail(context.Background(), "test@example.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorContains(t, err, "find user: db down")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_DBError(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectExec(`DELETE FROM "users" WHERE id = \$1`).
		WithArgs("u1").
		WillReturnError(errors.New("conn reset"))

	err := r.Delete(context.Background(), "u1")
	assert.ErrorContains(t, err, "delete user: conn reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslate(t *testing.T) {
	assert.ErrorIs(t, translate("op", gorm.ErrRecordNotFound), domain.ErrNotFound)
	assert.ErrorIs(t, translate("op", gorm.ErrDuplicatedKey), domain.ErrDuplicateEmail)
	assert.ErrorIs(t, translate("op", errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`)), domain.ErrDuplicateEmail)
	assert.ErrorIs(t, translate("op", errors.New("UNIQUE constraint failed: users.email")), domain.ErrDuplicateEmail)

	cause := errors.New("timeout")
	err := translate("find user", cause)
	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "find user: timeout")
}
