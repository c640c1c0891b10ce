package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMySQLDSN(t *testing.T) {
	cases := []struct {
		name, in, user, pass, want string
	}{
		{
			name: "native dsn untouched",
			in:   "root:pw@tcp(127.0.0.1:3306)/app?parseTime=true",
			want: "root:pw@tcp(127.0.0.1:3306)/app?parseTime=true",
		},
		{
			name: "url form",
			in:   "mysql://root:pw@db:3306/app",
			want: "root:pw@tcp(db:3306)/app?charset=utf8mb4&parseTime=true",
		},
		{
			name: "jdbc with params and overrides",
			in:   "jdbc:mysql://db:3306/app?useSSL=false&serverTimezone=UTC&characterEncoding=utf8&useUnicode=true",
			user: "svc", pass: "secret",
			want: "svc:secret@tcp(db:3306)/app?charset=utf8&loc=UTC&parseTime=true&tls=false",
		},
		{
			name: "credentials from query",
			in:   "mysql://db:3306/app?user=a&password=b&useSSL=true",
			want: "a:b@tcp(db:3306)/app?charset=utf8mb4&parseTime=true&tls=true",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeMySQLDSN(tc.in, tc.user, tc.pass))
		})
	}
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "postgres://app:xxxxx@db:5432/accounts", maskDSN("postgres://app:pw@db:5432/accounts"))
	assert.Equal(t, "host=db user=app password=**** dbname=accounts", maskDSN("host=db user=app password=pw dbname=accounts"))
	assert.Equal(t, "root:****@tcp(db:3306)/app", maskDSN("root:pw@tcp(db:3306)/app"))
	assert.Equal(t, "accounts.db", maskDSN("accounts.db"))
}

func TestNewGorm_UnsupportedDriver(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "mongo"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestNewGorm_SQLiteOpenAndClose(t *testing.T) {
	db, err := NewGorm(Opts{Driver: "sqlite", DSN: "file::memory:", LogLevel: "silent"})
	require.NoError(t, err)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
	assert.NoError(t, Close(db))
}
