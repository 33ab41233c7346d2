package services

import (
	"context"
	"testing"
	"time"

	"scan2know/utils"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestSignup(t *testing.T) {
	withDB(func() {
		mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE email = \$1 OR username = \$2`).
			WithArgs("ann@example.com", "ann").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "users"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
		mock.ExpectCommit()

		res, err := NewAuthService(gdb, testSecret, time.Hour).Signup(context.Background(), SignupInput{
			Username: "ann",
			Email:    " Ann@Example.com ",
			Password: "secret1",
			Age:      30,
		})
		require.NoError(t, err)
		assert.Equal(t, uint(11), res.User.ID)
		assert.Equal(t, "ann@example.com", res.User.Email)
		assert.NotEqual(t, "secret1", res.User.Password)

		id, err := utils.ParseJWT(res.Token, testSecret)
		require.NoError(t, err)
		assert.Equal(t, uint(11), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSignupDuplicate(t *testing.T) {
	withDB(func() {
		mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		_, err := NewAuthService(gdb, testSecret, time.Hour).Signup(context.Background(), SignupInput{
			Username: "ann", Email: "ann@example.com", Password: "secret1",
		})
		assert.ErrorIs(t, err, ErrUserExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLogin(t *testing.T) {
	hash, err := utils.HashPassword("secret1")
	require.NoError(t, err)

	testCases := []struct {
		name     string
		rows     *sqlmock.Rows
		password string
		wantErr  error
	}{
		{"ok", sqlmock.NewRows([]string{"id", "email", "password"}).AddRow(3, "ann@example.com", hash), "secret1", nil},
		{"wrong password", sqlmock.NewRows([]string{"id", "email", "password"}).AddRow(3, "ann@example.com", hash), "nope", ErrInvalidCredentials},
		{"unknown email", sqlmock.NewRows([]string{"id"}), "secret1", ErrInvalidCredentials},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			withDB(func() {
				mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).WillReturnRows(tc.rows)

				res, err := NewAuthService(gdb, testSecret, time.Hour).Login(context.Background(), "ann@example.com", tc.password)
				if tc.wantErr != nil {
					assert.ErrorIs(t, err, tc.wantErr)
					return
				}
				require.NoError(t, err)
				assert.NotEmpty(t, res.Token)
				assert.Equal(t, uint(3), res.User.ID)
			})
		})
	}
}

func TestMeNotFound(t *testing.T) {
	withDB(func() {
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := NewAuthService(gdb, testSecret, time.Hour).Me(context.Background(), 404)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
