package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/atinyakov/FoodKeeper/internal/models"
)

func setupAuthMock(t *testing.T) (*PostgresAuthRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresAuthRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

func TestUserExists(t *testing.T) {
	for _, want := range []bool{true, false} {
		repo, mock, cleanup := setupAuthMock(t)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`)).
			WithArgs("a@b.c").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(want))

		got, err := repo.UserExists(context.Background(), "a@b.c")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("UserExists = %v; want %v", got, want)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		cleanup()
	}
}

func TestUserExists_Error(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WithArgs("x@y.z").
		WillReturnError(errors.New("query failed"))

	if _, err := repo.UserExists(context.Background(), "x@y.z"); err == nil {
		t.Errorf("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCreateUser(t *testing.T) {
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	u := models.User{Email: "new@x.io", Name: "New", PasswordHash: []byte("hash"), CreatedAt: created}

	tests := []struct {
		name    string
		execErr error
		wantErr error
	}{
		{"success", nil, nil},
		{"duplicate", &pq.Error{Code: "23505"}, models.ErrAlreadyExists},
		{"other failure", errors.New("insert failed"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupAuthMock(t)
			defer cleanup()

			exp := mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users (email, name, photo_url, password_hash, created_at)`)).
				WithArgs(u.Email, u.Name, u.PhotoURL, u.PasswordHash, u.CreatedAt)
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(1, 1))
			}

			err := repo.CreateUser(context.Background(), u)
			switch {
			case tt.execErr == nil && err != nil:
				t.Fatalf("unexpected error: %v", err)
			case tt.execErr != nil && err == nil:
				t.Fatal("expected error, got nil")
			case tt.wantErr != nil && !errors.Is(err, tt.wantErr):
				t.Errorf("error = %v; want %v", err, tt.wantErr)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestGetUserByEmail(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	q := regexp.QuoteMeta(`SELECT email, name, photo_url, password_hash, created_at FROM users WHERE email = $1`)
	mock.ExpectQuery(q).
		WithArgs("a@b.c").
		WillReturnRows(sqlmock.NewRows([]string{"email", "name", "photo_url", "password_hash", "created_at"}).
			AddRow("a@b.c", "Ann", "", []byte("hash"), created))
	mock.ExpectQuery(q).
		WithArgs("ghost@b.c").
		WillReturnRows(sqlmock.NewRows([]string{"email", "name", "photo_url", "password_hash", "created_at"}))

	u, err := repo.GetUserByEmail(context.Background(), "a@b.c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Name != "Ann" || string(u.PasswordHash) != "hash" || !u.CreatedAt.Equal(created) {
		t.Errorf("unexpected user: %+v", u)
	}

	if _, err := repo.GetUserByEmail(context.Background(), "ghost@b.c"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("error = %v; want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	q := regexp.QuoteMeta(`UPDATE users SET name = $2, photo_url = $3 WHERE email = $1`)

	tests := []struct {
		name    string
		expect  func(sqlmock.Sqlmock)
		wantErr error
		anyErr  bool
	}{
		{
			name: "updated",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(q).WithArgs("a@b.c", "Ann", "https://img/a.png").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "unknown user",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(q).WithArgs("a@b.c", "Ann", "https://img/a.png").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: models.ErrNotFound,
		},
		{
			name: "exec failure",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(q).WillReturnError(errors.New("update failed"))
			},
			anyErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupAuthMock(t)
			defer cleanup()
			tt.expect(mock)

			err := repo.UpdateProfile(context.Background(), "a@b.c", "Ann", "https://img/a.png")
			switch {
			case tt.anyErr && err == nil:
				t.Fatal("expected error, got nil")
			case !tt.anyErr && !errors.Is(err, tt.wantErr):
				t.Errorf("error = %v; want %v", err, tt.wantErr)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}
