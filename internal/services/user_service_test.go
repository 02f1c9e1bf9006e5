package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	"homevistaBack/internal/models"
	"homevistaBack/internal/repositories"
	"homevistaBack/utils"
)

func newUserService(t *testing.T) (*UserService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	manager, err := utils.NewManager("test-signing-key")
	if err != nil {
		t.Fatal(err)
	}
	return &UserService{
		UserRepo:     &repositories.UserRepository{DB: db},
		TokenManager: manager,
	}, mock
}

func TestSignUpValidation(t *testing.T) {
	service, _ := newUserService(t)

	tests := []struct {
		name string
		req  models.SignUpRequest
	}{
		{"missing email", models.SignUpRequest{Name: "Pat", Password: "secret"}},
		{"missing password", models.SignUpRequest{Name: "Pat", Email: "pat@example.com"}},
		{"missing name", models.SignUpRequest{Email: "pat@example.com", Password: "secret"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.SignUp(context.Background(), tt.req)
			var validationErr ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("err = %v; want ValidationError", err)
			}
		})
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	service, mock := newUserService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)")).
		WithArgs("pat@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := service.SignUp(context.Background(), models.SignUpRequest{
		Name:     "Pat",
		Email:    "Pat@Example.com ",
		Password: "secret",
	})
	if !errors.Is(err, models.ErrDuplicateEmail) {
		t.Errorf("err = %v; want ErrDuplicateEmail", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSignUpCreatesUserAndSession(t *testing.T) {
	service, mock := newUserService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)")).
		WithArgs("pat@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sessions")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	response, err := service.SignUp(context.Background(), models.SignUpRequest{
		Name:     "Pat",
		Email:    "pat@example.com",
		Password: "secret",
	})
	if err != nil {
		t.Fatal(err)
	}
	if response.User.ID != 3 || response.User.Role != "user" {
		t.Errorf("user = %+v", response.User)
	}
	if response.User.Password != "" {
		t.Error("password hash must not leak in the response")
	}
	if response.Tokens.AccessToken == "" || response.Tokens.RefreshToken == "" {
		t.Error("sign-up must sign the user straight in")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func userRow(t *testing.T, password string) *sqlmock.Rows {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	cols := []string{"id", "name", "email", "phone", "password", "role", "created_at", "updated_at"}
	return sqlmock.NewRows(cols).AddRow(3, "Pat", "pat@example.com", "555-0100", string(hash), "user", time.Now(), nil)
}

func TestSignInWrongPassword(t *testing.T) {
	service, mock := newUserService(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM users\s+WHERE email = \?`).
		WithArgs("pat@example.com").
		WillReturnRows(userRow(t, "secret"))

	_, err := service.SignIn(context.Background(), models.SignInRequest{
		Email:    "pat@example.com",
		Password: "wrong",
	})
	if !errors.Is(err, models.ErrInvalidCredentials) {
		t.Errorf("err = %v; want ErrInvalidCredentials", err)
	}
}

func TestSignInUnknownEmailIsIndistinguishable(t *testing.T) {
	service, mock := newUserService(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM users\s+WHERE email = \?`).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone", "password", "role", "created_at", "updated_at"}))

	_, err := service.SignIn(context.Background(), models.SignInRequest{
		Email:    "ghost@example.com",
		Password: "secret",
	})
	if !errors.Is(err, models.ErrInvalidCredentials) {
		t.Errorf("err = %v; want ErrInvalidCredentials", err)
	}
}

func TestSignInSuccess(t *testing.T) {
	service, mock := newUserService(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM users\s+WHERE email = \?`).
		WithArgs("pat@example.com").
		WillReturnRows(userRow(t, "secret"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sessions")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	response, err := service.SignIn(context.Background(), models.SignInRequest{
		Email:    " Pat@Example.com",
		Password: "secret",
	})
	if err != nil {
		t.Fatal(err)
	}
	if response.User.ID != 3 {
		t.Errorf("user = %+v", response.User)
	}

	userID, role, err := service.TokenManager.Parse(response.Tokens.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	if userID != 3 || role != "user" {
		t.Errorf("token claims = %d %q; want 3 user", userID, role)
	}
}
