package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"homevistaBack/internal/models"
	"homevistaBack/internal/repositories"
	"homevistaBack/utils"
)

const (
	accessTokenTTL  = 20 * time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
)

type UserService struct {
	UserRepo     *repositories.UserRepository
	TokenManager *utils.Manager
}

// SignUp registers a user and signs them straight in, returning tokens so
// the client does not need a second call.
func (s *UserService) SignUp(ctx context.Context, req models.SignUpRequest) (models.SignInResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return models.SignInResponse{}, ValidationError("email and password are required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return models.SignInResponse{}, ValidationError("name is required")
	}

	exists, err := s.UserRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return models.SignInResponse{}, err
	}
	if exists {
		return models.SignInResponse{}, models.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.SignInResponse{}, err
	}

	user, err := s.UserRepo.CreateUser(ctx, models.User{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: string(hashedPassword),
		Role:     "user",
	})
	if err != nil {
		return models.SignInResponse{}, err
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return models.SignInResponse{}, err
	}

	user.Password = ""
	return models.SignInResponse{User: user, Tokens: tokens}, nil
}

func (s *UserService) SignIn(ctx context.Context, req models.SignInRequest) (models.SignInResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.UserRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return models.SignInResponse{}, models.ErrInvalidCredentials
		}
		return models.SignInResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return models.SignInResponse{}, models.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return models.SignInResponse{}, err
	}

	user.Password = ""
	return models.SignInResponse{User: user, Tokens: tokens}, nil
}

func (s *UserService) SignOut(ctx context.Context, userID int) error {
	return s.UserRepo.DeleteSession(ctx, userID)
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (models.User, error) {
	user, err := s.UserRepo.GetUserByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	user.Password = ""
	return user, nil
}

func (s *UserService) SetFCMToken(ctx context.Context, userID int, token string) error {
	return s.UserRepo.UpdateFCMToken(ctx, userID, token)
}

func (s *UserService) issueTokens(ctx context.Context, user models.User) (models.Tokens, error) {
	accessToken, err := s.TokenManager.NewJWT(user.ID, user.Role, accessTokenTTL)
	if err != nil {
		return models.Tokens{}, err
	}

	refreshToken, err := s.TokenManager.NewRefreshToken()
	if err != nil {
		return models.Tokens{}, err
	}

	session := models.Session{
		UserID:       user.ID,
		Role:         user.Role,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(refreshTokenTTL),
	}
	if err := s.UserRepo.SetSession(ctx, session); err != nil {
		return models.Tokens{}, err
	}

	return models.Tokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
