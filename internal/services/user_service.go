package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"carspotBack/internal/models"
)

type UserRepo interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	CreateProfile(ctx context.Context, userID int) error
	GetUserByID(ctx context.Context, id int) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	UpdateAvatar(ctx context.Context, userID int, avatarPath string) error
	CreateSession(ctx context.Context, session models.Session) error
	GetSessionByToken(ctx context.Context, refreshToken string) (models.Session, error)
	DeleteSessionsByUser(ctx context.Context, userID int) error
}

// TokenIssuer mints and verifies the auth tokens. *utils.Manager satisfies it.
type TokenIssuer interface {
	NewAccessToken(userID int, role string, ttl time.Duration) (string, error)
	NewRefreshToken() (string, error)
}

type UserService struct {
	UserRepo UserRepo
	Tokens   TokenIssuer
}

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour

	minPasswordLen = 8
)

// SignUp registers the account, creates its profile row and signs the user in.
func (s *UserService) SignUp(ctx context.Context, user models.User) (models.SignUpResponse, error) {
	if err := validateSignUp(user); err != nil {
		return models.SignUpResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.SignUpResponse{}, err
	}
	user.Password = string(hash)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Role == "" {
		user.Role = "user"
	}

	created, err := s.UserRepo.CreateUser(ctx, user)
	if err != nil {
		return models.SignUpResponse{}, err
	}
	if err := s.UserRepo.CreateProfile(ctx, created.ID); err != nil {
		return models.SignUpResponse{}, err
	}

	tokens, err := s.issueTokens(ctx, created)
	if err != nil {
		return models.SignUpResponse{}, err
	}
	return models.SignUpResponse{User: created, Tokens: tokens}, nil
}

// SignIn checks credentials and issues a fresh token pair.
func (s *UserService) SignIn(ctx context.Context, email, password string) (models.SignUpResponse, error) {
	user, err := s.UserRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return models.SignUpResponse{}, models.ErrInvalidCredentials
		}
		return models.SignUpResponse{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return models.SignUpResponse{}, models.ErrInvalidCredentials
	}
	user.Password = ""

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return models.SignUpResponse{}, err
	}
	return models.SignUpResponse{User: user, Tokens: tokens}, nil
}

// Refresh exchanges a valid refresh token for a new pair, rotating the old one.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (models.Tokens, error) {
	session, err := s.UserRepo.GetSessionByToken(ctx, refreshToken)
	if err != nil {
		return models.Tokens{}, err
	}
	if session.UserID == 0 || time.Now().After(session.ExpiresAt) {
		return models.Tokens{}, models.ErrInvalidCredentials
	}
	return s.issueTokens(ctx, models.User{ID: session.UserID, Role: session.Role})
}

// SignOut invalidates every session of the user.
func (s *UserService) SignOut(ctx context.Context, userID int) error {
	return s.UserRepo.DeleteSessionsByUser(ctx, userID)
}

func (s *UserService) GetUser(ctx context.Context, id int) (models.User, error) {
	return s.UserRepo.GetUserByID(ctx, id)
}

// UpdateAvatar stores the uploaded avatar URL on the user's profile.
func (s *UserService) UpdateAvatar(ctx context.Context, userID int, avatarPath string) error {
	return s.UserRepo.UpdateAvatar(ctx, userID, avatarPath)
}

func (s *UserService) issueTokens(ctx context.Context, user models.User) (models.Tokens, error) {
	access, err := s.Tokens.NewAccessToken(user.ID, user.Role, accessTokenTTL)
	if err != nil {
		return models.Tokens{}, err
	}
	refresh, err := s.Tokens.NewRefreshToken()
	if err != nil {
		return models.Tokens{}, err
	}
	err = s.UserRepo.CreateSession(ctx, models.Session{
		UserID:       user.ID,
		Role:         user.Role,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(refreshTokenTTL),
	})
	if err != nil {
		return models.Tokens{}, err
	}
	return models.Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

func validateSignUp(user models.User) error {
	if strings.TrimSpace(user.Name) == "" {
		return fmt.Errorf("%w: name is required", models.ErrValidation)
	}
	if _, err := mail.ParseAddress(user.Email); err != nil {
		return fmt.Errorf("%w: invalid email address", models.ErrValidation)
	}
	if len(user.Password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", models.ErrValidation, minPasswordLen)
	}
	return nil
}
