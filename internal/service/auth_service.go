package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	config "github.com/postdeck/postdeck/configs"
	"github.com/postdeck/postdeck/internal/models"
	"github.com/postdeck/postdeck/internal/repository"
	"github.com/postdeck/postdeck/internal/transfer"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	SignUp(ctx context.Context, email, password, username string) (int64, error)
	SignIn(ctx context.Context, email, password string) (int64, error)
	Session(ctx context.Context, userID int64) (*transfer.SessionInfo, error)
}

type authService struct {
	cfg config.Config
	u   repository.UserRepository
	p   repository.ProfileRepository
}

func NewAuthService(cfg config.Config, u repository.UserRepository, p repository.ProfileRepository) AuthService {
	return &authService{
		cfg: cfg,
		u:   u,
		p:   p,
	}
}

// SignUp creates the user and then its profile row. A profile failure
// after the user row exists propagates as-is; there is no compensating
// rollback, the database trigger guards against orphans.
func (s *authService) SignUp(ctx context.Context, email, password, username string) (int64, error) {
	if email == "" || password == "" || username == "" {
		err := fmt.Errorf("%w: email, password and username are required", ErrValidation)
		slog.Info(err.Error())
		return 0, err
	}

	_, isExist, err := s.u.GetByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	if isExist {
		err = fmt.Errorf("%w: email already registered", ErrValidation)
		slog.Info(err.Error())
		return 0, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	userID, err := s.u.Create(ctx, nil, &models.User{
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return 0, err
	}

	err = s.p.Create(ctx, &models.Profile{
		ID:       userID,
		Username: username,
		Role:     models.RoleMember,
	})
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return userID, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (int64, error) {
	user, isExist, err := s.u.GetByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	if !isExist {
		slog.Info("sign in attempt for unknown email")
		return 0, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return 0, ErrInvalidCredentials
	}

	return user.ID, nil
}

// Session resolves the signed-in user and profile for the /me endpoint.
func (s *authService) Session(ctx context.Context, userID int64) (*transfer.SessionInfo, error) {
	user, isExist, err := s.u.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !isExist {
		return nil, errors.New("user no longer exists")
	}

	profile, _, err := s.p.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &transfer.SessionInfo{User: user, Profile: profile}, nil
}
