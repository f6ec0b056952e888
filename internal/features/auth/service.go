package auth

import (
	"context"
	"errors"

	"go-hr/internal/features/user"
	"go-hr/pkg/utils"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *user.User, error)
}

type AuthServiceImpl struct {
	UserRepo user.UserRepository
}

func NewAuthService(userRepo user.UserRepository) AuthService {
	return &AuthServiceImpl{UserRepo: userRepo}
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, *user.User, error) {
	usr, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if usr == nil {
		return "", nil, ErrInvalidCredentials
	}

	// Check password (TODO: use bcrypt)
	if usr.Password != password {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(usr.ID, usr.RoleID)
	if err != nil {
		return "", nil, err
	}
	return token, usr, nil
}
