package user

import (
	"context"
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

type UserService interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, id int64, user *User) error
	DeleteUser(ctx context.Context, id int64) error
	// RoleOf resolves an actor to its role id for the access filter.
	RoleOf(ctx context.Context, userID int64) (int64, error)
}

type UserServiceImpl struct {
	Repo UserRepository
}

func NewUserService(repo UserRepository) UserService {
	return &UserServiceImpl{Repo: repo}
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, user *User) (*User, error) {
	if existing, err := s.Repo.FindByEmail(ctx, user.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, errors.New("a user with this email already exists")
	}

	users, err := s.Repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var maxID int64
	for _, u := range users {
		maxID = max(maxID, u.ID)
	}
	user.ID = maxID + 1
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserServiceImpl) GetUserByID(ctx context.Context, id int64) (*User, error) {
	user, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]User, error) {
	return s.Repo.FindAll(ctx)
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, id int64, user *User) error {
	user.ID = id
	user.UpdatedAt = time.Now()
	return s.Repo.Update(ctx, id, user)
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}

func (s *UserServiceImpl) RoleOf(ctx context.Context, userID int64) (int64, error) {
	user, err := s.Repo.FindByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, ErrUserNotFound
	}
	return user.RoleID, nil
}
