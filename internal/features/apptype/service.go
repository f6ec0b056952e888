package apptype

import (
	"context"
	"errors"
	"time"
)

var (
	ErrTypeNotFound = errors.New("application type not found")
	ErrEmptyFlow    = errors.New("application type needs at least one approver role")
)

type TypeService interface {
	CreateType(ctx context.Context, t ApplicationType) (*ApplicationType, error)
	GetTypeByID(ctx context.Context, id int64) (*ApplicationType, error)
	ListTypes(ctx context.Context) ([]ApplicationType, error)
	UpdateType(ctx context.Context, id int64, t ApplicationType) (*ApplicationType, error)
	DeleteType(ctx context.Context, id int64) error
	// Lookup returns a resolver over the current normalized type set, for
	// the workflow engine to capture per operation.
	Lookup(ctx context.Context) (func(id int64) *ApplicationType, error)
}

type TypeServiceImpl struct {
	Repo TypeRepository
}

func NewTypeService(repo TypeRepository) TypeService {
	return &TypeServiceImpl{Repo: repo}
}

func (s *TypeServiceImpl) CreateType(ctx context.Context, t ApplicationType) (*ApplicationType, error) {
	normalized := Normalize(t)
	if len(normalized.Flow) == 0 {
		return nil, ErrEmptyFlow
	}

	existing, err := s.Repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var maxID int64
	for _, candidate := range existing {
		maxID = max(maxID, candidate.ID)
	}
	normalized.ID = maxID + 1
	normalized.CreatedAt = time.Now()
	normalized.UpdatedAt = time.Now()

	if err := s.Repo.Create(ctx, &normalized); err != nil {
		return nil, err
	}
	return &normalized, nil
}

func (s *TypeServiceImpl) GetTypeByID(ctx context.Context, id int64) (*ApplicationType, error) {
	t, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTypeNotFound
	}
	normalized := Normalize(*t)
	return &normalized, nil
}

func (s *TypeServiceImpl) ListTypes(ctx context.Context) ([]ApplicationType, error) {
	types, err := s.Repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return NormalizeList(types), nil
}

func (s *TypeServiceImpl) UpdateType(ctx context.Context, id int64, t ApplicationType) (*ApplicationType, error) {
	current, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrTypeNotFound
	}

	normalized := Normalize(t)
	if len(normalized.Flow) == 0 {
		return nil, ErrEmptyFlow
	}
	normalized.ID = id
	normalized.CreatedAt = current.CreatedAt
	normalized.UpdatedAt = time.Now()

	if err := s.Repo.Update(ctx, id, &normalized); err != nil {
		return nil, err
	}
	return &normalized, nil
}

func (s *TypeServiceImpl) DeleteType(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}

func (s *TypeServiceImpl) Lookup(ctx context.Context) (func(id int64) *ApplicationType, error) {
	types, err := s.ListTypes(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*ApplicationType, len(types))
	for i := range types {
		byID[types[i].ID] = &types[i]
	}
	return func(id int64) *ApplicationType {
		return byID[id]
	}, nil
}
