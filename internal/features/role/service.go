package role

import (
	"context"
	"errors"
	"slices"
	"time"
)

var ErrRoleNotFound = errors.New("role not found")

type RoleService interface {
	CreateRole(ctx context.Context, role *Role) (*Role, error)
	GetRoleByID(ctx context.Context, id int64) (*Role, error)
	ListRoles(ctx context.Context) ([]Role, error)
	UpdateRole(ctx context.Context, id int64, role *Role) error
	DeleteRole(ctx context.Context, id int64) error
	ListPermissions() []Permission
	HasPermission(ctx context.Context, roleID int64, permissionID string) (bool, error)
}

type RoleServiceImpl struct {
	Repo RoleRepository
}

func NewRoleService(repo RoleRepository) RoleService {
	return &RoleServiceImpl{Repo: repo}
}

func (s *RoleServiceImpl) CreateRole(ctx context.Context, role *Role) (*Role, error) {
	existing, err := s.Repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	var maxID int64
	for _, r := range existing {
		maxID = max(maxID, r.ID)
	}
	role.ID = maxID + 1
	role.Permissions = dedupePermissions(role.Permissions)
	role.CreatedAt = time.Now()
	role.UpdatedAt = time.Now()

	if err := s.Repo.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *RoleServiceImpl) GetRoleByID(ctx context.Context, id int64) (*Role, error) {
	role, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}
	ensureReservedGrants(role)
	return role, nil
}

func (s *RoleServiceImpl) ListRoles(ctx context.Context) ([]Role, error) {
	roles, err := s.Repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range roles {
		ensureReservedGrants(&roles[i])
	}
	return roles, nil
}

func (s *RoleServiceImpl) UpdateRole(ctx context.Context, id int64, role *Role) error {
	role.ID = id
	role.Permissions = dedupePermissions(role.Permissions)
	role.UpdatedAt = time.Now()
	return s.Repo.Update(ctx, id, role)
}

func (s *RoleServiceImpl) DeleteRole(ctx context.Context, id int64) error {
	if id == AdminRoleID {
		return errors.New("the administrator role cannot be deleted")
	}
	return s.Repo.Delete(ctx, id)
}

func (s *RoleServiceImpl) ListPermissions() []Permission {
	return AllPermissions
}

// HasPermission is the capability gate consumed by route middleware.
func (s *RoleServiceImpl) HasPermission(ctx context.Context, roleID int64, permissionID string) (bool, error) {
	role, err := s.Repo.FindByID(ctx, roleID)
	if err != nil {
		return false, err
	}
	if role == nil {
		return false, nil
	}
	ensureReservedGrants(role)
	return slices.Contains(role.Permissions, permissionID), nil
}

// ensureReservedGrants enforces the standing grants of the two built-in
// roles: the administrator always holds the full catalog, and HR always
// holds manage_request_types.
func ensureReservedGrants(role *Role) {
	switch role.ID {
	case AdminRoleID:
		permissions := make([]string, 0, len(AllPermissions))
		for _, p := range AllPermissions {
			permissions = append(permissions, p.ID)
		}
		role.Permissions = permissions
	case HRRoleID:
		if !slices.Contains(role.Permissions, PermManageRequestTypes) {
			role.Permissions = append(role.Permissions, PermManageRequestTypes)
		}
	}
	role.Permissions = dedupePermissions(role.Permissions)
}

func dedupePermissions(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
