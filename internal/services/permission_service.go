package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"task-management-system/internal/models"
	"task-management-system/internal/repository"
)

// PermissionService resolves role permissions across the hierarchy band and
// answers organization-tree reachability queries. Nothing is cached; every
// check re-queries so role or tree changes take effect immediately.
type PermissionService struct {
	roleRepo repository.RoleRepository
	orgRepo  repository.OrganizationRepository
}

// NewPermissionService creates a new PermissionService.
func NewPermissionService(roleRepo repository.RoleRepository, orgRepo repository.OrganizationRepository) *PermissionService {
	return &PermissionService{
		roleRepo: roleRepo,
		orgRepo:  orgRepo,
	}
}

// PermissionsForRole returns the union of "resource:action" strings granted
// to the role and to every weaker role in the same organization. A stronger
// role therefore always covers everything its weaker siblings can do, even
// when its own explicit grants are sparse. An unknown role ID yields an
// empty set.
func (s *PermissionService) PermissionsForRole(roleID string) ([]string, error) {
	role, err := s.roleRepo.FindByID(roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to find role: %w", err)
	}

	band := make(map[string]struct{})
	for _, name := range models.RoleBand(role.Name) {
		band[name] = struct{}{}
	}

	rolesInOrg, err := s.roleRepo.ListByOrganization(role.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organization roles: %w", err)
	}

	seen := make(map[string]struct{})
	permissions := make([]string, 0)
	for _, orgRole := range rolesInOrg {
		if _, ok := band[models.NormalizeRoleName(orgRole.Name)]; !ok {
			continue
		}
		for _, permission := range orgRole.Permissions {
			key := permission.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			permissions = append(permissions, key)
		}
	}

	return permissions, nil
}

// UserHasPermissions reports whether the user's role grants every required
// permission. An empty requirement list is vacuously satisfied. Comparison
// is case-insensitive.
func (s *PermissionService) UserHasPermissions(user *models.User, required []string) (bool, error) {
	if len(required) == 0 {
		return true, nil
	}
	if user == nil {
		return false, nil
	}

	granted, err := s.PermissionsForRole(user.RoleID)
	if err != nil {
		return false, err
	}

	grantedSet := make(map[string]struct{}, len(granted))
	for _, permission := range granted {
		grantedSet[strings.ToLower(permission)] = struct{}{}
	}

	for _, permission := range required {
		if _, ok := grantedSet[strings.ToLower(permission)]; !ok {
			return false, nil
		}
	}
	return true, nil
}

// UserHasRole reports whether the user's role band intersects the required
// role names, so a route requiring "admin" is satisfied by an owner as well.
// An empty requirement list is vacuously satisfied.
func (s *PermissionService) UserHasRole(user *models.User, requiredRoles []string) (bool, error) {
	if len(requiredRoles) == 0 {
		return true, nil
	}
	if user == nil {
		return false, nil
	}

	roleName := user.RoleName()
	if roleName == "" {
		role, err := s.roleRepo.FindByID(user.RoleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, fmt.Errorf("failed to find role: %w", err)
		}
		roleName = role.Name
	}
	if roleName == "" {
		return false, nil
	}

	band := make(map[string]struct{})
	for _, name := range models.RoleBand(roleName) {
		band[name] = struct{}{}
	}

	for _, required := range requiredRoles {
		if _, ok := band[models.NormalizeRoleName(required)]; ok {
			return true, nil
		}
	}
	return false, nil
}

// HasOrganizationAccess reports whether targetOrgID is userOrgID itself or
// one of its descendants. An empty target means no org scoping was requested
// and always passes. The walk follows parent pointers upward from the target
// with a visited set so malformed cyclic data terminates with a deny.
func (s *PermissionService) HasOrganizationAccess(userOrgID, targetOrgID string) (bool, error) {
	if targetOrgID == "" || userOrgID == targetOrgID {
		return true, nil
	}

	currentID := targetOrgID
	visited := make(map[string]struct{})

	for currentID != "" {
		if currentID == userOrgID {
			return true, nil
		}
		if _, seen := visited[currentID]; seen {
			break
		}
		visited[currentID] = struct{}{}

		org, err := s.orgRepo.FindByID(currentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, fmt.Errorf("failed to find organization: %w", err)
		}

		if org.ParentID == nil {
			return false, nil
		}
		currentID = *org.ParentID
	}

	return false, nil
}

// AccessibleOrganizationIDs returns orgID followed by every descendant
// organization ID, walking the tree with an explicit frontier. The visited
// set guards the same cycle case as HasOrganizationAccess.
func (s *PermissionService) AccessibleOrganizationIDs(orgID string) ([]string, error) {
	ids := []string{orgID}
	visited := map[string]struct{}{orgID: {}}
	frontier := []string{orgID}

	for len(frontier) > 0 {
		parentID := frontier[0]
		frontier = frontier[1:]

		children, err := s.orgRepo.ListChildren(parentID)
		if err != nil {
			return nil, fmt.Errorf("failed to list child organizations: %w", err)
		}
		for _, child := range children {
			if _, seen := visited[child.ID]; seen {
				continue
			}
			visited[child.ID] = struct{}{}
			ids = append(ids, child.ID)
			frontier = append(frontier, child.ID)
		}
	}

	return ids, nil
}
