package repository

import (
	"gorm.io/gorm"

	"task-management-system/internal/models"
)

// GormRoleRepository is a GORM implementation of RoleRepository.
type GormRoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new RoleRepository.
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &GormRoleRepository{db: db}
}

// FindByID finds a role by ID with its permissions preloaded.
func (r *GormRoleRepository) FindByID(id string) (*models.Role, error) {
	var role models.Role
	if err := r.db.Preload("Permissions").First(&role, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// ListByOrganization lists all roles of an organization with their
// permissions preloaded.
func (r *GormRoleRepository) ListByOrganization(organizationID string) ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.Preload("Permissions").
		Where("organization_id = ?", organizationID).
		Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}
