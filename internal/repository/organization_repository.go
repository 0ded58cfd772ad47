package repository

import (
	"gorm.io/gorm"

	"task-management-system/internal/models"
)

// GormOrganizationRepository is a GORM implementation of OrganizationRepository.
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new OrganizationRepository.
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// FindByID finds an organization by ID.
func (r *GormOrganizationRepository) FindByID(id string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.First(&org, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// ListChildren lists the direct children of an organization.
func (r *GormOrganizationRepository) ListChildren(parentID string) ([]models.Organization, error) {
	var children []models.Organization
	if err := r.db.Where("parent_id = ?", parentID).Find(&children).Error; err != nil {
		return nil, err
	}
	return children, nil
}

// ListAll lists every organization.
func (r *GormOrganizationRepository) ListAll() ([]models.Organization, error) {
	var orgs []models.Organization
	if err := r.db.Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}
