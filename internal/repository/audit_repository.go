package repository

import (
	"gorm.io/gorm"

	"task-management-system/internal/database"
	"task-management-system/internal/models"
	"task-management-system/internal/utils"
)

// GormAuditRepository is a GORM implementation of AuditRepository.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &GormAuditRepository{db: db}
}

// Create persists an audit log entry.
func (r *GormAuditRepository) Create(log *models.AuditLog) error {
	return r.db.Create(log).Error
}

// List retrieves audit logs with filtering and pagination, most recent
// first. Organization scoping goes through the author's organization.
func (r *GormAuditRepository) List(filter AuditFilter) ([]models.AuditLog, int64, error) {
	query := r.db.Model(&models.AuditLog{}).
		Joins("JOIN users ON users.id = audit_logs.user_id")

	if len(filter.OrganizationIDs) > 0 {
		query = query.Where("users.organization_id IN ?", filter.OrganizationIDs)
	}
	if filter.RestrictToUserID != nil {
		query = query.Where("audit_logs.user_id = ?", *filter.RestrictToUserID)
	}
	if filter.UserID != nil {
		query = query.Where("audit_logs.user_id = ?", *filter.UserID)
	}
	if filter.Action != nil {
		query = query.Where("audit_logs.action = ?", *filter.Action)
	}
	if filter.Resource != nil {
		query = query.Where("audit_logs.resource = ?", *filter.Resource)
	}
	if filter.ResourceID != nil {
		query = query.Where("audit_logs.resource_id = ?", *filter.ResourceID)
	}
	if filter.StartDate != nil {
		query = query.Where("audit_logs.timestamp >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("audit_logs.timestamp <= ?", *filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("audit_logs.timestamp DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.NormalizePagination(filter.Page, filter.PageSize)))
	}

	var logs []models.AuditLog
	if err := listQuery.Preload("User").Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
