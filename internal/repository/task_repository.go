package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"task-management-system/internal/database"
	"task-management-system/internal/models"
	"task-management-system/internal/utils"
)

// GormTaskRepository is a GORM implementation of TaskRepository.
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// orderAsc sorts by the order column with the dialect's own quoting; "order"
// is a reserved word on every backend we support.
func orderAsc() clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: "order"}}
}

func orderDesc() clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: "order"}, Desc: true}
}

// CreateWithOrder inserts the task inside a transaction, assigning the next
// free order value for its organization. Appending past the organization-wide
// maximum keeps the new value above every column maximum as well, so the
// uniqueness constraint cannot trip.
func (r *GormTaskRepository) CreateWithOrder(task *models.Task) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var last []models.Task
		err := tx.
			Where("organization_id = ?", task.OrganizationID).
			Order(orderDesc()).
			Limit(1).
			Find(&last).Error
		if err != nil {
			return err
		}

		maxOrder := -1
		if len(last) > 0 {
			maxOrder = last[0].Order
		}
		task.Order = maxOrder + 1

		return tx.Create(task).Error
	})
}

// FindByID finds a task by ID with optional preloading.
func (r *GormTaskRepository) FindByID(id string, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// OrganizationIDByTaskID resolves only the owning organization of a task.
func (r *GormTaskRepository) OrganizationIDByTaskID(id string) (string, error) {
	var task models.Task
	if err := r.db.Select("organization_id").First(&task, "id = ?", id).Error; err != nil {
		return "", err
	}
	return task.OrganizationID, nil
}

// List retrieves tasks with filtering and pagination, ordered by
// (order asc, created_at desc).
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	query := r.db.Model(&models.Task{})

	if len(filter.OrganizationIDs) > 0 {
		query = query.Where("organization_id IN ?", filter.OrganizationIDs)
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.
		Order(orderAsc()).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true})

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.NormalizePagination(filter.Page, filter.PageSize)))
	}

	var tasks []models.Task
	if err := listQuery.Preload("Owner").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// Save persists all fields of an existing task.
func (r *GormTaskRepository) Save(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task. The remaining column keeps its gap until the next
// reorder or repair pass.
func (r *GormTaskRepository) Delete(task *models.Task) error {
	return r.db.Delete(task).Error
}

// ListColumn loads every task of one (organization, owner, status) column
// ordered by (order asc, created_at asc).
func (r *GormTaskRepository) ListColumn(organizationID, ownerID string, status models.TaskStatus) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Where("organization_id = ? AND owner_id = ? AND status = ?", organizationID, ownerID, status).
		Order(orderAsc()).
		Order("created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByOrganization loads all tasks of an organization ordered by creation
// time.
func (r *GormTaskRepository) ListByOrganization(organizationID string) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Where("organization_id = ?", organizationID).
		Order("created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateOrder writes only the order column of one task.
func (r *GormTaskRepository) UpdateOrder(id string, order int) error {
	result := r.db.Model(&models.Task{}).Where("id = ?", id).Update("order", order)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("task repository: update order affected no rows")
	}
	return nil
}

// Transaction runs fn against a repository bound to a transaction.
func (r *GormTaskRepository) Transaction(fn func(TaskRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormTaskRepository{db: tx})
	})
}
