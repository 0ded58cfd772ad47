package database

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"task-management-system/internal/constants"
	"task-management-system/internal/models"
)

const seedPassword = "password123"

// Seed populates the default permissions, a demo organization tree with
// Owner, Admin and Viewer roles per organization, and demo users. It is
// idempotent; existing rows are left alone.
func Seed(db *gorm.DB, logger *logrus.Logger) error {
	permissions := make(map[string]models.Permission, len(constants.DefaultPermissionSpecs))
	for _, spec := range constants.DefaultPermissionSpecs {
		var perm models.Permission
		err := db.Where(models.Permission{Resource: spec.Resource, Action: spec.Action}).
			FirstOrCreate(&perm).Error
		if err != nil {
			return fmt.Errorf("failed to seed permission %s:%s: %w", spec.Resource, spec.Action, err)
		}
		permissions[perm.Key()] = perm
	}

	root, err := seedOrganization(db, "TechCorp", nil)
	if err != nil {
		return err
	}
	engineering, err := seedOrganization(db, "Engineering", &root.ID)
	if err != nil {
		return err
	}
	marketing, err := seedOrganization(db, "Marketing", &root.ID)
	if err != nil {
		return err
	}

	allPermissions := make([]models.Permission, 0, len(permissions))
	for _, perm := range permissions {
		allPermissions = append(allPermissions, perm)
	}
	viewerPermissions := []models.Permission{permissions[constants.PermissionTaskRead]}

	roles := make(map[string]models.Role)
	for _, org := range []*models.Organization{root, engineering, marketing} {
		for _, name := range []string{"Owner", "Admin", "Viewer"} {
			grants := allPermissions
			if name == "Viewer" {
				grants = viewerPermissions
			}
			role, err := seedRole(db, name, org.ID, grants)
			if err != nil {
				return err
			}
			roles[org.Name+"/"+name] = *role
		}
	}

	demoUsers := []struct {
		email     string
		firstName string
		lastName  string
		roleKey   string
		org       *models.Organization
	}{
		{"owner@techcorp.com", "Olivia", "Ward", "TechCorp/Owner", root},
		{"viewer@techcorp.com", "Victor", "Reyes", "TechCorp/Viewer", root},
		{"admin-child@techcorp.com", "Elena", "Park", "Engineering/Admin", engineering},
		{"admin-marketing@techcorp.com", "Marcus", "Hale", "Marketing/Admin", marketing},
	}
	for _, du := range demoUsers {
		role := roles[du.roleKey]
		if err := seedUser(db, du.email, du.firstName, du.lastName, role.ID, du.org.ID); err != nil {
			return err
		}
	}

	if err := seedDemoTasks(db, root, engineering); err != nil {
		return err
	}

	logger.Info("database seed complete")
	return nil
}

func seedOrganization(db *gorm.DB, name string, parentID *string) (*models.Organization, error) {
	var org models.Organization
	query := db.Where("name = ?", name)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	err := query.Attrs(models.Organization{Name: name, ParentID: parentID}).FirstOrCreate(&org).Error
	if err != nil {
		return nil, fmt.Errorf("failed to seed organization %s: %w", name, err)
	}
	return &org, nil
}

func seedRole(db *gorm.DB, name, organizationID string, grants []models.Permission) (*models.Role, error) {
	var role models.Role
	result := db.Where(models.Role{Name: name, OrganizationID: organizationID}).FirstOrCreate(&role)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to seed role %s: %w", name, result.Error)
	}
	if result.RowsAffected > 0 {
		if err := db.Model(&role).Association("Permissions").Append(grants); err != nil {
			return nil, fmt.Errorf("failed to grant permissions to role %s: %w", name, err)
		}
	}
	return &role, nil
}

func seedUser(db *gorm.DB, email, firstName, lastName, roleID, organizationID string) error {
	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	user := models.User{
		Email:          email,
		Password:       string(hashed),
		FirstName:      firstName,
		LastName:       lastName,
		RoleID:         roleID,
		OrganizationID: organizationID,
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to seed user %s: %w", email, err)
	}
	return nil
}

// seedDemoTasks creates a starter board for the demo owner and the
// engineering admin. Skipped entirely once any task exists.
func seedDemoTasks(db *gorm.DB, root, engineering *models.Organization) error {
	var count int64
	if err := db.Model(&models.Task{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var owner, admin models.User
	if err := db.Where("email = ?", "owner@techcorp.com").First(&owner).Error; err != nil {
		return err
	}
	if err := db.Where("email = ?", "admin-child@techcorp.com").First(&admin).Error; err != nil {
		return err
	}

	work := models.TaskCategoryWork
	tasks := []models.Task{
		{Title: "Draft quarterly roadmap", Status: models.TaskStatusPending, Priority: models.TaskPriorityHigh, Category: &work, Order: 0, OwnerID: owner.ID, OrganizationID: root.ID},
		{Title: "Review hiring plan", Status: models.TaskStatusPending, Priority: models.TaskPriorityMedium, Category: &work, Order: 1, OwnerID: owner.ID, OrganizationID: root.ID},
		{Title: "Approve budget revision", Status: models.TaskStatusInProgress, Priority: models.TaskPriorityHigh, Category: &work, Order: 0, OwnerID: owner.ID, OrganizationID: root.ID},
		{Title: "Set up CI pipeline", Status: models.TaskStatusPending, Priority: models.TaskPriorityHigh, Category: &work, Order: 0, OwnerID: admin.ID, OrganizationID: engineering.ID},
		{Title: "Triage open bug reports", Status: models.TaskStatusPending, Priority: models.TaskPriorityMedium, Category: &work, Order: 1, OwnerID: admin.ID, OrganizationID: engineering.ID},
	}
	for i := range tasks {
		if err := db.Create(&tasks[i]).Error; err != nil {
			return fmt.Errorf("failed to seed task %q: %w", tasks[i].Title, err)
		}
	}
	return nil
}
