package services

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"task-management-system/internal/database"
	"task-management-system/internal/models"
	"task-management-system/internal/repository"
)

// TaskServiceTestSuite defines the test suite for TaskService
type TaskServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *TaskService

	root  *models.Organization
	child *models.Organization

	owner      *models.User
	rootAdmin  *models.User
	viewer     *models.User
	childAdmin *models.User
}

// SetupTest runs before each test
func (suite *TaskServiceTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	suite.Require().NoError(database.Migrate(suite.db))

	orgRepo := repository.NewOrganizationRepository(suite.db)
	roleRepo := repository.NewRoleRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)
	auditRepo := repository.NewAuditRepository(suite.db)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	permissions := NewPermissionService(roleRepo, orgRepo)
	audit := NewAuditService(auditRepo, permissions, logger)
	suite.service = NewTaskService(taskRepo, roleRepo, orgRepo, permissions, audit, logger)

	suite.root = suite.createOrganization("Root", nil)
	suite.child = suite.createOrganization("Child", &suite.root.ID)

	ownerRole := suite.createRole("Owner", suite.root.ID)
	adminRole := suite.createRole("Admin", suite.root.ID)
	viewerRole := suite.createRole("Viewer", suite.root.ID)
	childAdminRole := suite.createRole("Admin", suite.child.ID)

	suite.owner = suite.createUser("owner@example.com", ownerRole, suite.root.ID)
	suite.rootAdmin = suite.createUser("admin@example.com", adminRole, suite.root.ID)
	suite.viewer = suite.createUser("viewer@example.com", viewerRole, suite.root.ID)
	suite.childAdmin = suite.createUser("child-admin@example.com", childAdminRole, suite.child.ID)
}

// TearDownTest runs after each test
func (suite *TaskServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskServiceTestSuite) createOrganization(name string, parentID *string) *models.Organization {
	org := &models.Organization{Name: name, ParentID: parentID}
	suite.Require().NoError(suite.db.Create(org).Error)
	return org
}

func (suite *TaskServiceTestSuite) createRole(name, organizationID string) *models.Role {
	role := &models.Role{Name: name, OrganizationID: organizationID}
	suite.Require().NoError(suite.db.Create(role).Error)
	return role
}

func (suite *TaskServiceTestSuite) createUser(email string, role *models.Role, organizationID string) *models.User {
	user := &models.User{
		Email:          email,
		Password:       "irrelevant",
		FirstName:      "Test",
		LastName:       "User",
		RoleID:         role.ID,
		OrganizationID: organizationID,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	user.Role = role
	return user
}

func (suite *TaskServiceTestSuite) createTask(title string, owner *models.User, organizationID string, status models.TaskStatus, order int) *models.Task {
	task := &models.Task{
		Title:          title,
		Status:         status,
		Priority:       models.TaskPriorityMedium,
		Order:          order,
		OwnerID:        owner.ID,
		OrganizationID: organizationID,
	}
	suite.Require().NoError(suite.db.Create(task).Error)
	return task
}

func (suite *TaskServiceTestSuite) columnOrders(organizationID, ownerID string, status models.TaskStatus) map[string]int {
	var tasks []models.Task
	err := suite.db.
		Where("organization_id = ? AND owner_id = ? AND status = ?", organizationID, ownerID, status).
		Find(&tasks).Error
	suite.Require().NoError(err)

	orders := make(map[string]int, len(tasks))
	for _, task := range tasks {
		orders[task.Title] = task.Order
	}
	return orders
}

func (suite *TaskServiceTestSuite) TestCreateAssignsSequentialOrders() {
	first, err := suite.service.Create(suite.owner, CreateTaskInput{Title: "first"})
	suite.Require().NoError(err)
	suite.Equal(0, first.Order)
	suite.Equal(suite.owner.ID, first.OwnerID)
	suite.Equal(suite.root.ID, first.OrganizationID)
	suite.Equal(models.TaskStatusPending, first.Status)

	second, err := suite.service.Create(suite.owner, CreateTaskInput{Title: "second"})
	suite.Require().NoError(err)
	suite.Equal(1, second.Order)
}

func (suite *TaskServiceTestSuite) TestOwnerCreatesInDescendantOrganization() {
	task, err := suite.service.Create(suite.owner, CreateTaskInput{
		Title:          "delegated",
		OrganizationID: &suite.child.ID,
	})
	suite.Require().NoError(err)
	suite.Equal(suite.child.ID, task.OrganizationID)
}

func (suite *TaskServiceTestSuite) TestAdminCannotCreateOutsideOwnOrganization() {
	_, err := suite.service.Create(suite.childAdmin, CreateTaskInput{
		Title:          "escape attempt",
		OrganizationID: &suite.root.ID,
	})
	suite.ErrorIs(err, ErrAccessDenied)

	task, err := suite.service.Create(suite.childAdmin, CreateTaskInput{Title: "local"})
	suite.Require().NoError(err)
	suite.Equal(suite.child.ID, task.OrganizationID)
}

func (suite *TaskServiceTestSuite) TestCreateOutsideSubtreeDenied() {
	other := suite.createOrganization("Unrelated", nil)

	_, err := suite.service.Create(suite.owner, CreateTaskInput{
		Title:          "out of reach",
		OrganizationID: &other.ID,
	})
	suite.ErrorIs(err, ErrAccessDenied)
}

func (suite *TaskServiceTestSuite) TestGetMissingAndForeignLookAlike() {
	rootTask := suite.createTask("root task", suite.owner, suite.root.ID, models.TaskStatusPending, 0)

	_, err := suite.service.Get(suite.owner, "22222222-2222-2222-2222-222222222222")
	suite.ErrorIs(err, ErrTaskNotFound)

	_, err = suite.service.Get(suite.childAdmin, rootTask.ID)
	suite.ErrorIs(err, ErrAccessDenied)
}

func (suite *TaskServiceTestSuite) TestViewerReadsOnlyOwnTasks() {
	own := suite.createTask("mine", suite.viewer, suite.root.ID, models.TaskStatusPending, 0)
	foreign := suite.createTask("theirs", suite.rootAdmin, suite.root.ID, models.TaskStatusPending, 0)

	got, err := suite.service.Get(suite.viewer, own.ID)
	suite.Require().NoError(err)
	suite.Equal(own.ID, got.ID)

	_, err = suite.service.Get(suite.viewer, foreign.ID)
	suite.ErrorIs(err, ErrAccessDenied)
}

func (suite *TaskServiceTestSuite) TestListScopesByRole() {
	suite.createTask("root task", suite.owner, suite.root.ID, models.TaskStatusPending, 0)
	suite.createTask("child task", suite.childAdmin, suite.child.ID, models.TaskStatusPending, 0)
	suite.createTask("viewer task", suite.viewer, suite.root.ID, models.TaskStatusPending, 1)

	tasks, total, err := suite.service.List(suite.owner, ListTasksInput{})
	suite.Require().NoError(err)
	suite.EqualValues(3, total)
	suite.Len(tasks, 3)

	tasks, total, err = suite.service.List(suite.childAdmin, ListTasksInput{})
	suite.Require().NoError(err)
	suite.EqualValues(1, total)
	suite.Equal("child task", tasks[0].Title)

	tasks, total, err = suite.service.List(suite.viewer, ListTasksInput{})
	suite.Require().NoError(err)
	suite.EqualValues(1, total)
	suite.Equal("viewer task", tasks[0].Title)
}

func (suite *TaskServiceTestSuite) TestListFiltersCannotWidenScope() {
	suite.createTask("child task", suite.childAdmin, suite.child.ID, models.TaskStatusPending, 0)

	tasks, _, err := suite.service.List(suite.owner, ListTasksInput{OrganizationID: &suite.child.ID})
	suite.Require().NoError(err)
	suite.Len(tasks, 1)

	_, _, err = suite.service.List(suite.childAdmin, ListTasksInput{OrganizationID: &suite.root.ID})
	suite.ErrorIs(err, ErrAccessDenied)

	_, _, err = suite.service.List(suite.viewer, ListTasksInput{OwnerID: &suite.owner.ID})
	suite.ErrorIs(err, ErrAccessDenied)
}

func (suite *TaskServiceTestSuite) TestUpdateStatusMovesToEndOfDestinationColumn() {
	moving := suite.createTask("moving", suite.owner, suite.root.ID, models.TaskStatusPending, 0)
	suite.createTask("staying", suite.owner, suite.root.ID, models.TaskStatusPending, 1)
	suite.createTask("settled", suite.owner, suite.root.ID, models.TaskStatusInProgress, 0)

	inProgress := models.TaskStatusInProgress
	updated, err := suite.service.Update(suite.owner, moving.ID, UpdateTaskInput{Status: &inProgress})
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusInProgress, updated.Status)
	suite.Equal(1, updated.Order)
}

func (suite *TaskServiceTestSuite) TestViewerCannotMutate() {
	own := suite.createTask("mine", suite.viewer, suite.root.ID, models.TaskStatusPending, 0)

	title := "renamed"
	_, err := suite.service.Update(suite.viewer, own.ID, UpdateTaskInput{Title: &title})
	suite.ErrorIs(err, ErrAccessDenied)

	suite.ErrorIs(suite.service.Delete(suite.viewer, own.ID), ErrAccessDenied)
}

func (suite *TaskServiceTestSuite) TestDeleteLeavesGapInColumn() {
	suite.createTask("a", suite.owner, suite.root.ID, models.TaskStatusPending, 0)
	middle := suite.createTask("b", suite.owner, suite.root.ID, models.TaskStatusPending, 1)
	suite.createTask("c", suite.owner, suite.root.ID, models.TaskStatusPending, 2)

	suite.Require().NoError(suite.service.Delete(suite.owner, middle.ID))

	orders := suite.columnOrders(suite.root.ID, suite.owner.ID, models.TaskStatusPending)
	suite.Equal(map[string]int{"a": 0, "c": 2}, orders)
}

func (suite *TaskServiceTestSuite) TestReorderMovesAndCompacts() {
	suite.createTask("a", suite.owner, suite.root.ID, models.TaskStatusPending, 0)
	suite.createTask("b", suite.owner, suite.root.ID, models.TaskStatusPending, 1)
	moving := suite.createTask("c", suite.owner, suite.root.ID, models.TaskStatusPending, 2)
	suite.createTask("d", suite.owner, suite.root.ID, models.TaskStatusPending, 3)

	reordered, err := suite.service.Reorder(suite.owner, moving.ID, 0)
	suite.Require().NoError(err)
	suite.Equal(0, reordered.Order)

	orders := suite.columnOrders(suite.root.ID, suite.owner.ID, models.TaskStatusPending)
	suite.Equal(map[string]int{"c": 0, "a": 1, "b": 2, "d": 3}, orders)
}

func (suite *TaskServiceTestSuite) TestReorderCompactsGappedColumn() {
	suite.createTask("a", suite.owner, suite.root.ID, models.TaskStatusPending, 2)
	suite.createTask("b", suite.owner, suite.root.ID, models.TaskStatusPending, 7)
	moving := suite.createTask("c", suite.owner, suite.root.ID, models.TaskStatusPending, 11)

	_, err := suite.service.Reorder(suite.owner, moving.ID, 1)
	suite.Require().NoError(err)

	orders := suite.columnOrders(suite.root.ID, suite.owner.ID, models.TaskStatusPending)
	suite.Equal(map[string]int{"a": 0, "c": 1, "b": 2}, orders)
}

func (suite *TaskServiceTestSuite) TestReorderToCurrentIndexIsNoOp() {
	suite.createTask("a", suite.owner, suite.root.ID, models.TaskStatusPending, 0)
	stay := suite.createTask("b", suite.owner, suite.root.ID, models.TaskStatusPending, 5)
	suite.createTask("c", suite.owner, suite.root.ID, models.TaskStatusPending, 9)

	reordered, err := suite.service.Reorder(suite.owner, stay.ID, 1)
	suite.Require().NoError(err)
	suite.Equal(5, reordered.Order)

	// A no-op leaves even the gaps untouched.
	orders := suite.columnOrders(suite.root.ID, suite.owner.ID, models.TaskStatusPending)
	suite.Equal(map[string]int{"a": 0, "b": 5, "c": 9}, orders)
}

func (suite *TaskServiceTestSuite) TestReorderClampsTargetIndex() {
	moving := suite.createTask("a", suite.owner, suite.root.ID, models.TaskStatusPending, 0)
	suite.createTask("b", suite.owner, suite.root.ID, models.TaskStatusPending, 1)
	suite.createTask("c", suite.owner, suite.root.ID, models.TaskStatusPending, 2)

	// An oversized target clamps to the column length: the task lands last
	// and reports the clamped drop-at-end position.
	reordered, err := suite.service.Reorder(suite.owner, moving.ID, 99)
	suite.Require().NoError(err)
	suite.Equal(3, reordered.Order)
	suite.Equal(map[string]int{"b": 0, "c": 1, "a": 2},
		suite.columnOrders(suite.root.ID, suite.owner.ID, models.TaskStatusPending))

	reordered, err = suite.service.Reorder(suite.owner, moving.ID, -4)
	suite.Require().NoError(err)
	suite.Equal(0, reordered.Order)
	suite.Equal(map[string]int{"a": 0, "b": 1, "c": 2},
		suite.columnOrders(suite.root.ID, suite.owner.ID, models.TaskStatusPending))
}

func (suite *TaskServiceTestSuite) TestReorderStaysInsideItsColumn() {
	moving := suite.createTask("a", suite.owner, suite.root.ID, models.TaskStatusPending, 0)
	suite.createTask("b", suite.owner, suite.root.ID, models.TaskStatusPending, 1)
	suite.createTask("done", suite.owner, suite.root.ID, models.TaskStatusCompleted, 4)
	suite.createTask("other owner", suite.viewer, suite.root.ID, models.TaskStatusPending, 4)

	_, err := suite.service.Reorder(suite.owner, moving.ID, 1)
	suite.Require().NoError(err)

	suite.Equal(map[string]int{"done": 4},
		suite.columnOrders(suite.root.ID, suite.owner.ID, models.TaskStatusCompleted))
	suite.Equal(map[string]int{"other owner": 4},
		suite.columnOrders(suite.root.ID, suite.viewer.ID, models.TaskStatusPending))
}

func (suite *TaskServiceTestSuite) TestReorderDenials() {
	rootTask := suite.createTask("root task", suite.owner, suite.root.ID, models.TaskStatusPending, 0)

	_, err := suite.service.Reorder(suite.childAdmin, rootTask.ID, 0)
	suite.ErrorIs(err, ErrAccessDenied)

	_, err = suite.service.Reorder(suite.viewer, rootTask.ID, 0)
	suite.ErrorIs(err, ErrAccessDenied)

	_, err = suite.service.Reorder(suite.owner, "33333333-3333-3333-3333-333333333333", 0)
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestFixDuplicateOrdersRepairsGappedColumns() {
	base := time.Now().Add(-time.Hour)
	for i, title := range []string{"a", "b", "c"} {
		task := &models.Task{
			Title:          title,
			Status:         models.TaskStatusPending,
			Priority:       models.TaskPriorityMedium,
			Order:          3 + i*4,
			OwnerID:        suite.owner.ID,
			OrganizationID: suite.root.ID,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}
		suite.Require().NoError(suite.db.Create(task).Error)
	}
	suite.createTask("tidy", suite.rootAdmin, suite.root.ID, models.TaskStatusPending, 0)

	fixed, err := suite.service.FixDuplicateOrders()
	suite.Require().NoError(err)
	suite.Equal(1, fixed)

	orders := suite.columnOrders(suite.root.ID, suite.owner.ID, models.TaskStatusPending)
	suite.Equal(map[string]int{"a": 0, "b": 1, "c": 2}, orders)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
