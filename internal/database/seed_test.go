package database

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"task-management-system/internal/models"
)

// SeedTestSuite defines the test suite for database seeding
type SeedTestSuite struct {
	suite.Suite
	db     *gorm.DB
	logger *logrus.Logger
}

// SetupTest runs before each test
func (suite *SeedTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	suite.Require().NoError(Migrate(suite.db))

	suite.logger = logrus.New()
	suite.logger.SetOutput(io.Discard)
}

// TearDownTest runs after each test
func (suite *SeedTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *SeedTestSuite) TestSeedCreatesDefaults() {
	suite.Require().NoError(Seed(suite.db, suite.logger))

	var permCount, orgCount, roleCount, userCount int64
	suite.db.Model(&models.Permission{}).Count(&permCount)
	suite.db.Model(&models.Organization{}).Count(&orgCount)
	suite.db.Model(&models.Role{}).Count(&roleCount)
	suite.db.Model(&models.User{}).Count(&userCount)

	suite.EqualValues(5, permCount)
	suite.EqualValues(3, orgCount)
	suite.EqualValues(9, roleCount)
	suite.EqualValues(4, userCount)

	var root models.Organization
	suite.Require().NoError(suite.db.Where("name = ?", "TechCorp").First(&root).Error)
	suite.Nil(root.ParentID)

	var children []models.Organization
	suite.Require().NoError(suite.db.Where("parent_id = ?", root.ID).Find(&children).Error)
	suite.Len(children, 2)

	var viewerRole models.Role
	err := suite.db.Preload("Permissions").
		Where("name = ? AND organization_id = ?", "Viewer", root.ID).
		First(&viewerRole).Error
	suite.Require().NoError(err)
	suite.Require().Len(viewerRole.Permissions, 1)
	suite.Equal("task:read", viewerRole.Permissions[0].Key())

	var ownerRole models.Role
	err = suite.db.Preload("Permissions").
		Where("name = ? AND organization_id = ?", "Owner", root.ID).
		First(&ownerRole).Error
	suite.Require().NoError(err)
	suite.Len(ownerRole.Permissions, 5)
}

func (suite *SeedTestSuite) TestSeedIsIdempotent() {
	suite.Require().NoError(Seed(suite.db, suite.logger))
	suite.Require().NoError(Seed(suite.db, suite.logger))

	var orgCount, roleCount, userCount, taskCount int64
	suite.db.Model(&models.Organization{}).Count(&orgCount)
	suite.db.Model(&models.Role{}).Count(&roleCount)
	suite.db.Model(&models.User{}).Count(&userCount)
	suite.db.Model(&models.Task{}).Count(&taskCount)

	suite.EqualValues(3, orgCount)
	suite.EqualValues(9, roleCount)
	suite.EqualValues(4, userCount)
	suite.EqualValues(5, taskCount)
}

func TestSeedTestSuite(t *testing.T) {
	suite.Run(t, new(SeedTestSuite))
}
