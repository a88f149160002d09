package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/company-site-api/internal/audit"
	"github.com/noah-isme/company-site-api/internal/models"
	"github.com/noah-isme/company-site-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type serviceFixture struct {
	db        *gorm.DB
	repos     repository.Repositories
	uow       repository.UnitOfWork
	audit     *audit.Logger
	validator *validator.Validate
}

func newServiceFixture(t *testing.T) serviceFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Specification{},
		&models.ProductSpecification{},
		&models.Project{},
		&models.Banner{},
		&models.Menu{},
		&models.MenuItem{},
		&models.ContactMessage{},
		&models.Setting{},
		&models.ActivityLog{},
	))

	repos := repository.NewRepositories(db)
	return serviceFixture{
		db:        db,
		repos:     repos,
		uow:       repository.NewUnitOfWork(db),
		audit:     audit.NewLogger(repos.ActivityLogs, testLogger()),
		validator: validator.New(),
	}
}

func (f serviceFixture) activities(t *testing.T) []models.ActivityLog {
	t.Helper()
	var logs []models.ActivityLog
	require.NoError(t, f.db.Order("id ASC").Find(&logs).Error)
	return logs
}

func (f serviceFixture) lastActivity(t *testing.T) models.ActivityLog {
	t.Helper()
	logs := f.activities(t)
	require.NotEmpty(t, logs)
	return logs[len(logs)-1]
}

func adminContext(user *models.User) context.Context {
	return audit.WithRequest(context.Background(), audit.Request{
		User:      user,
		ClientIP:  "10.0.0.1",
		UserAgent: "test-agent",
	})
}

func guestContext(ip string) context.Context {
	return audit.WithRequest(context.Background(), audit.Request{ClientIP: ip, UserAgent: "test-agent"})
}

func (f serviceFixture) createAdmin(t *testing.T) *models.User {
	t.Helper()
	user := &models.User{Username: "admin", Email: "admin@example.com", FullName: "Site Admin", Password: "x", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func boolPtr(v bool) *bool {
	return &v
}

func stringPtr(v string) *string {
	return &v
}
