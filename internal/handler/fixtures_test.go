package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/company-site-api/internal/audit"
	"github.com/noah-isme/company-site-api/internal/middleware"
	"github.com/noah-isme/company-site-api/internal/models"
	"github.com/noah-isme/company-site-api/internal/repository"
)

type handlerFixture struct {
	db        *gorm.DB
	repos     repository.Repositories
	uow       repository.UnitOfWork
	audit     *audit.Logger
	validator *validator.Validate
}

func newHandlerFixture(t *testing.T) handlerFixture {
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
	return handlerFixture{
		db:        db,
		repos:     repos,
		uow:       repository.NewUnitOfWork(db),
		audit:     audit.NewLogger(repos.ActivityLogs, zerolog.Nop()),
		validator: validator.New(),
	}
}

func (f handlerFixture) createUser(t *testing.T, username string, role models.UserRole) models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: "User " + username,
		Password: "hashed",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, f.db.Create(&user).Error)
	return user
}

func (f handlerFixture) activities(t *testing.T) []models.ActivityLog {
	t.Helper()
	var logs []models.ActivityLog
	require.NoError(t, f.db.Order("id ASC").Find(&logs).Error)
	return logs
}

// authenticatedApp mounts the identity locals and the audit context the way
// the JWT middleware would for the given user.
func (f handlerFixture) authenticatedApp(user *models.User) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if user != nil {
			c.Locals("user_id", user.ID)
			c.Locals("user_role", string(user.Role))
		}
		return c.Next()
	})
	app.Use(middleware.AuditContext(f.repos.Users))
	return app
}

func jsonRequest(t *testing.T, method, target string, payload interface{}) *http.Request {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}
