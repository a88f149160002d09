package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/company-site-api/internal/audit"
	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/models"
	"github.com/noah-isme/company-site-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
	// ErrSeedEmpty indicates an import without items.
	ErrSeedEmpty = errors.New("no items to import")
)

// ImportResult reports how many catalogue rows an import created.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped"`
}

// SeedService imports catalogue data and bootstraps the first admin.
type SeedService interface {
	ImportProducts(ctx context.Context, token string, items []dto.ProductCreateRequest) (ImportResult, error)
	EnsureAdmin(ctx context.Context, username, email, password string) (bool, error)
}

type seedService struct {
	uow       repository.UnitOfWork
	users     repository.UserRepository
	audit     *audit.Logger
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	enabled   bool
	token     string
	logger    zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(uow repository.UnitOfWork, users repository.UserRepository, auditLogger *audit.Logger, validator *validator.Validate, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		uow:       uow,
		users:     users,
		audit:     auditLogger,
		validator: validator,
		sanitizer: bluemonday.UGCPolicy(),
		enabled:   enabled,
		token:     token,
		logger:    logger.With().Str("component", "seed_service").Logger(),
	}
}

// ImportProducts creates every valid item and records one IMPORT summary.
// Invalid items are skipped and counted as failures.
func (s *seedService) ImportProducts(ctx context.Context, token string, items []dto.ProductCreateRequest) (ImportResult, error) {
	if !s.enabled {
		return ImportResult{}, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return ImportResult{}, ErrSeedUnauthorized
	}
	if len(items) == 0 {
		return ImportResult{}, ErrSeedEmpty
	}

	result := ImportResult{Skipped: []string{}}
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		created := make([]models.Auditable, 0, len(items))
		for _, item := range items {
			if err := s.validator.Struct(item); err != nil || validatePrice(item.Price) != nil {
				result.Skipped = append(result.Skipped, item.Name)
				continue
			}
			product := &models.Product{
				Name:        strings.TrimSpace(item.Name),
				Slug:        normalizeSlug(item.Slug),
				Description: s.sanitizer.Sanitize(item.Description),
				Price:       item.Price,
				Thumbnail:   strings.TrimSpace(item.Thumbnail),
				IsActive:    boolValue(item.IsActive, true),
			}
			if product.Slug == "" {
				product.Slug = generateSlug(product.Name, "product")
			}
			if err := repos.Products.Create(ctx, product); err != nil {
				return err
			}
			created = append(created, product)
		}
		if len(created) == 0 {
			return ErrSeedEmpty
		}
		result.Imported = len(created)

		_, err := s.audit.WithStore(repos.ActivityLogs).LogBulkOperation(ctx, models.ActionImport, created, audit.BulkOptions{
			OperationName: "import_products",
			SuccessCount:  len(created),
			ErrorCount:    len(result.Skipped),
			ExtraData:     map[string]any{"skipped": result.Skipped},
			Guest:         audit.GuestHints{Name: "Seed Tool", Source: "seed"},
		})
		return err
	})
	if err != nil {
		return ImportResult{}, err
	}

	s.logger.Info().Int("imported", result.Imported).Int("skipped", len(result.Skipped)).Msg("products imported")
	return result, nil
}

// EnsureAdmin creates the superadmin account when it does not exist yet.
func (s *seedService) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false, nil
	}

	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	user := models.User{
		Username: username,
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: string(hash),
		Role:     models.RoleSuperAdmin,
		IsActive: true,
	}
	err = s.uow.Do(ctx, func(repos repository.Repositories) error {
		if err := repos.Users.Create(ctx, &user); err != nil {
			return err
		}
		_, err := s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &user, models.ActionCreate, audit.ChangeOptions{
			Description: "Bootstrapped superadmin account: " + user.DisplayString(),
			Guest:       audit.GuestHints{Name: "System", Source: "bootstrap"},
		})
		return err
	})
	if err != nil {
		return false, err
	}

	s.logger.Info().Str("username", username).Msg("superadmin account created")
	return true, nil
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.TrimSpace(token))) == 1
}
