package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/company-site-api/internal/audit"
	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/models"
	"github.com/noah-isme/company-site-api/internal/repository"
)

var (
	// ErrUserNotFound indicates the account does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrPasswordMismatch indicates the current password was wrong.
	ErrPasswordMismatch = errors.New("current password is incorrect")
	// ErrPasswordUnchanged indicates the new password equals the current one.
	ErrPasswordUnchanged = errors.New("new password must differ from the current password")
)

// ProfileService manages the authenticated account.
type ProfileService interface {
	Get(ctx context.Context, userID uint) (dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uint, req dto.ProfileUpdateRequest) (dto.ProfileResponse, error)
	ChangePassword(ctx context.Context, userID uint, req dto.PasswordChangeRequest) error
}

type profileService struct {
	users     repository.UserRepository
	uow       repository.UnitOfWork
	audit     *audit.Logger
	validator *validator.Validate
	cost      int
	logger    zerolog.Logger
}

// NewProfileService constructs the profile service.
func NewProfileService(users repository.UserRepository, uow repository.UnitOfWork, auditLogger *audit.Logger, validator *validator.Validate, logger zerolog.Logger) ProfileService {
	return &profileService{
		users:     users,
		uow:       uow,
		audit:     auditLogger,
		validator: validator,
		cost:      bcrypt.DefaultCost,
		logger:    logger.With().Str("component", "profile_service").Logger(),
	}
}

func (s *profileService) Get(ctx context.Context, userID uint) (dto.ProfileResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return dto.ProfileResponse{}, mapUserError(err)
	}
	return dto.NewProfileResponse(user), nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uint, req dto.ProfileUpdateRequest) (dto.ProfileResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ProfileResponse{}, err
	}

	var updated models.User
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		user, err := repos.Users.GetForUpdate(ctx, userID)
		if err != nil {
			return mapUserError(err)
		}
		before := user

		if req.Email != nil {
			user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
		}
		if req.FullName != nil {
			user.FullName = strings.TrimSpace(*req.FullName)
		}

		if err := repos.Users.Update(ctx, &user); err != nil {
			return err
		}
		if _, err := s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &user, models.ActionUpdate, audit.ChangeOptions{
			OldInstance:   &before,
			ExcludeFields: []string{"updated_at"},
		}); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return dto.ProfileResponse{}, err
	}
	return dto.NewProfileResponse(updated), nil
}

// ChangePassword rotates the password hash. The stored activity names the
// password field with masked values on both sides.
func (s *profileService) ChangePassword(ctx context.Context, userID uint, req dto.PasswordChangeRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}
	if req.CurrentPassword == req.NewPassword {
		return ErrPasswordUnchanged
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.cost)
	if err != nil {
		return err
	}

	return s.uow.Do(ctx, func(repos repository.Repositories) error {
		user, err := repos.Users.GetForUpdate(ctx, userID)
		if err != nil {
			return mapUserError(err)
		}
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)) != nil {
			return ErrPasswordMismatch
		}
		before := user
		user.Password = string(hash)

		if err := repos.Users.Update(ctx, &user); err != nil {
			return err
		}

		changes, err := audit.Diff(&before, &user, audit.DiffOptions{Exclude: []string{"updated_at"}})
		if err != nil {
			return err
		}
		if len(changes.MaskedChanged) == 0 {
			return fmt.Errorf("password change for user %d produced no masked diff", user.ID)
		}

		oldValues := make(map[string]any, len(changes.MaskedChanged))
		newValues := make(map[string]any, len(changes.MaskedChanged))
		for _, field := range changes.MaskedChanged {
			oldValues[field] = audit.MaskSentinel
			newValues[field] = audit.MaskSentinel
		}

		id := user.ID
		_, err = s.audit.WithStore(repos.ActivityLogs).LogActivity(ctx, audit.ActivityEntry{
			Action:         models.ActionUpdate,
			Entity:         user.EntityName(),
			ComputedEntity: user.QualifiedType(),
			EntityID:       &id,
			EntityName:     user.DisplayString(),
			OldValues:      oldValues,
			NewValues:      newValues,
			ChangedFields:  changes.MaskedChanged,
			Description:    fmt.Sprintf("Changed password for user: %s", user.DisplayString()),
			ExtraData:      map[string]any{audit.MaskedFieldsChangedKey: changes.MaskedChanged},
		})
		return err
	})
}

func mapUserError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}
