package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/company-site-api/internal/audit"
	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/models"
	"github.com/noah-isme/company-site-api/internal/repository"
)

// ErrInvalidCredentials indicates an unknown account, inactive account or wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService issues access tokens for admin console accounts.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	Logout(ctx context.Context, userID uint) error
}

type authService struct {
	users     repository.UserRepository
	uow       repository.UnitOfWork
	audit     *audit.Logger
	validator *validator.Validate
	secret    []byte
	tokenTTL  time.Duration
	now       func() time.Time
	logger    zerolog.Logger
}

// NewAuthService constructs the authentication service.
func NewAuthService(users repository.UserRepository, uow repository.UnitOfWork, auditLogger *audit.Logger, validator *validator.Validate, secret string, tokenTTL time.Duration, logger zerolog.Logger) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	return &authService{
		users:     users,
		uow:       uow,
		audit:     auditLogger,
		validator: validator,
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LoginResponse{}, err
	}
	username := strings.TrimSpace(req.Username)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.LoginResponse{}, err
	}
	if err != nil || !user.IsActive || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		s.recordFailedLogin(ctx, username)
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	now := s.now()
	err = s.uow.Do(ctx, func(repos repository.Repositories) error {
		locked, err := repos.Users.GetForUpdate(ctx, user.ID)
		if err != nil {
			return err
		}
		locked.LastLoginAt = &now
		if err := repos.Users.Update(ctx, &locked); err != nil {
			return err
		}
		user = locked

		// The request carries no user yet; attribute the login to the account.
		loginCtx := withRequestUser(ctx, &locked)
		id := locked.ID
		_, err = s.audit.WithStore(repos.ActivityLogs).LogActivity(loginCtx, audit.ActivityEntry{
			Action:         models.ActionLogin,
			Entity:         locked.EntityName(),
			ComputedEntity: locked.QualifiedType(),
			EntityID:       &id,
			EntityName:     locked.DisplayString(),
			Description:    fmt.Sprintf("User logged in: %s", locked.Username),
		})
		return err
	})
	if err != nil {
		return dto.LoginResponse{}, err
	}

	expiresAt := now.Add(s.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", user.ID),
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("user logged in")
	return dto.LoginResponse{Token: signed, ExpiresAt: expiresAt, User: dto.NewProfileResponse(user)}, nil
}

func (s *authService) Logout(ctx context.Context, userID uint) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	id := user.ID
	_, err = s.audit.LogActivity(withRequestUser(ctx, &user), audit.ActivityEntry{
		Action:         models.ActionLogout,
		Entity:         user.EntityName(),
		ComputedEntity: user.QualifiedType(),
		EntityID:       &id,
		EntityName:     user.DisplayString(),
		Description:    fmt.Sprintf("User logged out: %s", user.Username),
	})
	return err
}

// recordFailedLogin drops any console identity bound by an optional token:
// a failed attempt is always a guest record.
func (s *authService) recordFailedLogin(ctx context.Context, username string) {
	_, err := s.audit.LogGuestActivity(withRequestUser(ctx, nil), audit.ActivityEntry{
		Action:      models.ActionLogin,
		Entity:      "user",
		Description: fmt.Sprintf("Failed login attempt for %s", username),
		ExtraData:   map[string]any{"success": false, "username": username},
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to record login attempt")
	}
}

func withRequestUser(ctx context.Context, user *models.User) context.Context {
	req := audit.RequestFromContext(ctx)
	req.User = user
	return audit.WithRequest(ctx, req)
}
