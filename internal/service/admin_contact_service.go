package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/company-site-api/internal/audit"
	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/models"
	"github.com/noah-isme/company-site-api/internal/repository"
)

// ErrAdminContactNotFound indicates the contact message is missing.
var ErrAdminContactNotFound = errors.New("contact message not found")

// AdminContactService exposes contact inbox management for the admin console.
type AdminContactService interface {
	List(ctx context.Context, req dto.AdminContactListRequest) (dto.AdminContactListResponse, error)
	Get(ctx context.Context, id uint) (dto.AdminContactResponse, error)
	MarkRead(ctx context.Context, id uint, read bool) (dto.AdminContactResponse, error)
	Delete(ctx context.Context, id uint) error
	BulkDelete(ctx context.Context, req dto.BulkIDsRequest) (dto.BulkResultResponse, error)
}

type adminContactService struct {
	repo      repository.ContactRepository
	uow       repository.UnitOfWork
	audit     *audit.Logger
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAdminContactService constructs the contact admin service.
func NewAdminContactService(repo repository.ContactRepository, uow repository.UnitOfWork, auditLogger *audit.Logger, validator *validator.Validate, logger zerolog.Logger) AdminContactService {
	return &adminContactService{
		repo:      repo,
		uow:       uow,
		audit:     auditLogger,
		validator: validator,
		logger:    logger.With().Str("component", "admin_contact_service").Logger(),
	}
}

func (s *adminContactService) List(ctx context.Context, req dto.AdminContactListRequest) (dto.AdminContactListResponse, error) {
	filter := repository.ContactFilter{
		Search:   strings.TrimSpace(req.Search),
		Unread:   req.Unread,
		Page:     normalizePage(req.Page),
		PageSize: clampPageSize(req.PageSize),
	}

	messages, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.AdminContactListResponse{}, err
	}

	items := make([]dto.AdminContactResponse, 0, len(messages))
	for _, message := range messages {
		items = append(items, dto.NewAdminContactResponse(message))
	}

	return dto.AdminContactListResponse{
		Items:      items,
		Pagination: paginationMeta(filter.Page, filter.PageSize, total),
	}, nil
}

func (s *adminContactService) Get(ctx context.Context, id uint) (dto.AdminContactResponse, error) {
	message, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.AdminContactResponse{}, mapContactError(err)
	}
	if _, err := s.audit.LogEntityChange(ctx, &message, models.ActionView, audit.ChangeOptions{}); err != nil {
		s.logger.Warn().Err(err).Uint("message_id", id).Msg("failed to record contact view")
	}
	return dto.NewAdminContactResponse(message), nil
}

func (s *adminContactService) MarkRead(ctx context.Context, id uint, read bool) (dto.AdminContactResponse, error) {
	var updated models.ContactMessage
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		message, err := repos.ContactMessages.GetForUpdate(ctx, id)
		if err != nil {
			return mapContactError(err)
		}
		before := message
		message.IsRead = read
		if err := repos.ContactMessages.Update(ctx, &message); err != nil {
			return err
		}
		if _, err := s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &message, models.ActionUpdate, audit.ChangeOptions{
			OldInstance: &before,
		}); err != nil {
			return err
		}
		updated = message
		return nil
	})
	if err != nil {
		return dto.AdminContactResponse{}, err
	}
	return dto.NewAdminContactResponse(updated), nil
}

func (s *adminContactService) Delete(ctx context.Context, id uint) error {
	return s.uow.Do(ctx, func(repos repository.Repositories) error {
		message, err := repos.ContactMessages.GetForUpdate(ctx, id)
		if err != nil {
			return mapContactError(err)
		}
		if err := repos.ContactMessages.Delete(ctx, id); err != nil {
			return mapContactError(err)
		}
		_, err = s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &message, models.ActionDelete, audit.ChangeOptions{})
		return err
	})
}

func (s *adminContactService) BulkDelete(ctx context.Context, req dto.BulkIDsRequest) (dto.BulkResultResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.BulkResultResponse{}, err
	}

	result := dto.BulkResultResponse{Succeeded: []uint{}, Failed: []uint{}}
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		messages, err := repos.ContactMessages.ListByIDs(ctx, req.IDs)
		if err != nil {
			return err
		}
		if len(messages) == 0 {
			return ErrAdminContactNotFound
		}

		found := make(map[uint]bool, len(messages))
		deleted := make([]models.Auditable, 0, len(messages))
		for i := range messages {
			message := &messages[i]
			found[message.ID] = true
			if err := repos.ContactMessages.Delete(ctx, message.ID); err != nil {
				return err
			}
			result.Succeeded = append(result.Succeeded, message.ID)
			deleted = append(deleted, message)
		}
		for _, id := range req.IDs {
			if !found[id] {
				result.Failed = append(result.Failed, id)
			}
		}

		_, err = s.audit.WithStore(repos.ActivityLogs).LogBulkOperation(ctx, models.ActionDelete, deleted, audit.BulkOptions{
			OperationName: "delete_contact_messages",
			SuccessCount:  len(result.Succeeded),
			ErrorCount:    len(result.Failed),
			ExtraData:     map[string]any{"requested_ids": req.IDs},
		})
		return err
	})
	if err != nil {
		return dto.BulkResultResponse{}, err
	}
	return result, nil
}

func mapContactError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrAdminContactNotFound
	}
	return err
}
