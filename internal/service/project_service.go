package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/company-site-api/internal/audit"
	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/models"
	"github.com/noah-isme/company-site-api/internal/repository"
)

// ErrProjectNotFound indicates the project does not exist.
var ErrProjectNotFound = errors.New("project not found")

// ProjectService manages the project showcase.
type ProjectService interface {
	List(ctx context.Context, req dto.ProjectListRequest) (dto.ProjectListResponse, error)
	Create(ctx context.Context, req dto.ProjectCreateRequest) (dto.ProjectResponse, error)
	Update(ctx context.Context, id uint, req dto.ProjectUpdateRequest) (dto.ProjectResponse, error)
	Delete(ctx context.Context, id uint) error
}

type projectService struct {
	repo      repository.ProjectRepository
	uow       repository.UnitOfWork
	audit     *audit.Logger
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewProjectService constructs the project service.
func NewProjectService(repo repository.ProjectRepository, uow repository.UnitOfWork, auditLogger *audit.Logger, validator *validator.Validate, logger zerolog.Logger) ProjectService {
	return &projectService{
		repo:      repo,
		uow:       uow,
		audit:     auditLogger,
		validator: validator,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "project_service").Logger(),
	}
}

func (s *projectService) List(ctx context.Context, req dto.ProjectListRequest) (dto.ProjectListResponse, error) {
	filter := repository.ProjectFilter{
		Search:     strings.TrimSpace(req.Search),
		ActiveOnly: req.ActiveOnly,
		Page:       normalizePage(req.Page),
		PageSize:   clampPageSize(req.PageSize),
	}

	projects, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ProjectListResponse{}, err
	}

	items := make([]dto.ProjectResponse, 0, len(projects))
	for _, project := range projects {
		items = append(items, dto.NewProjectResponse(project))
	}
	return dto.ProjectListResponse{
		Items:      items,
		Pagination: paginationMeta(filter.Page, filter.PageSize, total),
	}, nil
}

func (s *projectService) Create(ctx context.Context, req dto.ProjectCreateRequest) (dto.ProjectResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ProjectResponse{}, err
	}

	gallery, err := encodeGallery(req.Gallery)
	if err != nil {
		return dto.ProjectResponse{}, err
	}

	project := models.Project{
		Title:           strings.TrimSpace(req.Title),
		Slug:            normalizeSlug(req.Slug),
		Location:        strings.TrimSpace(req.Location),
		Description:     s.sanitizer.Sanitize(req.Description),
		Image:           strings.TrimSpace(req.Image),
		Gallery:         gallery,
		MetaTitle:       strings.TrimSpace(req.MetaTitle),
		MetaDescription: strings.TrimSpace(req.MetaDescription),
		IsActive:        boolValue(req.IsActive, true),
	}
	if project.Slug == "" {
		project.Slug = generateSlug(project.Title, "project")
	}

	err = s.uow.Do(ctx, func(repos repository.Repositories) error {
		if err := repos.Projects.Create(ctx, &project); err != nil {
			return err
		}
		_, err := s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &project, models.ActionCreate, audit.ChangeOptions{})
		return err
	})
	if err != nil {
		return dto.ProjectResponse{}, err
	}
	return dto.NewProjectResponse(project), nil
}

func (s *projectService) Update(ctx context.Context, id uint, req dto.ProjectUpdateRequest) (dto.ProjectResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ProjectResponse{}, err
	}

	var updated models.Project
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		project, err := repos.Projects.GetForUpdate(ctx, id)
		if err != nil {
			return mapProjectError(err)
		}
		before := project

		if req.Title != nil {
			project.Title = strings.TrimSpace(*req.Title)
		}
		if req.Slug != nil {
			if slug := normalizeSlug(*req.Slug); slug != "" {
				project.Slug = slug
			}
		}
		if req.Location != nil {
			project.Location = strings.TrimSpace(*req.Location)
		}
		if req.Description != nil {
			project.Description = s.sanitizer.Sanitize(*req.Description)
		}
		if req.Image != nil {
			project.Image = strings.TrimSpace(*req.Image)
		}
		if req.Gallery != nil {
			gallery, err := encodeGallery(*req.Gallery)
			if err != nil {
				return err
			}
			project.Gallery = gallery
		}
		if req.MetaTitle != nil {
			project.MetaTitle = strings.TrimSpace(*req.MetaTitle)
		}
		if req.MetaDescription != nil {
			project.MetaDescription = strings.TrimSpace(*req.MetaDescription)
		}
		if req.IsActive != nil {
			project.IsActive = *req.IsActive
		}

		if err := repos.Projects.Update(ctx, &project); err != nil {
			return err
		}
		if _, err := s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &project, models.ActionUpdate, audit.ChangeOptions{
			OldInstance:   &before,
			ExcludeFields: []string{"updated_at"},
		}); err != nil {
			return err
		}
		updated = project
		return nil
	})
	if err != nil {
		return dto.ProjectResponse{}, err
	}
	return dto.NewProjectResponse(updated), nil
}

func (s *projectService) Delete(ctx context.Context, id uint) error {
	return s.uow.Do(ctx, func(repos repository.Repositories) error {
		project, err := repos.Projects.GetForUpdate(ctx, id)
		if err != nil {
			return mapProjectError(err)
		}
		if err := repos.Projects.Delete(ctx, id); err != nil {
			return mapProjectError(err)
		}
		_, err = s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &project, models.ActionDelete, audit.ChangeOptions{})
		return err
	})
}

func encodeGallery(images []string) (datatypes.JSON, error) {
	cleaned := make([]string, 0, len(images))
	for _, image := range images {
		if trimmed := strings.TrimSpace(image); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	payload, err := json.Marshal(cleaned)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(payload), nil
}

func mapProjectError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProjectNotFound
	}
	return err
}
