package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/company-site-api/internal/audit"
	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/models"
	"github.com/noah-isme/company-site-api/internal/repository"
)

// ErrAssetUnavailable indicates the requested record has no downloadable file.
var ErrAssetUnavailable = errors.New("no downloadable asset")

// DownloadService resolves public brochure downloads and records them.
type DownloadService interface {
	Download(ctx context.Context, req dto.DownloadRequest) (dto.DownloadResponse, error)
}

type downloadService struct {
	products  repository.ProductRepository
	projects  repository.ProjectRepository
	audit     *audit.Logger
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewDownloadService constructs the download tracker.
func NewDownloadService(products repository.ProductRepository, projects repository.ProjectRepository, auditLogger *audit.Logger, validator *validator.Validate, logger zerolog.Logger) DownloadService {
	return &downloadService{
		products:  products,
		projects:  projects,
		audit:     auditLogger,
		validator: validator,
		logger:    logger.With().Str("component", "download_service").Logger(),
	}
}

func (s *downloadService) Download(ctx context.Context, req dto.DownloadRequest) (dto.DownloadResponse, error) {
	req.Entity = strings.ToLower(strings.TrimSpace(req.Entity))
	if err := s.validator.Struct(req); err != nil {
		return dto.DownloadResponse{}, err
	}

	var (
		file    string
		display string
	)
	switch req.Entity {
	case "product":
		product, err := s.products.GetByID(ctx, req.EntityID)
		if err != nil {
			return dto.DownloadResponse{}, mapProductError(err)
		}
		if !product.IsActive {
			return dto.DownloadResponse{}, ErrProductNotFound
		}
		file, display = product.Thumbnail, product.DisplayString()
	case "project":
		project, err := s.projects.GetByID(ctx, req.EntityID)
		if err != nil {
			return dto.DownloadResponse{}, mapProjectError(err)
		}
		if !project.IsActive {
			return dto.DownloadResponse{}, ErrProjectNotFound
		}
		file, display = project.Image, project.DisplayString()
	}
	if file == "" {
		return dto.DownloadResponse{}, ErrAssetUnavailable
	}

	id := req.EntityID
	_, err := s.audit.LogGuestActivity(ctx, audit.ActivityEntry{
		Action:      models.ActionDownload,
		Entity:      req.Entity + "_brochure",
		EntityID:    &id,
		EntityName:  display,
		Description: fmt.Sprintf("Downloaded %s brochure: %s", req.Entity, display),
		Guest: audit.GuestHints{
			Email: strings.ToLower(strings.TrimSpace(req.Email)),
			Name:  strings.TrimSpace(req.Name),
		},
		ExtraData: map[string]any{"file": file},
	})
	if err != nil {
		return dto.DownloadResponse{}, err
	}

	return dto.DownloadResponse{URL: file}, nil
}
