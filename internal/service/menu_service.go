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

var (
	// ErrMenuNotFound indicates the menu does not exist.
	ErrMenuNotFound = errors.New("menu not found")
	// ErrMenuItemNotFound indicates the item does not exist in the menu.
	ErrMenuItemNotFound = errors.New("menu item not found")
	// ErrInvalidMenuParent indicates the parent item is missing, belongs to
	// another menu, or is the item itself.
	ErrInvalidMenuParent = errors.New("invalid menu item parent")
	// ErrInvalidMenuPosition indicates an unknown menu position filter.
	ErrInvalidMenuPosition = errors.New("invalid menu position")
)

// MenuService manages navigation menus and their links.
type MenuService interface {
	List(ctx context.Context, position string) ([]dto.MenuResponse, error)
	Create(ctx context.Context, req dto.MenuCreateRequest) (dto.MenuResponse, error)
	Update(ctx context.Context, id uint, req dto.MenuUpdateRequest) (dto.MenuResponse, error)
	Delete(ctx context.Context, id uint) error
	CreateItem(ctx context.Context, menuID uint, req dto.MenuItemRequest) (dto.MenuItemResponse, error)
	UpdateItem(ctx context.Context, menuID, id uint, req dto.MenuItemUpdateRequest) (dto.MenuItemResponse, error)
	DeleteItem(ctx context.Context, menuID, id uint) error
}

type menuService struct {
	repo      repository.MenuRepository
	uow       repository.UnitOfWork
	audit     *audit.Logger
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewMenuService constructs the menu service.
func NewMenuService(repo repository.MenuRepository, uow repository.UnitOfWork, auditLogger *audit.Logger, validator *validator.Validate, logger zerolog.Logger) MenuService {
	return &menuService{
		repo:      repo,
		uow:       uow,
		audit:     auditLogger,
		validator: validator,
		logger:    logger.With().Str("component", "menu_service").Logger(),
	}
}

func (s *menuService) List(ctx context.Context, position string) ([]dto.MenuResponse, error) {
	filter := models.MenuPosition(strings.ToLower(strings.TrimSpace(position)))
	if filter != "" && !filter.Valid() {
		return nil, ErrInvalidMenuPosition
	}
	menus, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MenuResponse, 0, len(menus))
	for _, menu := range menus {
		items = append(items, dto.NewMenuResponse(menu))
	}
	return items, nil
}

func (s *menuService) Create(ctx context.Context, req dto.MenuCreateRequest) (dto.MenuResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.MenuResponse{}, err
	}

	menu := models.Menu{
		Name:     strings.TrimSpace(req.Name),
		Position: models.MenuHeader,
	}
	if req.Position != "" {
		menu.Position = models.MenuPosition(req.Position)
	}

	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		if err := repos.Menus.Create(ctx, &menu); err != nil {
			return err
		}
		_, err := s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &menu, models.ActionCreate, audit.ChangeOptions{})
		return err
	})
	if err != nil {
		return dto.MenuResponse{}, err
	}
	return dto.NewMenuResponse(menu), nil
}

func (s *menuService) Update(ctx context.Context, id uint, req dto.MenuUpdateRequest) (dto.MenuResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.MenuResponse{}, err
	}

	var updated models.Menu
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		menu, err := repos.Menus.GetForUpdate(ctx, id)
		if err != nil {
			return mapMenuError(err)
		}
		before := menu

		if req.Name != nil {
			menu.Name = strings.TrimSpace(*req.Name)
		}
		if req.Position != nil {
			menu.Position = models.MenuPosition(*req.Position)
		}

		if err := repos.Menus.Update(ctx, &menu); err != nil {
			return err
		}
		if _, err := s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &menu, models.ActionUpdate, audit.ChangeOptions{
			OldInstance:   &before,
			ExcludeFields: []string{"updated_at"},
		}); err != nil {
			return err
		}
		updated = menu
		return nil
	})
	if err != nil {
		return dto.MenuResponse{}, err
	}
	return dto.NewMenuResponse(updated), nil
}

// Delete removes the menu; its items go with it through the cascade and
// are not logged one by one.
func (s *menuService) Delete(ctx context.Context, id uint) error {
	return s.uow.Do(ctx, func(repos repository.Repositories) error {
		menu, err := repos.Menus.GetForUpdate(ctx, id)
		if err != nil {
			return mapMenuError(err)
		}
		if err := repos.Menus.Delete(ctx, id); err != nil {
			return mapMenuError(err)
		}
		_, err = s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &menu, models.ActionDelete, audit.ChangeOptions{})
		return err
	})
}

func (s *menuService) CreateItem(ctx context.Context, menuID uint, req dto.MenuItemRequest) (dto.MenuItemResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.MenuItemResponse{}, err
	}

	var created models.MenuItem
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		menu, err := repos.Menus.GetForUpdate(ctx, menuID)
		if err != nil {
			return mapMenuError(err)
		}

		item := models.MenuItem{
			MenuID:  menu.ID,
			Menu:    &menu,
			Lang:    strings.TrimSpace(req.Lang),
			Label:   strings.TrimSpace(req.Label),
			Link:    strings.TrimSpace(req.Link),
			OrderNo: req.OrderNo,
		}
		if item.Lang == "" {
			item.Lang = "en"
		}
		if req.ParentID != nil {
			parent, err := repos.Menus.GetItemForUpdate(ctx, menu.ID, *req.ParentID)
			if err != nil {
				return ErrInvalidMenuParent
			}
			item.ParentID = &parent.ID
			item.Parent = &parent
		}

		if err := repos.Menus.CreateItem(ctx, &item); err != nil {
			return err
		}
		if _, err := s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &item, models.ActionCreate, audit.ChangeOptions{
			IncludeRelations: true,
		}); err != nil {
			return err
		}
		created = item
		return nil
	})
	if err != nil {
		return dto.MenuItemResponse{}, err
	}
	return dto.NewMenuItemResponse(created), nil
}

func (s *menuService) UpdateItem(ctx context.Context, menuID, id uint, req dto.MenuItemUpdateRequest) (dto.MenuItemResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.MenuItemResponse{}, err
	}

	var updated models.MenuItem
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		item, err := repos.Menus.GetItemForUpdate(ctx, menuID, id)
		if err != nil {
			return mapMenuItemError(err)
		}
		before := item

		if req.ParentID != nil {
			if *req.ParentID == item.ID {
				return ErrInvalidMenuParent
			}
			parent, err := repos.Menus.GetItemForUpdate(ctx, menuID, *req.ParentID)
			if err != nil {
				return ErrInvalidMenuParent
			}
			item.ParentID = &parent.ID
			item.Parent = &parent
		}
		if req.Lang != nil {
			item.Lang = strings.TrimSpace(*req.Lang)
		}
		if req.Label != nil {
			item.Label = strings.TrimSpace(*req.Label)
		}
		if req.Link != nil {
			item.Link = strings.TrimSpace(*req.Link)
		}
		if req.OrderNo != nil {
			item.OrderNo = *req.OrderNo
		}

		if err := repos.Menus.UpdateItem(ctx, &item); err != nil {
			return err
		}
		if _, err := s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &item, models.ActionUpdate, audit.ChangeOptions{
			OldInstance:   &before,
			ExcludeFields: []string{"updated_at"},
		}); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return dto.MenuItemResponse{}, err
	}
	return dto.NewMenuItemResponse(updated), nil
}

func (s *menuService) DeleteItem(ctx context.Context, menuID, id uint) error {
	return s.uow.Do(ctx, func(repos repository.Repositories) error {
		item, err := repos.Menus.GetItemForUpdate(ctx, menuID, id)
		if err != nil {
			return mapMenuItemError(err)
		}
		if err := repos.Menus.DeleteItem(ctx, id); err != nil {
			return mapMenuItemError(err)
		}
		_, err = s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &item, models.ActionDelete, audit.ChangeOptions{
			IncludeRelations: true,
		})
		return err
	})
}

func mapMenuError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrMenuNotFound
	}
	return err
}

func mapMenuItemError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrMenuItemNotFound
	}
	return err
}
