package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories groups every repository bound to the same database handle.
type Repositories struct {
	ActivityLogs          ActivityLogRepository
	Users                 UserRepository
	Products              ProductRepository
	Variants              ProductVariantRepository
	Specifications        SpecificationRepository
	ProductSpecifications ProductSpecificationRepository
	Projects              ProjectRepository
	ContactMessages       ContactRepository
	Settings              SettingRepository
	Banners               BannerRepository
	Menus                 MenuRepository
}

// NewRepositories binds all repositories to db.
func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		ActivityLogs:          NewActivityLogRepository(db),
		Users:                 NewUserRepository(db),
		Products:              NewProductRepository(db),
		Variants:              NewProductVariantRepository(db),
		Specifications:        NewSpecificationRepository(db),
		ProductSpecifications: NewProductSpecificationRepository(db),
		Projects:              NewProjectRepository(db),
		ContactMessages:       NewContactRepository(db),
		Settings:              NewSettingRepository(db),
		Banners:               NewBannerRepository(db),
		Menus:                 NewMenuRepository(db),
	}
}

// UnitOfWork runs a domain mutation and its activity log write in a single
// transaction.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos Repositories) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork constructs a transactional unit of work.
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(repos Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
