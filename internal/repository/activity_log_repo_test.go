package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/company-site-api/internal/audit"
	"github.com/noah-isme/company-site-api/internal/models"
)

func setupTestDB(t *testing.T, values ...interface{}) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(values...))
	return db
}

func allModels() []interface{} {
	return []interface{}{
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
	}
}

func ptrUint(v uint) *uint {
	return &v
}

func TestActivityLogRepositoryRoundTrip(t *testing.T) {
	db := setupTestDB(t, allModels()...)
	repo := NewActivityLogRepository(db)

	name := "7: Tile"
	entry := models.ActivityLog{
		Action:          models.ActionUpdate,
		Entity:          "product",
		ComputedEntity:  "models.Product",
		EntityID:        ptrUint(7),
		EntityName:      &name,
		OldValues:       models.NullableJSONMap{"name": "Tile"},
		NewValues:       models.NullableJSONMap{"name": "Floor Tile"},
		ChangedFields:   []string{"name"},
		Description:     "Updated product: 7: Tile (1 fields changed)",
		ActorType:       models.ActorGuest,
		ActorIdentifier: "1.2.3.4",
		ActorName:       audit.AnonymousGuestName,
		ExtraData:       models.NullableJSONMap{},
	}
	require.NoError(t, repo.Create(context.Background(), &entry))
	require.NotZero(t, entry.ID)

	items, err := repo.Query(context.Background(), audit.QueryFilter{Entity: "product", EntityID: ptrUint(7)})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, []string{"name"}, items[0].ChangedFields)
	require.Equal(t, "Floor Tile", items[0].NewValues["name"])
	require.Equal(t, "models.Product", items[0].ComputedEntity)
}

func TestActivityLogRepositoryFiltersAndOrders(t *testing.T) {
	db := setupTestDB(t, allModels()...)
	repo := NewActivityLogRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	entries := []models.ActivityLog{
		{Action: models.ActionCreate, Entity: "product", ComputedEntity: "models.Product", EntityID: ptrUint(1), ActorType: models.ActorUser, UserID: ptrUint(9), ActorIdentifier: "admin@example.com", CreatedAt: base},
		{Action: models.ActionUpdate, Entity: "product", ComputedEntity: "models.Product", EntityID: ptrUint(1), ActorType: models.ActorUser, UserID: ptrUint(9), ActorIdentifier: "admin@example.com", CreatedAt: base.Add(10 * time.Minute)},
		{Action: models.ActionCreate, Entity: "contact_message", ComputedEntity: "models.ContactMessage", EntityID: ptrUint(3), ActorType: models.ActorGuest, ActorIdentifier: "a@b.com", CreatedAt: base.Add(20 * time.Minute)},
		{Action: models.ActionDownload, Entity: "brochure", ComputedEntity: models.NoComputedEntity, ActorType: models.ActorGuest, ActorIdentifier: "1.2.3.4", CreatedAt: base.Add(-48 * time.Hour)},
	}
	for i := range entries {
		require.NoError(t, repo.Create(ctx, &entries[i]))
	}

	history, err := repo.Query(ctx, audit.QueryFilter{Entity: "product", EntityID: ptrUint(1)})
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, models.ActionUpdate, history[0].Action, "newest entry first")

	guests, total, err := repo.List(ctx, ActivityLogFilter{QueryFilter: audit.QueryFilter{ActorType: models.ActorGuest}})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, guests, 2)

	byUser, _, err := repo.List(ctx, ActivityLogFilter{QueryFilter: audit.QueryFilter{UserID: ptrUint(9), Action: models.ActionCreate}})
	require.NoError(t, err)
	require.Len(t, byUser, 1)

	recent, total, err := repo.ListRecent(ctx, ActivityLogFilter{
		QueryFilter: audit.QueryFilter{Since: time.Now().Add(-24 * time.Hour), Until: time.Now()},
		Page:        1,
		PageSize:    2,
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, recent, 2)
	require.Equal(t, "contact_message", recent[0].Entity)

	limited, err := repo.Query(ctx, audit.QueryFilter{ActorIdentifier: "admin@example.com", Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestUnitOfWorkCommitsMutationWithActivity(t *testing.T) {
	db := setupTestDB(t, allModels()...)
	uow := NewUnitOfWork(db)
	logger := audit.NewLogger(NewActivityLogRepository(db), zerolog.Nop())
	ctx := audit.WithRequest(context.Background(), audit.Request{ClientIP: "1.2.3.4"})

	product := models.Product{Name: "Tile", Slug: "tile", Price: decimal.NewFromInt(1000), IsActive: true}
	err := uow.Do(ctx, func(repos Repositories) error {
		if err := repos.Products.Create(ctx, &product); err != nil {
			return err
		}
		_, err := logger.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &product, models.ActionCreate, audit.ChangeOptions{})
		return err
	})
	require.NoError(t, err)

	var logs []models.ActivityLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	require.Equal(t, product.ID, *logs[0].EntityID)
	require.Equal(t, "1000", logs[0].NewValues["price"])
	require.Nil(t, logs[0].OldValues)

	var withoutOld int64
	require.NoError(t, db.Model(&models.ActivityLog{}).Where("old_values IS NULL").Count(&withoutOld).Error)
	require.Equal(t, int64(1), withoutOld)
}

func TestUnitOfWorkRollsBackMutationWhenActivityFails(t *testing.T) {
	db := setupTestDB(t, allModels()...)
	uow := NewUnitOfWork(db)
	logger := audit.NewLogger(NewActivityLogRepository(db), zerolog.Nop())
	ctx := context.Background()

	product := models.Product{Name: "Tile", Slug: "tile", IsActive: true}
	err := uow.Do(ctx, func(repos Repositories) error {
		if err := repos.Products.Create(ctx, &product); err != nil {
			return err
		}
		_, err := logger.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &product, models.Action("PUBLISH"), audit.ChangeOptions{})
		return err
	})
	require.True(t, errors.Is(err, audit.ErrInvalidAction))

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	require.Zero(t, count)
}
