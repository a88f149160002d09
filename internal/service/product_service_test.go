package service

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/models"
)

func newTestProductService(f serviceFixture) ProductService {
	return NewProductService(f.repos.Products, f.uow, f.audit, f.validator, testLogger())
}

func TestProductServiceCreateRecordsSnapshot(t *testing.T) {
	f := newServiceFixture(t)
	admin := f.createAdmin(t)
	svc := newTestProductService(f)

	resp, err := svc.Create(adminContext(admin), dto.ProductCreateRequest{
		Name:        "Granite Tile",
		Description: "<b>Polished</b><script>x()</script>",
		Price:       decimal.RequireFromString("125000.50"),
	})
	require.NoError(t, err)
	require.Contains(t, resp.Slug, "granite-tile-")
	require.True(t, resp.IsActive)

	entry := f.lastActivity(t)
	require.Equal(t, models.ActionCreate, entry.Action)
	require.Equal(t, resp.ID, *entry.EntityID)
	require.Equal(t, "125000.5", entry.NewValues["price"])
	require.Equal(t, "<b>Polished</b>", entry.NewValues["description"])
	require.Equal(t, "Created product: "+fmt.Sprintf("%d: Granite Tile", resp.ID), entry.Description)
	require.Equal(t, "admin@example.com", entry.ActorIdentifier)
}

func TestProductServiceRejectsNegativePrice(t *testing.T) {
	f := newServiceFixture(t)
	svc := newTestProductService(f)

	_, err := svc.Create(adminContext(f.createAdmin(t)), dto.ProductCreateRequest{Name: "Broken", Price: decimal.NewFromInt(-1)})
	require.ErrorIs(t, err, ErrInvalidPrice)
	require.Empty(t, f.activities(t))
}

func TestProductServiceUpdateRecordsChangedFieldsOnly(t *testing.T) {
	f := newServiceFixture(t)
	admin := f.createAdmin(t)
	svc := newTestProductService(f)
	ctx := adminContext(admin)

	created, err := svc.Create(ctx, dto.ProductCreateRequest{Name: "Tile", Slug: "tile", Price: decimal.NewFromInt(1000)})
	require.NoError(t, err)

	price := decimal.NewFromInt(1200)
	updated, err := svc.Update(ctx, created.ID, dto.ProductUpdateRequest{Name: stringPtr("Floor Tile"), Price: &price})
	require.NoError(t, err)
	require.Equal(t, "Floor Tile", updated.Name)

	entry := f.lastActivity(t)
	require.Equal(t, models.ActionUpdate, entry.Action)
	require.Equal(t, []string{"name", "price"}, entry.ChangedFields)
	require.Equal(t, map[string]interface{}{"name": "Tile", "price": "1000"}, map[string]interface{}(entry.OldValues))
	require.Equal(t, map[string]interface{}{"name": "Floor Tile", "price": "1200"}, map[string]interface{}(entry.NewValues))
	require.Equal(t, "Updated product: "+fmt.Sprintf("%d: Tile", created.ID)+" (2 fields changed)", entry.Description)

	_, err = svc.Update(ctx, created.ID, dto.ProductUpdateRequest{Name: stringPtr("Floor Tile")})
	require.NoError(t, err)
	require.Equal(t, models.ActionView, f.lastActivity(t).Action)
}

func TestProductServiceDeleteAndMissing(t *testing.T) {
	f := newServiceFixture(t)
	admin := f.createAdmin(t)
	svc := newTestProductService(f)
	ctx := adminContext(admin)

	created, err := svc.Create(ctx, dto.ProductCreateRequest{Name: "Tile", Slug: "tile"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, created.ID))

	entry := f.lastActivity(t)
	require.Equal(t, models.ActionDelete, entry.Action)
	require.Equal(t, "tile", entry.OldValues["slug"])

	require.ErrorIs(t, svc.Delete(ctx, created.ID), ErrProductNotFound)
	_, err = svc.Update(ctx, created.ID, dto.ProductUpdateRequest{})
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductServiceSetActiveBulk(t *testing.T) {
	f := newServiceFixture(t)
	admin := f.createAdmin(t)
	svc := newTestProductService(f)
	ctx := adminContext(admin)

	first, err := svc.Create(ctx, dto.ProductCreateRequest{Name: "A", Slug: "a"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, dto.ProductCreateRequest{Name: "B", Slug: "b"})
	require.NoError(t, err)

	result, err := svc.SetActive(ctx, dto.BulkActiveRequest{IDs: []uint{first.ID, second.ID}, IsActive: boolPtr(false)})
	require.NoError(t, err)
	require.Len(t, result.Succeeded, 2)
	require.Empty(t, result.Failed)

	entry := f.lastActivity(t)
	require.Equal(t, models.ActionUpdate, entry.Action)
	require.Equal(t, "Bulk update operation: deactivate_products (2 successful, 0 failed)", entry.Description)
	require.EqualValues(t, 100, entry.ExtraData["success_rate"])
	require.Equal(t, false, entry.ExtraData["is_active"])

	list, err := svc.List(ctx, dto.ProductListRequest{ActiveOnly: true})
	require.NoError(t, err)
	require.Empty(t, list.Items)
}

func TestProductServiceGetBySlugRecordsGuestView(t *testing.T) {
	f := newServiceFixture(t)
	svc := newTestProductService(f)

	created, err := svc.Create(adminContext(f.createAdmin(t)), dto.ProductCreateRequest{Name: "Tile", Slug: "tile"})
	require.NoError(t, err)

	resp, err := svc.GetBySlug(guestContext("198.51.100.7"), "tile")
	require.NoError(t, err)
	require.Equal(t, created.ID, resp.ID)

	entry := f.lastActivity(t)
	require.Equal(t, models.ActionView, entry.Action)
	require.Equal(t, models.ActorGuest, entry.ActorType)
	require.Equal(t, "198.51.100.7", entry.ActorIdentifier)
	require.Equal(t, "tile", entry.ExtraData["slug"])

	_, err = svc.GetBySlug(guestContext("198.51.100.7"), "missing")
	require.ErrorIs(t, err, ErrProductNotFound)
}
