package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/models"
)

func TestBannerServiceAuditsChanges(t *testing.T) {
	f := newServiceFixture(t)
	ctx := adminContext(f.createAdmin(t))
	svc := NewBannerService(f.repos.Banners, f.uow, f.audit, f.validator, testLogger())

	spring, err := svc.Create(ctx, dto.BannerCreateRequest{Title: "Spring range", Image: "banners/spring.jpg", OrderNo: 2})
	require.NoError(t, err)
	require.True(t, spring.IsActive)

	entry := f.lastActivity(t)
	require.Equal(t, models.ActionCreate, entry.Action)
	require.Equal(t, "banner", entry.Entity)
	require.Equal(t, "banners/spring.jpg", entry.NewValues["image"])

	_, err = svc.Create(ctx, dto.BannerCreateRequest{Title: "Archive", Image: "banners/old.jpg", IsActive: boolPtr(false)})
	require.NoError(t, err)
	showroom, err := svc.Create(ctx, dto.BannerCreateRequest{Title: "Showroom", Image: "banners/showroom.jpg"})
	require.NoError(t, err)

	active, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 2)
	require.Equal(t, showroom.ID, active[0].ID, "lower order_no comes first")

	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 3)

	_, err = svc.Update(ctx, spring.ID, dto.BannerUpdateRequest{Title: stringPtr("Summer range")})
	require.NoError(t, err)
	entry = f.lastActivity(t)
	require.Equal(t, models.ActionUpdate, entry.Action)
	require.Equal(t, []string{"title"}, entry.ChangedFields)
	require.Equal(t, "Spring range", entry.OldValues["title"])
	require.Equal(t, "Summer range", entry.NewValues["title"])

	require.NoError(t, svc.Delete(ctx, spring.ID))
	entry = f.lastActivity(t)
	require.Equal(t, models.ActionDelete, entry.Action)
	require.EqualValues(t, spring.ID, *entry.EntityID)

	require.ErrorIs(t, svc.Delete(ctx, spring.ID), ErrBannerNotFound)
	_, err = svc.Update(ctx, 404, dto.BannerUpdateRequest{Title: stringPtr("Ghost")})
	require.ErrorIs(t, err, ErrBannerNotFound)
}

func TestBannerServiceValidatesPayload(t *testing.T) {
	f := newServiceFixture(t)
	svc := NewBannerService(f.repos.Banners, f.uow, f.audit, f.validator, testLogger())

	_, err := svc.Create(adminContext(f.createAdmin(t)), dto.BannerCreateRequest{Title: "No image"})
	require.Error(t, err)
	require.Empty(t, f.activities(t))
}
