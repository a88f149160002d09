package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/models"
)

func uintPtr(v uint) *uint {
	return &v
}

func TestMenuServiceItemsRecordParentAndMenu(t *testing.T) {
	f := newServiceFixture(t)
	ctx := adminContext(f.createAdmin(t))
	svc := NewMenuService(f.repos.Menus, f.uow, f.audit, f.validator, testLogger())

	menu, err := svc.Create(ctx, dto.MenuCreateRequest{Name: "Main"})
	require.NoError(t, err)
	require.Equal(t, "header", menu.Position)

	products, err := svc.CreateItem(ctx, menu.ID, dto.MenuItemRequest{Label: "Products", Link: "/products"})
	require.NoError(t, err)
	require.Equal(t, "en", products.Lang)

	tiles, err := svc.CreateItem(ctx, menu.ID, dto.MenuItemRequest{ParentID: uintPtr(products.ID), Label: "Tiles", Link: "/products/tiles", OrderNo: 1})
	require.NoError(t, err)
	require.Equal(t, products.ID, *tiles.ParentID)

	entry := f.lastActivity(t)
	require.Equal(t, models.ActionCreate, entry.Action)
	require.Equal(t, "menu_item", entry.Entity)
	require.Equal(t, map[string]interface{}{
		"id":      float64(products.ID),
		"display": fmt.Sprintf("%d: Products", products.ID),
	}, entry.NewValues["parent"])
	require.Equal(t, map[string]interface{}{
		"id":      float64(menu.ID),
		"display": fmt.Sprintf("%d: Main", menu.ID),
	}, entry.NewValues["menu"])

	header, err := svc.List(ctx, "header")
	require.NoError(t, err)
	require.Len(t, header, 1)
	require.Len(t, header[0].Items, 2)

	footer, err := svc.List(ctx, "footer")
	require.NoError(t, err)
	require.Empty(t, footer)

	_, err = svc.UpdateItem(ctx, menu.ID, tiles.ID, dto.MenuItemUpdateRequest{Label: stringPtr("Floor tiles")})
	require.NoError(t, err)
	entry = f.lastActivity(t)
	require.Equal(t, []string{"label"}, entry.ChangedFields)

	require.NoError(t, svc.DeleteItem(ctx, menu.ID, tiles.ID))
	require.Equal(t, models.ActionDelete, f.lastActivity(t).Action)
	require.ErrorIs(t, svc.DeleteItem(ctx, menu.ID, tiles.ID), ErrMenuItemNotFound)
}

func TestMenuServiceRejectsInvalidParents(t *testing.T) {
	f := newServiceFixture(t)
	ctx := adminContext(f.createAdmin(t))
	svc := NewMenuService(f.repos.Menus, f.uow, f.audit, f.validator, testLogger())

	primary, err := svc.Create(ctx, dto.MenuCreateRequest{Name: "Main"})
	require.NoError(t, err)
	footer, err := svc.Create(ctx, dto.MenuCreateRequest{Name: "Legal", Position: "footer"})
	require.NoError(t, err)

	privacy, err := svc.CreateItem(ctx, footer.ID, dto.MenuItemRequest{Label: "Privacy", Link: "/privacy"})
	require.NoError(t, err)
	home, err := svc.CreateItem(ctx, primary.ID, dto.MenuItemRequest{Label: "Home", Link: "/"})
	require.NoError(t, err)
	before := len(f.activities(t))

	_, err = svc.CreateItem(ctx, primary.ID, dto.MenuItemRequest{ParentID: uintPtr(privacy.ID), Label: "About", Link: "/about"})
	require.ErrorIs(t, err, ErrInvalidMenuParent)

	_, err = svc.UpdateItem(ctx, primary.ID, home.ID, dto.MenuItemUpdateRequest{ParentID: uintPtr(home.ID)})
	require.ErrorIs(t, err, ErrInvalidMenuParent)

	_, err = svc.List(ctx, "navbar")
	require.ErrorIs(t, err, ErrInvalidMenuPosition)

	_, err = svc.CreateItem(ctx, 404, dto.MenuItemRequest{Label: "Lost", Link: "/lost"})
	require.ErrorIs(t, err, ErrMenuNotFound)

	require.Len(t, f.activities(t), before)
}
