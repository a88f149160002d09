package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/models"
)

func TestSettingServiceUpsertCreatesThenDiffs(t *testing.T) {
	f := newServiceFixture(t)
	admin := f.createAdmin(t)
	svc := NewSettingService(f.repos.Settings, f.uow, f.audit, f.validator, testLogger())
	ctx := adminContext(admin)

	created, err := svc.Upsert(ctx, " Office_Hours ", dto.SettingUpsertRequest{
		Value:    json.RawMessage(`{"weekday":"08:00-17:00"}`),
		IsPublic: boolPtr(true),
	})
	require.NoError(t, err)
	require.Equal(t, "office_hours", created.Name)

	entry := f.lastActivity(t)
	require.Equal(t, models.ActionCreate, entry.Action)
	require.Equal(t, "office_hours", entry.NewValues["name"], "setting names are stored unmasked")
	require.Equal(t, map[string]interface{}{"weekday": "08:00-17:00"}, entry.NewValues["value"])

	_, err = svc.Upsert(ctx, "office_hours", dto.SettingUpsertRequest{Value: json.RawMessage(`{"weekday":"09:00-18:00"}`)})
	require.NoError(t, err)

	entry = f.lastActivity(t)
	require.Equal(t, models.ActionUpdate, entry.Action)
	require.Equal(t, []string{"value"}, entry.ChangedFields)
	require.Equal(t, map[string]interface{}{"weekday": "08:00-17:00"}, entry.OldValues["value"])

	public, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	require.JSONEq(t, `{"weekday":"09:00-18:00"}`, string(public[0].Value))
}

func TestSettingServiceRejectsInvalidInput(t *testing.T) {
	f := newServiceFixture(t)
	svc := NewSettingService(f.repos.Settings, f.uow, f.audit, f.validator, testLogger())
	ctx := adminContext(f.createAdmin(t))

	_, err := svc.Upsert(ctx, "  ", dto.SettingUpsertRequest{Value: json.RawMessage(`1`)})
	require.ErrorIs(t, err, ErrInvalidSetting)

	_, err = svc.Upsert(ctx, "banner", dto.SettingUpsertRequest{Value: json.RawMessage(`{broken`)})
	require.ErrorIs(t, err, ErrInvalidSetting)
	require.Empty(t, f.activities(t))
}
