package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/company-site-api/internal/models"
)

type memoryStore struct {
	records []models.ActivityLog
	err     error
}

func (m *memoryStore) Create(ctx context.Context, entry *models.ActivityLog) error {
	if m.err != nil {
		return m.err
	}
	entry.ID = uint(len(m.records) + 1)
	entry.CreatedAt = time.Now()
	m.records = append(m.records, *entry)
	return nil
}

func (m *memoryStore) Query(ctx context.Context, filter QueryFilter) ([]models.ActivityLog, error) {
	result := make([]models.ActivityLog, 0, len(m.records))
	for i := len(m.records) - 1; i >= 0; i-- {
		record := m.records[i]
		if filter.Entity != "" && record.Entity != filter.Entity {
			continue
		}
		if filter.Action != "" && record.Action != filter.Action {
			continue
		}
		result = append(result, record)
	}
	return result, nil
}

func newTestLogger() (*Logger, *memoryStore) {
	store := &memoryStore{}
	return NewLogger(store, zerolog.Nop()), store
}

func guestContext() context.Context {
	return WithRequest(context.Background(), Request{ClientIP: "1.2.3.4", UserAgent: "Mozilla/5.0"})
}

func adminContext() context.Context {
	user := &models.User{ID: 42, Username: "admin", Email: "admin@example.com", FullName: "Site Admin", IsActive: true}
	return WithRequest(context.Background(), Request{User: user, ClientIP: "10.0.0.2", UserAgent: "curl/8"})
}

func TestLogEntityChangeCreate(t *testing.T) {
	logger, store := newTestLogger()
	product := sampleProduct()

	record, err := logger.LogEntityChange(adminContext(), product, models.ActionCreate, ChangeOptions{})
	require.NoError(t, err)
	require.Len(t, store.records, 1)

	require.Equal(t, models.ActionCreate, record.Action)
	require.Equal(t, "product", record.Entity)
	require.Equal(t, "models.Product", record.ComputedEntity)
	require.NotNil(t, record.EntityID)
	require.Equal(t, uint(7), *record.EntityID)
	require.Equal(t, "7: Tile", *record.EntityName)
	require.Nil(t, record.OldValues)
	require.Equal(t, uint64(7), record.NewValues["id"])
	require.Equal(t, "Tile", record.NewValues["name"])
	require.Equal(t, "Created product: 7: Tile", record.Description)
	require.NotNil(t, record.ExtraData)
	require.Empty(t, record.ExtraData)
}

func TestLogEntityChangeUpdate(t *testing.T) {
	logger, _ := newTestLogger()
	before := sampleProduct()
	after := sampleProduct()
	after.Name = "Floor Tile"

	record, err := logger.LogEntityChange(adminContext(), after, models.ActionUpdate, ChangeOptions{OldInstance: before})
	require.NoError(t, err)

	require.Equal(t, models.ActionUpdate, record.Action)
	require.Equal(t, []string{"name"}, record.ChangedFields)
	require.Equal(t, "Tile", record.OldValues["name"])
	require.Equal(t, "Floor Tile", record.NewValues["name"])
	require.Len(t, record.OldValues, 1)
	require.Len(t, record.NewValues, 1)
	require.Equal(t, "Updated product: 7: Tile (1 fields changed)", record.Description)
}

func TestLogEntityChangeUpdateKeepsCustomDescription(t *testing.T) {
	logger, _ := newTestLogger()
	before := sampleProduct()
	after := sampleProduct()
	after.Name = "Floor Tile"

	record, err := logger.LogEntityChange(adminContext(), after, models.ActionUpdate, ChangeOptions{
		OldInstance: before,
		Description: "Renamed from catalogue import",
	})
	require.NoError(t, err)
	require.Equal(t, "Renamed from catalogue import", record.Description)
}

// A no-op update is recorded as VIEW instead of UPDATE.
func TestLogEntityChangeNoopUpdateDegradesToView(t *testing.T) {
	logger, store := newTestLogger()
	before := sampleProduct()
	after := sampleProduct()

	record, err := logger.LogEntityChange(adminContext(), after, models.ActionUpdate, ChangeOptions{OldInstance: before})
	require.NoError(t, err)
	require.Len(t, store.records, 1)

	require.Equal(t, models.ActionView, record.Action)
	require.Nil(t, record.ChangedFields)
	require.Nil(t, record.OldValues)
	require.Nil(t, record.NewValues)
	require.Contains(t, record.Description, "No changes detected")
	require.Equal(t, "No changes detected for product: 7: Tile", record.Description)
}

func TestLogEntityChangeRecordsMaskedChanges(t *testing.T) {
	logger, _ := newTestLogger()
	before := &models.User{ID: 5, Username: "jdoe", FullName: "J", Password: "old", IsActive: true}
	after := &models.User{ID: 5, Username: "jdoe", FullName: "Jane", Password: "new", IsActive: true}

	record, err := logger.LogEntityChange(adminContext(), after, models.ActionUpdate, ChangeOptions{OldInstance: before})
	require.NoError(t, err)
	require.Equal(t, []string{"full_name"}, record.ChangedFields)
	require.Equal(t, []string{"password"}, record.ExtraData[MaskedFieldsChangedKey])
	require.NotContains(t, record.NewValues, "password")
}

func TestLogEntityChangeDelete(t *testing.T) {
	logger, _ := newTestLogger()
	product := sampleProduct()

	record, err := logger.LogEntityChange(adminContext(), product, models.ActionDelete, ChangeOptions{})
	require.NoError(t, err)

	require.Equal(t, models.ActionDelete, record.Action)
	require.Nil(t, record.NewValues)
	require.Equal(t, "Tile", record.OldValues["name"])
	require.Equal(t, uint64(7), record.OldValues["id"])
	require.Equal(t, "Deleted product: 7: Tile", record.Description)
}

func TestLogEntityChangeOtherActionHasNoPayload(t *testing.T) {
	logger, _ := newTestLogger()

	record, err := logger.LogEntityChange(guestContext(), sampleProduct(), models.ActionView, ChangeOptions{})
	require.NoError(t, err)
	require.Equal(t, "Viewed product: 7: Tile", record.Description)
	require.Nil(t, record.OldValues)
	require.Nil(t, record.NewValues)

	record, err = logger.LogEntityChange(adminContext(), sampleProduct(), models.ActionExport, ChangeOptions{})
	require.NoError(t, err)
	require.Equal(t, "Export product: 7: Tile", record.Description)
}

func TestLogEntityChangeValidation(t *testing.T) {
	logger, store := newTestLogger()

	_, err := logger.LogEntityChange(adminContext(), sampleProduct(), models.Action("PUBLISH"), ChangeOptions{})
	require.ErrorIs(t, err, ErrInvalidAction)

	_, err = logger.LogEntityChange(adminContext(), sampleProduct(), models.ActionUpdate, ChangeOptions{})
	require.ErrorIs(t, err, ErrMissingOldInstance)

	_, err = logger.LogEntityChange(adminContext(), &models.Product{Name: "Unsaved"}, models.ActionCreate, ChangeOptions{})
	require.ErrorIs(t, err, ErrMissingEntityID)

	require.Empty(t, store.records)
}

func TestLogEntityChangeSerializationFailureWritesNothing(t *testing.T) {
	logger, store := newTestLogger()

	_, err := logger.LogEntityChange(adminContext(), brokenEntity{}, models.ActionCreate, ChangeOptions{})
	require.ErrorIs(t, err, ErrSerialization)
	require.Empty(t, store.records)
}

func TestLogActivityPersistenceError(t *testing.T) {
	store := &memoryStore{err: errors.New("connection refused")}
	logger := NewLogger(store, zerolog.Nop())

	_, err := logger.LogActivity(guestContext(), ActivityEntry{Action: models.ActionSubmit, Entity: "newsletter"})
	require.ErrorIs(t, err, ErrPersistence)

	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	require.EqualError(t, perr.Err, "connection refused")
}

func TestLogActivityDefaultsAndProvenance(t *testing.T) {
	logger, _ := newTestLogger()

	record, err := logger.LogActivity(guestContext(), ActivityEntry{Action: models.ActionSubmit})
	require.NoError(t, err)

	require.Equal(t, models.NoComputedEntity, record.Entity)
	require.Equal(t, models.NoComputedEntity, record.ComputedEntity)
	require.Nil(t, record.EntityID)
	require.Nil(t, record.EntityName)
	require.Equal(t, "1.2.3.4", *record.IPAddress)
	require.Equal(t, "Mozilla/5.0", record.UserAgent)
	require.NotNil(t, record.ExtraData)
}

func TestLogActivityWithoutRequestContext(t *testing.T) {
	logger, _ := newTestLogger()

	record, err := logger.LogActivity(context.Background(), ActivityEntry{Action: models.ActionLogin, Entity: "user"})
	require.NoError(t, err)
	require.Nil(t, record.IPAddress)
	require.Equal(t, "", record.UserAgent)
	require.Equal(t, models.ActorGuest, record.ActorType)
	require.Equal(t, AnonymousGuestName, record.ActorName)
}

func TestLogActivityRejectsUnknownAction(t *testing.T) {
	logger, store := newTestLogger()

	_, err := logger.LogActivity(guestContext(), ActivityEntry{Action: "create"})
	require.ErrorIs(t, err, ErrInvalidAction)
	require.Empty(t, store.records)
}

func TestActorExclusivityAcrossRecords(t *testing.T) {
	logger, store := newTestLogger()

	_, err := logger.LogEntityChange(adminContext(), sampleProduct(), models.ActionCreate, ChangeOptions{})
	require.NoError(t, err)
	_, err = logger.LogEntityChange(guestContext(), sampleProduct(), models.ActionView, ChangeOptions{})
	require.NoError(t, err)
	_, err = logger.LogActivity(guestContext(), ActivityEntry{Action: models.ActionSubmit, Guest: GuestHints{Email: "a@b.com"}})
	require.NoError(t, err)

	for _, record := range store.records {
		switch record.ActorType {
		case models.ActorUser:
			require.NotNil(t, record.UserID)
			require.Nil(t, record.ActorMetadata)
		case models.ActorGuest:
			require.Nil(t, record.UserID)
		default:
			t.Fatalf("unexpected actor type %q", record.ActorType)
		}
	}
	require.Equal(t, uint(42), *store.records[0].UserID)
	require.Equal(t, "admin@example.com", store.records[0].ActorIdentifier)
	require.Equal(t, "Site Admin", store.records[0].ActorName)
}

func TestGuestContactSubmissionIdentifiedByEmail(t *testing.T) {
	logger, _ := newTestLogger()
	message := &models.ContactMessage{ID: 11, Name: "Alice", Email: "a@b.com", Subject: "Quote", Message: "Hi"}

	record, err := logger.LogEntityChange(guestContext(), message, models.ActionCreate, ChangeOptions{
		Guest: GuestHints{Email: "a@b.com", Name: "Alice"},
	})
	require.NoError(t, err)

	require.Equal(t, models.ActorGuest, record.ActorType)
	require.Equal(t, "a@b.com", record.ActorIdentifier)
	require.Equal(t, "Alice", record.ActorName)
	require.Equal(t, "a@b.com", record.ActorMetadata["email"])
	require.Nil(t, record.UserID)
}

func TestLogActivityUsesContextGuestHints(t *testing.T) {
	logger, _ := newTestLogger()
	ctx := WithGuestHints(guestContext(), GuestHints{Locale: "id-ID", Campaign: "spring"})

	record, err := logger.LogGuestActivity(ctx, ActivityEntry{Action: models.ActionDownload, Entity: "brochure", ComputedEntity: "models.Product"})
	require.NoError(t, err)
	require.Equal(t, models.NoComputedEntity, record.ComputedEntity)
	require.Equal(t, "id-ID", record.ActorMetadata["locale"])
	require.Equal(t, "spring", record.ActorMetadata["campaign"])
	require.Equal(t, "1.2.3.4", record.ActorIdentifier)
}

func TestLogBulkOperationStatistics(t *testing.T) {
	logger, _ := newTestLogger()
	instances := []models.Auditable{
		&models.Product{ID: 1, Name: "A"},
		&models.Product{ID: 2, Name: "B"},
		&models.Product{Name: "unsaved"},
	}

	record, err := logger.LogBulkOperation(adminContext(), models.ActionUpdate, instances, BulkOptions{
		OperationName: "Deactivate products",
		SuccessCount:  45,
		ErrorCount:    5,
		ExtraData:     map[string]any{"trigger": "admin_bulk_action"},
	})
	require.NoError(t, err)

	require.Equal(t, models.ActionUpdate, record.Action)
	require.Equal(t, "product", record.Entity)
	require.Equal(t, "models.Product", record.ComputedEntity)
	require.Nil(t, record.EntityID)
	require.Equal(t, "Bulk product operation", *record.EntityName)
	require.Equal(t, "Bulk update operation: Deactivate products (45 successful, 5 failed)", record.Description)

	require.Equal(t, true, record.ExtraData["bulk_operation"])
	require.Equal(t, 50, record.ExtraData["total_processed"])
	require.Equal(t, 90.0, record.ExtraData["success_rate"])
	require.Equal(t, []uint{1, 2}, record.ExtraData["entity_ids"])
	require.Equal(t, "admin_bulk_action", record.ExtraData["trigger"])
}

func TestLogBulkOperationComputedKeysWin(t *testing.T) {
	logger, _ := newTestLogger()

	record, err := logger.LogBulkOperation(adminContext(), models.ActionDelete, []models.Auditable{&models.Product{ID: 1}}, BulkOptions{
		OperationName: "Cleanup",
		SuccessCount:  1,
		ExtraData:     map[string]any{"success_count": 999, "reason": "discontinued"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, record.ExtraData["success_count"])
	require.Equal(t, "discontinued", record.ExtraData["reason"])
}

func TestLogBulkOperationZeroTotal(t *testing.T) {
	logger, _ := newTestLogger()

	record, err := logger.LogBulkOperation(adminContext(), models.ActionDelete, []models.Auditable{&models.Product{ID: 1}}, BulkOptions{OperationName: "Noop"})
	require.NoError(t, err)
	require.Equal(t, 0.0, record.ExtraData["success_rate"])
	require.Equal(t, 0, record.ExtraData["total_processed"])
}

func TestLogBulkOperationEmptyBatch(t *testing.T) {
	logger, store := newTestLogger()

	_, err := logger.LogBulkOperation(adminContext(), models.ActionDelete, nil, BulkOptions{OperationName: "Cleanup"})
	require.ErrorIs(t, err, ErrEmptyBatch)
	require.Empty(t, store.records)
}

func TestWithStoreRebindsWrites(t *testing.T) {
	logger, original := newTestLogger()
	scoped := &memoryStore{}

	_, err := logger.WithStore(scoped).LogEntityChange(adminContext(), sampleProduct(), models.ActionCreate, ChangeOptions{})
	require.NoError(t, err)
	require.Empty(t, original.records)
	require.Len(t, scoped.records, 1)
}
