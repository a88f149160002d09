package service

import (
	"context"
	"errors"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/models"
)

type failingDelivery struct{}

func (f failingDelivery) Deliver(ctx context.Context, message models.ContactMessage) error {
	return errors.New("delivery error")
}

type recordingDelivery struct {
	delivered []models.ContactMessage
}

func (r *recordingDelivery) Deliver(ctx context.Context, message models.ContactMessage) error {
	r.delivered = append(r.delivered, message)
	return nil
}

func validContactRequest() dto.ContactRequest {
	return dto.ContactRequest{
		Name:    "Budi",
		Email:   "Budi@Example.com",
		Phone:   "+62 812 0000",
		Subject: "Quotation",
		Message: "Please send a quote for 200 tiles.",
	}
}

func TestContactServiceRecordsGuestCreate(t *testing.T) {
	f := newServiceFixture(t)
	delivery := &recordingDelivery{}
	svc := NewContactService(f.uow, f.audit, nil, f.validator, delivery, testLogger())

	resp, err := svc.Submit(guestContext("203.0.113.9"), validContactRequest())
	require.NoError(t, err)
	require.Equal(t, "sent", resp.Status)
	require.NotEmpty(t, resp.ReferenceID)
	require.Len(t, delivery.delivered, 1)

	entry := f.lastActivity(t)
	require.Equal(t, models.ActionCreate, entry.Action)
	require.Equal(t, "contact_message", entry.Entity)
	require.Equal(t, "models.ContactMessage", entry.ComputedEntity)
	require.Equal(t, models.ActorGuest, entry.ActorType)
	require.Equal(t, "budi@example.com", entry.ActorIdentifier)
	require.Equal(t, "Budi", entry.ActorName)
	require.Nil(t, entry.UserID)
	require.Equal(t, "203.0.113.9", *entry.IPAddress)
	require.Equal(t, "Quotation", entry.NewValues["subject"])
	require.Equal(t, resp.ReferenceID, entry.NewValues["reference_id"])
	require.Equal(t, "+62 812 0000", entry.ActorMetadata["phone"])
	require.Equal(t, "contact", entry.ExtraData["form"])
}

func TestContactServiceSanitizesMarkup(t *testing.T) {
	f := newServiceFixture(t)
	svc := NewContactService(f.uow, f.audit, nil, f.validator, &recordingDelivery{}, testLogger())

	req := validContactRequest()
	req.Message = "<script>alert(1)</script>Need 20 boxes of grout."
	_, err := svc.Submit(guestContext("203.0.113.9"), req)
	require.NoError(t, err)

	var stored models.ContactMessage
	require.NoError(t, f.db.First(&stored).Error)
	require.Equal(t, "Need 20 boxes of grout.", stored.Message)
}

func TestContactServiceDuplicate(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer redisClient.Close()

	f := newServiceFixture(t)
	svc := NewContactService(f.uow, f.audit, redisClient, f.validator, &recordingDelivery{}, testLogger())

	_, err = svc.Submit(guestContext("203.0.113.9"), validContactRequest())
	require.NoError(t, err)

	_, err = svc.Submit(guestContext("203.0.113.9"), validContactRequest())
	require.ErrorIs(t, err, ErrContactDuplicate)
	require.Len(t, f.activities(t), 1)
}

func TestContactServiceRollbackReleasesDedupeKey(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer redisClient.Close()

	f := newServiceFixture(t)
	require.NoError(t, f.db.Migrator().DropTable(&models.ActivityLog{}))
	svc := NewContactService(f.uow, f.audit, redisClient, f.validator, &recordingDelivery{}, testLogger())

	_, err = svc.Submit(guestContext("203.0.113.9"), validContactRequest())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrContactDuplicate)

	var count int64
	require.NoError(t, f.db.Model(&models.ContactMessage{}).Count(&count).Error)
	require.Zero(t, count)
	require.Empty(t, server.Keys())

	require.NoError(t, f.db.AutoMigrate(&models.ActivityLog{}))
	resp, err := svc.Submit(guestContext("203.0.113.9"), validContactRequest())
	require.NoError(t, err)
	require.Equal(t, "sent", resp.Status)
	require.Len(t, f.activities(t), 1)
	require.Len(t, server.Keys(), 1)
}

func TestContactServiceDeliveryFailure(t *testing.T) {
	f := newServiceFixture(t)
	svc := NewContactService(f.uow, f.audit, nil, f.validator, failingDelivery{}, testLogger())

	resp, err := svc.Submit(guestContext("203.0.113.9"), validContactRequest())
	require.NoError(t, err)
	require.Equal(t, "queued", resp.Status)
	require.Len(t, f.activities(t), 1)
}

func TestContactServiceSpam(t *testing.T) {
	f := newServiceFixture(t)
	svc := NewContactService(f.uow, f.audit, nil, f.validator, &recordingDelivery{}, testLogger())

	req := validContactRequest()
	req.Honeypot = "x"
	_, err := svc.Submit(guestContext("203.0.113.9"), req)
	require.ErrorIs(t, err, ErrContactSpam)
	require.Empty(t, f.activities(t))
}

func TestContactServiceValidation(t *testing.T) {
	f := newServiceFixture(t)
	svc := NewContactService(f.uow, f.audit, nil, f.validator, &recordingDelivery{}, testLogger())

	_, err := svc.Submit(guestContext("203.0.113.9"), dto.ContactRequest{Name: "B", Email: "nope"})
	require.Error(t, err)

	var count int64
	require.NoError(t, f.db.Model(&models.ContactMessage{}).Count(&count).Error)
	require.Zero(t, count)
}
