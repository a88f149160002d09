package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/company-site-api/internal/models"
)

type fakeAnalyticsRepo struct {
	activeCount int64
	entries     []models.ActivityLog
}

func (f *fakeAnalyticsRepo) CountActiveUsers(ctx context.Context) (int64, error) {
	return f.activeCount, nil
}

func (f *fakeAnalyticsRepo) ListActivitySince(ctx context.Context, since time.Time) ([]models.ActivityLog, error) {
	result := make([]models.ActivityLog, 0)
	for _, entry := range f.entries {
		if !entry.CreatedAt.Before(since) {
			result = append(result, entry)
		}
	}
	return result, nil
}

func TestAdminAnalyticsServiceCaching(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	now := time.Now()
	repo := &fakeAnalyticsRepo{
		activeCount: 3,
		entries: []models.ActivityLog{
			{ID: 1, Action: models.ActionCreate, Entity: "product", ActorType: models.ActorUser, CreatedAt: now.Add(-24 * time.Hour)},
			{ID: 2, Action: models.ActionView, Entity: "product", ActorType: models.ActorGuest, CreatedAt: now.Add(-6 * time.Hour)},
			{ID: 3, Action: models.ActionCreate, Entity: "contact_message", ActorType: models.ActorGuest, CreatedAt: now.Add(-time.Hour)},
			{
				ID: 4, Action: models.ActionDelete, Entity: "contact_message", ActorType: models.ActorUser, CreatedAt: now.Add(-time.Hour),
				ExtraData: models.NullableJSONMap{"bulk_operation": true},
			},
			{ID: 5, Action: models.ActionView, Entity: "project", ActorType: models.ActorGuest, CreatedAt: now.AddDate(0, 0, -90)},
		},
	}

	svc := NewAdminAnalyticsService(repo, client, time.Minute, testLogger())

	summary, err := svc.GetSummary(context.Background())
	require.NoError(t, err)
	require.False(t, summary.CacheHit)
	require.Equal(t, int64(3), summary.ActiveUsers)
	require.Equal(t, int64(4), summary.TotalActivities)
	require.Equal(t, int64(2), summary.ByAction["CREATE"])
	require.Equal(t, int64(0), summary.ByAction["LOGIN"])
	require.Equal(t, int64(2), summary.ByActorType["guest"])
	require.Equal(t, int64(1), summary.BulkOperations)
	require.Len(t, summary.TopEntities, 2)
	require.Equal(t, "contact_message", summary.TopEntities[0].Entity)

	var weeklyTotal int64
	for _, point := range summary.WeeklyActivity {
		weeklyTotal += point.Total
	}
	require.Equal(t, int64(4), weeklyTotal)

	repo.activeCount = 10
	cached, err := svc.GetSummary(context.Background())
	require.NoError(t, err)
	require.True(t, cached.CacheHit)
	require.Equal(t, summary.ActiveUsers, cached.ActiveUsers)
}

func TestAdminAnalyticsServiceWithoutCache(t *testing.T) {
	svc := NewAdminAnalyticsService(&fakeAnalyticsRepo{}, nil, time.Minute, testLogger())

	summary, err := svc.GetSummary(context.Background())
	require.NoError(t, err)
	require.Zero(t, summary.TotalActivities)
	require.Empty(t, summary.TopEntities)
	require.Empty(t, summary.WeeklyActivity)
}
