package service

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/models"
)

func TestActivityFeedServiceCachesResponses(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	f := newServiceFixture(t)
	admin, _ := seedActivityTrail(t, f)
	svc := NewActivityFeedService(f.repos.ActivityLogs, client, time.Minute, testLogger())
	ctx := adminContext(admin)

	first, err := svc.ListRecent(ctx, dto.ActivityFeedRequest{})
	require.NoError(t, err)
	require.False(t, first.CacheHit)
	require.Len(t, first.Items, 3)
	require.Equal(t, "admin", first.Items[1].Username)
	require.Empty(t, first.Items[0].Username)

	second, err := svc.ListRecent(ctx, dto.ActivityFeedRequest{})
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Len(t, second.Items, 3)
}

func TestActivityFeedServiceFilters(t *testing.T) {
	f := newServiceFixture(t)
	admin, _ := seedActivityTrail(t, f)
	svc := NewActivityFeedService(f.repos.ActivityLogs, nil, 0, testLogger())
	ctx := adminContext(admin)

	guests, err := svc.ListRecent(ctx, dto.ActivityFeedRequest{ActorType: "guest"})
	require.NoError(t, err)
	require.Len(t, guests.Items, 1)
	require.Equal(t, string(models.ActionView), guests.Items[0].Action)

	mine, err := svc.ListRecent(ctx, dto.ActivityFeedRequest{UserID: &admin.ID, Action: "create"})
	require.NoError(t, err)
	require.Len(t, mine.Items, 1)

	_, err = svc.ListRecent(ctx, dto.ActivityFeedRequest{Action: "erase"})
	require.ErrorIs(t, err, ErrInvalidActivityFilter)
}

func TestActivityFeedServiceExcludesOldEntries(t *testing.T) {
	f := newServiceFixture(t)
	seedActivityTrail(t, f)
	require.NoError(t, f.db.Model(&models.ActivityLog{}).Where("1 = 1").
		Update("created_at", time.Now().Add(-48*time.Hour)).Error)

	svc := NewActivityFeedService(f.repos.ActivityLogs, nil, 0, testLogger())
	resp, err := svc.ListRecent(guestContext("127.0.0.1"), dto.ActivityFeedRequest{})
	require.NoError(t, err)
	require.Empty(t, resp.Items)
}
