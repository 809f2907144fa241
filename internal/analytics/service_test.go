package analytics

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourly/pkg/cache"
)

type fakeAnalyticsRepo struct {
	mu    sync.Mutex
	calls map[string]int
	days  int
}

func newFakeAnalyticsRepo() *fakeAnalyticsRepo {
	return &fakeAnalyticsRepo{calls: make(map[string]int)}
}

func (r *fakeAnalyticsRepo) GetOverview() (*OverviewAnalytics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["GetOverview"]++
	return &OverviewAnalytics{
		TotalTours:  4,
		ActiveTours: 2,
		BookingsByStatus: map[string]int64{
			"pending":  3,
			"approved": 7,
		},
		TotalBookings:   10,
		ApprovedRevenue: 63000,
		PendingRevenue:  13500,
		SeatsBooked:     14,
	}, nil
}

func (r *fakeAnalyticsRepo) GetTourOccupancy() ([]TourOccupancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["GetTourOccupancy"]++
	return []TourOccupancy{
		{TourID: "t1", TourName: "Sajek Valley", BusCount: 2, TotalSeats: 80, BookedSeats: 14, OccupancyRate: 17.5},
	}, nil
}

func (r *fakeAnalyticsRepo) GetDailyBookingStats(days int) ([]DailyBookingStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["GetDailyBookingStats"]++
	r.days = days
	return []DailyBookingStats{
		{Date: "2026-03-01", Bookings: 5, Revenue: 22500},
	}, nil
}

// analyticsCache is an in-process cache.Service for these tests.
type analyticsCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newAnalyticsCache() *analyticsCache {
	return &analyticsCache{entries: make(map[string][]byte)}
}

func (c *analyticsCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *analyticsCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
	return nil
}

func (c *analyticsCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *analyticsCache) DeletePattern(ctx context.Context, pattern string) error { return nil }

func (c *analyticsCache) Exists(ctx context.Context, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

func (c *analyticsCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	}
	data, err := fetcher()
	if err != nil {
		return err
	}
	if err := c.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	return c.Get(ctx, key, dest)
}

func (c *analyticsCache) Ping(ctx context.Context) error { return nil }

func setupAnalyticsTest(t *testing.T) (Service, *fakeAnalyticsRepo) {
	t.Helper()
	repo := newFakeAnalyticsRepo()
	svc := NewService(repo)
	svc.SetCacheService(newAnalyticsCache())
	return svc, repo
}

func TestGetOverview_AggregatesAndCaches(t *testing.T) {
	svc, repo := setupAnalyticsTest(t)

	overview, err := svc.GetOverview()
	require.NoError(t, err)
	assert.Equal(t, 4, overview.TotalTours)
	assert.Equal(t, int64(10), overview.TotalBookings)
	assert.Equal(t, int64(3), overview.BookingsByStatus["pending"])
	assert.Equal(t, float64(63000), overview.ApprovedRevenue)

	_, err = svc.GetOverview()
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls["GetOverview"], "second read must come from cache")
}

func TestGetTourOccupancy_Caches(t *testing.T) {
	svc, repo := setupAnalyticsTest(t)

	occupancy, err := svc.GetTourOccupancy()
	require.NoError(t, err)
	require.Len(t, occupancy, 1)
	assert.Equal(t, 80, occupancy[0].TotalSeats)
	assert.InDelta(t, 17.5, occupancy[0].OccupancyRate, 0.001)

	_, err = svc.GetTourOccupancy()
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls["GetTourOccupancy"])
}

func TestGetDailyBookingStats_OnlyDefaultWindowCached(t *testing.T) {
	svc, repo := setupAnalyticsTest(t)

	_, err := svc.GetDailyBookingStats(30)
	require.NoError(t, err)
	_, err = svc.GetDailyBookingStats(30)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls["GetDailyBookingStats"], "default window served from cache")

	_, err = svc.GetDailyBookingStats(7)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls["GetDailyBookingStats"], "custom windows always hit the database")
	assert.Equal(t, 7, repo.days)
}

func TestGetDailyBookingStats_DefaultsToThirtyDays(t *testing.T) {
	svc, repo := setupAnalyticsTest(t)

	_, err := svc.GetDailyBookingStats(0)
	require.NoError(t, err)
	assert.Equal(t, 30, repo.days)
}
