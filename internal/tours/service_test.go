package tours

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tourly/pkg/cache"
)

//  FAKES

type fakeTourRepo struct {
	mu    sync.Mutex
	tours map[uuid.UUID]*Tour
	calls map[string]int
}

func newFakeTourRepo() *fakeTourRepo {
	return &fakeTourRepo{
		tours: make(map[uuid.UUID]*Tour),
		calls: make(map[string]int),
	}
}

func (r *fakeTourRepo) Create(tour *Tour) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["Create"]++
	if tour.ID == uuid.Nil {
		tour.ID = uuid.New()
	}
	clone := *tour
	r.tours[tour.ID] = &clone
	return nil
}

func (r *fakeTourRepo) GetByID(id uuid.UUID) (*Tour, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["GetByID"]++
	tour, ok := r.tours[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *tour
	return &clone, nil
}

func (r *fakeTourRepo) Update(id uuid.UUID, updates map[string]interface{}) (*Tour, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["Update"]++
	tour, ok := r.tours[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		tour.Name = name
	}
	if status, ok := updates["status"].(string); ok {
		tour.Status = Status(status)
	}
	if busCount, ok := updates["bus_count"].(int); ok {
		tour.BusCount = busCount
	}
	clone := *tour
	return &clone, nil
}

func (r *fakeTourRepo) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["Delete"]++
	delete(r.tours, id)
	return nil
}

func (r *fakeTourRepo) GetAll(query TourListQuery) ([]Tour, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["GetAll"]++
	var out []Tour
	for _, tour := range r.tours {
		out = append(out, *tour)
	}
	return out, int64(len(out)), nil
}

func (r *fakeTourRepo) GetByStatus(status Status) ([]Tour, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["GetByStatus"]++
	var out []Tour
	for _, tour := range r.tours {
		if tour.Status == status {
			out = append(out, *tour)
		}
	}
	return out, nil
}

// memoryCache is a JSON-faithful in-process cache.Service.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

func (c *memoryCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
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

func (c *memoryCache) Ping(ctx context.Context) error { return nil }

//  SETUP

func setupTourTest(t *testing.T) (Service, *fakeTourRepo, *memoryCache) {
	t.Helper()
	repo := newFakeTourRepo()
	cacheService := newMemoryCache()
	svc := NewService(repo)
	svc.SetCacheService(cacheService)
	return svc, repo, cacheService
}

func validCreateRequest() CreateTourRequest {
	start := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	return CreateTourRequest{
		Name:                "Sajek Valley Adventure",
		Description:         "Three days in the clouds",
		FromCity:            "Dhaka",
		ToCity:              "Sajek",
		StartDate:           start,
		EndDate:             start.AddDate(0, 0, 3),
		Price:               4500,
		HasBusSeatSelection: true,
		BusCount:            2,
	}
}

//  CREATE

func TestCreateTour_StartsAsDraft(t *testing.T) {
	svc, _, _ := setupTourTest(t)

	resp, err := svc.CreateTour(context.Background(), validCreateRequest(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, resp.Status)
	assert.Equal(t, 2, resp.BusCount)
	assert.True(t, resp.HasBusSeatSelection)
}

func TestCreateTour_EndBeforeStart(t *testing.T) {
	svc, _, _ := setupTourTest(t)

	req := validCreateRequest()
	req.EndDate = req.StartDate.AddDate(0, 0, -1)

	_, err := svc.CreateTour(context.Background(), req, uuid.New())
	assert.Error(t, err)
}

func TestCreateTour_SeatlessTourForcesSingleBus(t *testing.T) {
	svc, _, _ := setupTourTest(t)

	req := validCreateRequest()
	req.HasBusSeatSelection = false
	req.BusCount = 3

	resp, err := svc.CreateTour(context.Background(), req, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.BusCount)
}

func TestCreateTour_DefaultsToOneBus(t *testing.T) {
	svc, _, _ := setupTourTest(t)

	req := validCreateRequest()
	req.BusCount = 0

	resp, err := svc.CreateTour(context.Background(), req, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.BusCount)
}

//  READ + CACHE

func TestGetTourByID_CachesDetail(t *testing.T) {
	svc, repo, _ := setupTourTest(t)
	ctx := context.Background()

	created, err := svc.CreateTour(ctx, validCreateRequest(), uuid.New())
	require.NoError(t, err)

	first, err := svc.GetTourByID(ctx, created.ID)
	require.NoError(t, err)
	reads := repo.calls["GetByID"]

	second, err := svc.GetTourByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, reads, repo.calls["GetByID"], "second read must come from cache")
}

func TestGetTourByID_NotFound(t *testing.T) {
	svc, _, _ := setupTourTest(t)

	_, err := svc.GetTourByID(context.Background(), uuid.NewString())
	assert.Error(t, err)
}

func TestGetTourByID_InvalidID(t *testing.T) {
	svc, _, _ := setupTourTest(t)

	_, err := svc.GetTourByID(context.Background(), "not-a-uuid")
	assert.Error(t, err)
}

//  UPDATE

func TestUpdateTour_InvalidatesDetailCache(t *testing.T) {
	svc, _, _ := setupTourTest(t)
	ctx := context.Background()

	created, err := svc.CreateTour(ctx, validCreateRequest(), uuid.New())
	require.NoError(t, err)

	// Warm the cache, then rename.
	_, err = svc.GetTourByID(ctx, created.ID)
	require.NoError(t, err)

	newName := "Sajek Valley Premium"
	_, err = svc.UpdateTour(ctx, created.ID, UpdateTourRequest{Name: &newName}, uuid.New())
	require.NoError(t, err)

	fresh, err := svc.GetTourByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, newName, fresh.Name)
}

func TestUpdateTour_BusCountBounds(t *testing.T) {
	svc, _, _ := setupTourTest(t)
	ctx := context.Background()

	created, err := svc.CreateTour(ctx, validCreateRequest(), uuid.New())
	require.NoError(t, err)

	tooMany := 6
	_, err = svc.UpdateTour(ctx, created.ID, UpdateTourRequest{BusCount: &tooMany}, uuid.New())
	assert.Error(t, err)

	none := 0
	_, err = svc.UpdateTour(ctx, created.ID, UpdateTourRequest{BusCount: &none}, uuid.New())
	assert.Error(t, err)
}

func TestUpdateTour_NoFieldsReturnsCurrent(t *testing.T) {
	svc, repo, _ := setupTourTest(t)
	ctx := context.Background()

	created, err := svc.CreateTour(ctx, validCreateRequest(), uuid.New())
	require.NoError(t, err)

	resp, err := svc.UpdateTour(ctx, created.ID, UpdateTourRequest{}, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, created.Name, resp.Name)
	assert.Zero(t, repo.calls["Update"])
}

//  ACTIVE LIST

func TestGetActiveTours_FiltersAndCaches(t *testing.T) {
	svc, repo, _ := setupTourTest(t)
	ctx := context.Background()

	created, err := svc.CreateTour(ctx, validCreateRequest(), uuid.New())
	require.NoError(t, err)
	_, err = svc.CreateTour(ctx, validCreateRequest(), uuid.New())
	require.NoError(t, err)

	active := string(StatusActive)
	_, err = svc.UpdateTour(ctx, created.ID, UpdateTourRequest{Status: &active}, uuid.New())
	require.NoError(t, err)

	tours, err := svc.GetActiveTours(ctx)
	require.NoError(t, err)
	require.Len(t, tours, 1)
	assert.Equal(t, created.ID, tours[0].ID)

	reads := repo.calls["GetByStatus"]
	_, err = svc.GetActiveTours(ctx)
	require.NoError(t, err)
	assert.Equal(t, reads, repo.calls["GetByStatus"], "second read must come from cache")
}

//  SEAT/BOOKING INTEGRATION

func TestGetTourInfo_MapsFields(t *testing.T) {
	svc, _, _ := setupTourTest(t)
	ctx := context.Background()

	created, err := svc.CreateTour(ctx, validCreateRequest(), uuid.New())
	require.NoError(t, err)

	info, err := svc.GetTourInfo(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, info.ID)
	assert.Equal(t, "Sajek Valley Adventure", info.Name)
	assert.Equal(t, "draft", info.Status)
	assert.Equal(t, float64(4500), info.Price)
	assert.Equal(t, 2, info.BusCount)
	assert.True(t, info.HasSeatSelection)
}
