package payments

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourly/pkg/cache"
)

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings PaymentSettings
	getCalls int
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{
		settings: PaymentSettings{ID: settingsRowID, ManualPayment: true},
	}
}

func (r *fakeSettingsRepo) Get(ctx context.Context) (*PaymentSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	clone := r.settings
	return &clone, nil
}

func (r *fakeSettingsRepo) Update(ctx context.Context, updates map[string]interface{}) (*PaymentSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := updates["manual_payment"].(bool); ok {
		r.settings.ManualPayment = v
	}
	if v, ok := updates["bkash_payment"].(bool); ok {
		r.settings.BkashPayment = v
	}
	if v, ok := updates["bkash_number"].(string); ok {
		r.settings.BkashNumber = v
	}
	if v, ok := updates["instructions"].(string); ok {
		r.settings.Instructions = v
	}
	clone := r.settings
	return &clone, nil
}

// settingsCache is a minimal in-process cache.Service for these tests.
type settingsCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newSettingsCache() *settingsCache {
	return &settingsCache{entries: make(map[string][]byte)}
}

func (c *settingsCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *settingsCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
	return nil
}

func (c *settingsCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *settingsCache) DeletePattern(ctx context.Context, pattern string) error { return nil }

func (c *settingsCache) Exists(ctx context.Context, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

func (c *settingsCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
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

func (c *settingsCache) Ping(ctx context.Context) error { return nil }

func setupPaymentsTest(t *testing.T) (Service, *fakeSettingsRepo) {
	t.Helper()
	repo := newFakeSettingsRepo()
	svc := NewService(repo)
	svc.SetCacheService(newSettingsCache())
	return svc, repo
}

func TestGetSettings_DefaultsAndCaches(t *testing.T) {
	svc, repo := setupPaymentsTest(t)
	ctx := context.Background()

	settings, err := svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.True(t, settings.ManualPayment)
	assert.False(t, settings.BkashPayment)

	reads := repo.getCalls
	_, err = svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, reads, repo.getCalls, "second read must come from cache")
}

func TestUpdateSettings_TogglesMethods(t *testing.T) {
	svc, _ := setupPaymentsTest(t)
	ctx := context.Background()

	enable := true
	number := "01700000000"
	updated, err := svc.UpdateSettings(ctx, UpdatePaymentSettingsRequest{
		BkashPayment: &enable,
		BkashNumber:  &number,
	}, uuid.New())
	require.NoError(t, err)
	assert.True(t, updated.BkashPayment)
	assert.Equal(t, number, updated.BkashNumber)
	assert.True(t, updated.HasEnabledMethod())
}

func TestUpdateSettings_InvalidatesCache(t *testing.T) {
	svc, _ := setupPaymentsTest(t)
	ctx := context.Background()

	// Warm the cache, then disable manual payment.
	_, err := svc.GetSettings(ctx)
	require.NoError(t, err)

	disable := false
	enable := true
	_, err = svc.UpdateSettings(ctx, UpdatePaymentSettingsRequest{
		ManualPayment: &disable,
		BkashPayment:  &enable,
	}, uuid.New())
	require.NoError(t, err)

	fresh, err := svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.False(t, fresh.ManualPayment)
	assert.True(t, fresh.BkashPayment)
}

func TestUpdateSettings_NoFieldsReturnsCurrent(t *testing.T) {
	svc, _ := setupPaymentsTest(t)

	settings, err := svc.UpdateSettings(context.Background(), UpdatePaymentSettingsRequest{}, uuid.New())
	require.NoError(t, err)
	assert.True(t, settings.ManualPayment)
}

func TestHasEnabledMethod(t *testing.T) {
	assert.True(t, (&PaymentSettings{ManualPayment: true}).HasEnabledMethod())
	assert.True(t, (&PaymentSettings{BkashPayment: true}).HasEnabledMethod())
	assert.False(t, (&PaymentSettings{}).HasEnabledMethod())
}
