package seats

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"tourly/internal/shared/constants"
)

// RedisStore is the production ReservationStore. Per-seat reservations
// live in SETEX keys so the server-side TTL releases abandoned claims
// on its own; a per-client set tracks which seats each identity holds
// so a replace call can release the dropped ones. All mutations go
// through Lua scripts - prevents race conditions between clients.
type RedisStore struct {
	redis *redis.Client
}

// NewRedisStore creates a Redis-backed seat reservation store.
func NewRedisStore(redisClient *redis.Client) *RedisStore {
	return &RedisStore{redis: redisClient}
}

// Lua script for the atomic all-or-nothing reservation replace.
const luaReplaceReservations = `
-- KEYS[1] = owner set key (client's current seats on this bus)
-- KEYS[2] = booked hash key (permanent claims for this bus)
-- ARGV[1] = client_id
-- ARGV[2] = ttl_seconds
-- ARGV[3] = seat key prefix (per-seat reservation keys)
-- ARGV[4..N] = requested seat_ids

local owner_key = KEYS[1]
local booked_key = KEYS[2]
local client_id = ARGV[1]
local ttl = tonumber(ARGV[2])
local seat_prefix = ARGV[3]

-- Conflict scan first: if any requested seat is taken, nothing changes.
for i = 4, #ARGV do
    local seat_id = ARGV[i]
    if redis.call("HEXISTS", booked_key, seat_id) == 1 then
        return {0, seat_id}
    end
    local holder = redis.call("GET", seat_prefix .. seat_id)
    if holder and holder ~= client_id then
        return {0, seat_id}
    end
end

-- Release seats the client dropped from its set.
local current = redis.call("SMEMBERS", owner_key)
for i = 1, #current do
    local keep = false
    for j = 4, #ARGV do
        if ARGV[j] == current[i] then
            keep = true
        end
    end
    if not keep then
        redis.call("DEL", seat_prefix .. current[i])
        redis.call("SREM", owner_key, current[i])
    end
end

-- Claim the requested set, refreshing the TTL on every seat kept.
for i = 4, #ARGV do
    local seat_id = ARGV[i]
    redis.call("SETEX", seat_prefix .. seat_id, ttl, client_id)
    redis.call("SADD", owner_key, seat_id)
end

local count = redis.call("SCARD", owner_key)
if count > 0 then
    redis.call("EXPIRE", owner_key, ttl)
else
    redis.call("DEL", owner_key)
end

return {1, count}
`

// Lua script for finalizing reserved seats into permanent bookings.
const luaMarkBooked = `
-- KEYS[1] = owner set key
-- KEYS[2] = booked hash key
-- ARGV[1] = client_id
-- ARGV[2] = seat key prefix
-- ARGV[3..N] = seat_ids

local owner_key = KEYS[1]
local booked_key = KEYS[2]
local client_id = ARGV[1]
local seat_prefix = ARGV[2]

for i = 3, #ARGV do
    local seat_id = ARGV[i]
    local booked_by = redis.call("HGET", booked_key, seat_id)
    if booked_by and booked_by ~= client_id then
        return {0, seat_id}
    end
    local holder = redis.call("GET", seat_prefix .. seat_id)
    if holder and holder ~= client_id then
        return {0, seat_id}
    end
end

for i = 3, #ARGV do
    local seat_id = ARGV[i]
    redis.call("HSET", booked_key, seat_id, client_id)
    redis.call("DEL", seat_prefix .. seat_id)
    redis.call("SREM", owner_key, seat_id)
end

return {1, #ARGV - 2}
`

func (r *RedisStore) seatKeyPrefix(tourID, busID string) string {
	return fmt.Sprintf("%s:%s:%s:", constants.SEAT_RESERVATION_PREFIX, tourID, busID)
}

func (r *RedisStore) Replace(ctx context.Context, tourID, busID, clientID string, seatIDs []string, ttl time.Duration) error {
	if r.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	keys := []string{
		constants.BuildSeatOwnerSetKey(tourID, busID, clientID),
		constants.BuildSeatBookedHashKey(tourID, busID),
	}
	args := []interface{}{
		clientID,
		strconv.Itoa(int(ttl.Seconds())),
		r.seatKeyPrefix(tourID, busID),
	}
	for _, seatID := range seatIDs {
		args = append(args, seatID)
	}

	result, err := r.eval(ctx, luaReplaceReservations, keys, args...)
	if err != nil {
		return fmt.Errorf("failed to execute atomic reservation replace: %w", err)
	}

	return parseScriptResult(result)
}

func (r *RedisStore) Reservations(ctx context.Context, tourID, busID string, seatIDs []string) (map[string]string, error) {
	if r.redis == nil {
		return nil, fmt.Errorf("redis client not available")
	}
	if len(seatIDs) == 0 {
		return map[string]string{}, nil
	}

	prefix := r.seatKeyPrefix(tourID, busID)
	keys := make([]string, len(seatIDs))
	for i, seatID := range seatIDs {
		keys[i] = prefix + seatID
	}

	values, err := r.redis.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read seat reservations: %w", err)
	}

	result := make(map[string]string)
	for i, value := range values {
		if value == nil {
			continue
		}
		if owner, ok := value.(string); ok && owner != "" {
			result[seatIDs[i]] = owner
		}
	}
	return result, nil
}

func (r *RedisStore) ReleaseClient(ctx context.Context, tourID, busID, clientID string) error {
	return r.Replace(ctx, tourID, busID, clientID, nil, time.Second)
}

func (r *RedisStore) MarkBooked(ctx context.Context, tourID, busID, clientID string, seatIDs []string) error {
	if r.redis == nil {
		return fmt.Errorf("redis client not available")
	}
	if len(seatIDs) == 0 {
		return nil
	}

	keys := []string{
		constants.BuildSeatOwnerSetKey(tourID, busID, clientID),
		constants.BuildSeatBookedHashKey(tourID, busID),
	}
	args := []interface{}{clientID, r.seatKeyPrefix(tourID, busID)}
	for _, seatID := range seatIDs {
		args = append(args, seatID)
	}

	result, err := r.eval(ctx, luaMarkBooked, keys, args...)
	if err != nil {
		return fmt.Errorf("failed to execute atomic seat booking: %w", err)
	}

	return parseScriptResult(result)
}

func (r *RedisStore) BookedSeats(ctx context.Context, tourID, busID string) (map[string]string, error) {
	if r.redis == nil {
		return nil, fmt.Errorf("redis client not available")
	}

	booked, err := r.redis.HGetAll(ctx, constants.BuildSeatBookedHashKey(tourID, busID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read booked seats: %w", err)
	}
	return booked, nil
}

// eval runs a script via EvalSha, falling back to Eval when the script
// is not loaded yet.
func (r *RedisStore) eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error) {
	result, err := r.redis.EvalSha(ctx, script, keys, args...).Result()
	if err != nil {
		result, err = r.redis.Eval(ctx, script, keys, args...).Result()
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// parseScriptResult interprets the {flag, detail} pair every seat script
// returns, mapping a zero flag to a SeatConflictError on the named seat.
func parseScriptResult(result interface{}) error {
	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return fmt.Errorf("unexpected result format from Lua script")
	}

	success, ok := resultArray[0].(int64)
	if !ok {
		return fmt.Errorf("invalid success flag in Lua script result")
	}

	if success == 0 {
		if seatID, ok := resultArray[1].(string); ok {
			return &SeatConflictError{SeatID: seatID}
		}
		return fmt.Errorf("seat operation rejected")
	}

	return nil
}

// PreloadScripts loads the seat Lua scripts into Redis for better performance
func (r *RedisStore) PreloadScripts(ctx context.Context) error {
	if r.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	if _, err := r.redis.ScriptLoad(ctx, luaReplaceReservations).Result(); err != nil {
		return fmt.Errorf("failed to load reservation replace script: %w", err)
	}
	if _, err := r.redis.ScriptLoad(ctx, luaMarkBooked).Result(); err != nil {
		return fmt.Errorf("failed to load seat booking script: %w", err)
	}

	return nil
}
