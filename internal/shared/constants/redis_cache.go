package constants

import (
	"fmt"
	"time"
)

// Redis Cache Configuration
// This file centralizes all Redis cache keys and TTL values for the Tourly application
// Pattern: tourly:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Static Data (Long TTL: rarely changes)
const (
	TTL_STATIC_LONG  = 24 * time.Hour // 24 hours - for very stable data
	TTL_STATIC_SHORT = 6 * time.Hour  // 6 hours - for admin user profiles
)

// Semi-Static Data (Medium TTL: changes occasionally)
const (
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour    // 2 hours - for tour details
	TTL_SEMI_STATIC_SHORT  = 1 * time.Hour    // 1 hour - for tour listings
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute // 15 minutes - for payment settings
)

// Dynamic Data (Short TTL: changes frequently)
const (
	TTL_DYNAMIC_MEDIUM = 10 * time.Minute // 10 minutes - for analytics
	TTL_DYNAMIC_SHORT  = 5 * time.Minute  // 5 minutes - for booking summaries
)

// Highly Dynamic (Micro TTL: real-time sensitive)
// Seat maps are never cached longer than the client poll period (5 seconds),
// otherwise reservations made by other clients would be invisible for too long.
const (
	TTL_REALTIME_SHORT    = 30 * time.Second // 30 seconds - for occupancy counts
	TTL_SEAT_MAP_SNAPSHOT = 4 * time.Second  // just under the 5s client poll
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "tourly"
)

// ================== TOURS MODULE ==================

const (
	CACHE_KEY_TOURS_LIST   = CACHE_PREFIX + ":tours:list"         // + :page:X:limit:Y:status:Z
	CACHE_KEY_TOURS_ACTIVE = CACHE_PREFIX + ":tours:active"       // active tours listing
	CACHE_KEY_TOUR_DETAIL  = CACHE_PREFIX + ":tours:detail:uuid:" // + tour-id
)

const (
	TTL_TOUR_LIST   = TTL_SEMI_STATIC_SHORT
	TTL_TOUR_DETAIL = TTL_SEMI_STATIC_MEDIUM
)

// ================== SEATS MODULE ==================

// Live reservation state lives under these prefixes; they are state keys,
// not cache keys, and must never be flushed with the cache.
const (
	SEAT_RESERVATION_PREFIX = CACHE_PREFIX + ":seats:resv"   // + :{tourID}:{busID}:{seatID} -> clientID
	SEAT_OWNER_SET_PREFIX   = CACHE_PREFIX + ":seats:owner"  // + :{tourID}:{busID}:{clientID} -> set of seatIDs
	SEAT_BOOKED_HASH_PREFIX = CACHE_PREFIX + ":seats:booked" // + :{tourID}:{busID} -> hash seatID -> clientID
)

// ================== PAYMENTS MODULE ==================

const (
	CACHE_KEY_PAYMENT_SETTINGS = CACHE_PREFIX + ":payments:settings"
	TTL_PAYMENT_SETTINGS       = TTL_SEMI_STATIC_QUICK
)

// ================== ANALYTICS MODULE ==================

const (
	CACHE_KEY_ANALYTICS_OVERVIEW  = CACHE_PREFIX + ":analytics:overview"
	CACHE_KEY_ANALYTICS_OCCUPANCY = CACHE_PREFIX + ":analytics:occupancy"
	CACHE_KEY_ANALYTICS_DAILY     = CACHE_PREFIX + ":analytics:daily"
	TTL_ANALYTICS_OVERVIEW        = TTL_DYNAMIC_MEDIUM
)

// ================== KEY BUILDERS ==================

// BuildSeatMapKey returns the cache key for a bus seat map snapshot.
func BuildSeatMapKey(tourID, busID string) string {
	return fmt.Sprintf("%s:seats:map:%s:%s", CACHE_PREFIX, tourID, busID)
}

// BuildSeatReservationKey returns the per-seat reservation key.
func BuildSeatReservationKey(tourID, busID, seatID string) string {
	return fmt.Sprintf("%s:%s:%s:%s", SEAT_RESERVATION_PREFIX, tourID, busID, seatID)
}

// BuildSeatOwnerSetKey returns the per-client reservation set key.
func BuildSeatOwnerSetKey(tourID, busID, clientID string) string {
	return fmt.Sprintf("%s:%s:%s:%s", SEAT_OWNER_SET_PREFIX, tourID, busID, clientID)
}

// BuildSeatBookedHashKey returns the hash of permanently booked seats for one bus.
func BuildSeatBookedHashKey(tourID, busID string) string {
	return fmt.Sprintf("%s:%s:%s", SEAT_BOOKED_HASH_PREFIX, tourID, busID)
}

// BuildTourDetailKey returns the cache key for a single tour.
func BuildTourDetailKey(tourID string) string {
	return CACHE_KEY_TOUR_DETAIL + tourID
}

// BuildTourListKey returns the cache key for a tour listing page.
func BuildTourListKey(page, limit int, status string) string {
	return fmt.Sprintf("%s:page:%d:limit:%d:status:%s", CACHE_KEY_TOURS_LIST, page, limit, status)
}
