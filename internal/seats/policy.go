package seats

// Bus-unlock policy: buses beyond the first become selectable only when
// the first bus is effectively full. "Effectively full" means either no
// seat is available at all, or the available set is exactly the trailing
// eight seats (I1-I4, J, K, L, M) - nothing more, nothing less.

// NextBusUnlocked decides, from the available seat IDs of bus 0, whether
// seat selection on buses 1..N is permitted. The match is exact-set:
// nine available seats of which eight are the trailing block do NOT
// unlock, and neither does a strict subset of the trailing block plus
// anything outside it.
func NextBusUnlocked(availableSeatIDs []string) bool {
	if len(availableSeatIDs) == 0 {
		return true
	}
	if len(availableSeatIDs) != len(LastEightSeats) {
		return false
	}
	available := make(map[string]bool, len(availableSeatIDs))
	for _, id := range availableSeatIDs {
		available[id] = true
	}
	// Duplicate IDs would shrink the set below eight.
	if len(available) != len(LastEightSeats) {
		return false
	}
	for _, id := range LastEightSeats {
		if !available[id] {
			return false
		}
	}
	return true
}
