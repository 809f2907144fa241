package seats

// Fixed 40-seat coach layout: 9 rows (A-I) of 4 seats, plus 4 single
// back-row seats J, K, L, M. Every bus of every tour uses this layout.

const (
	SeatsPerBus = 40
	MaxBuses    = 5
)

var seatRows = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}

var backRowSeats = []string{"J", "K", "L", "M"}

// LastEightSeats is the distinguished trailing block of the bus. The
// next bus only unlocks when these are the only seats left (or none are).
var LastEightSeats = []string{"I1", "I2", "I3", "I4", "J", "K", "L", "M"}

// Layout returns the 40 seat labels in fixed order: A1..A4, B1..B4, ...,
// I1..I4, J, K, L, M.
func Layout() []SeatPosition {
	positions := make([]SeatPosition, 0, SeatsPerBus)
	for _, row := range seatRows {
		for num := 1; num <= 4; num++ {
			positions = append(positions, SeatPosition{
				ID:     row + string(rune('0'+num)),
				Row:    row,
				Number: num,
			})
		}
	}
	for _, id := range backRowSeats {
		positions = append(positions, SeatPosition{ID: id, Row: id, Number: 1})
	}
	return positions
}

// SeatPosition identifies one physical seat within the fixed layout.
type SeatPosition struct {
	ID     string `json:"id"`
	Row    string `json:"row"`
	Number int    `json:"number"`
}

var layoutIndex = buildLayoutIndex()

func buildLayoutIndex() map[string]SeatPosition {
	idx := make(map[string]SeatPosition, SeatsPerBus)
	for _, pos := range Layout() {
		idx[pos.ID] = pos
	}
	return idx
}

// IsValidSeatID reports whether id names a seat of the fixed layout.
func IsValidSeatID(id string) bool {
	_, ok := layoutIndex[id]
	return ok
}

// SeatIDs returns all 40 seat labels in layout order.
func SeatIDs() []string {
	ids := make([]string, 0, SeatsPerBus)
	for _, pos := range Layout() {
		ids = append(ids, pos.ID)
	}
	return ids
}
