package tours

type Status string

const (
	StatusDraft    Status = "draft"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// IsBookable reports whether the tour accepts new bookings.
func (s Status) IsBookable() bool {
	return s == StatusActive
}
