package core

// Status is the lifecycle phase of a stored record.
type Status int

const (
	StatusOpen Status = iota
	StatusFinal
)

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusFinal:
		return "final"
	default:
		return "unknown"
	}
}

// StatusFromString maps a stored status label back to its value.
// Unknown labels map to StatusOpen.
func StatusFromString(s string) Status {
	if s == "final" {
		return StatusFinal
	}
	return StatusOpen
}
