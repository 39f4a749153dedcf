package site

// Status is the availability of the watched site as seen by one probe.
type Status int

const (
	StatusUnknown Status = iota
	StatusUp
	StatusDown
)

func (s Status) String() string {
	switch s {
	case StatusUp:
		return "UP"
	case StatusDown:
		return "DOWN"
	default:
		return "UNKNOWN"
	}
}

// IsUp reports whether the status is UP.
func (s Status) IsUp() bool { return s == StatusUp }
