package types

import "fmt"

// ResolutionStatus represents whether the issue discussed in a call was
// resolved by the end of the call
type ResolutionStatus string

const (
	ResolutionResolved  ResolutionStatus = "resolved"
	ResolutionPending   ResolutionStatus = "pending"
	ResolutionEscalated ResolutionStatus = "escalated"
	ResolutionUnknown   ResolutionStatus = "unknown"
)

// AllResolutionStatuses returns all valid resolution statuses
func AllResolutionStatuses() []ResolutionStatus {
	return []ResolutionStatus{
		ResolutionResolved,
		ResolutionPending,
		ResolutionEscalated,
		ResolutionUnknown,
	}
}

// IsValid checks if the resolution status is valid
func (r ResolutionStatus) IsValid() bool {
	switch r {
	case ResolutionResolved,
		ResolutionPending,
		ResolutionEscalated,
		ResolutionUnknown:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty or unknown values as
// ResolutionUnknown
func (r ResolutionStatus) Normalize() ResolutionStatus {
	if !r.IsValid() {
		return ResolutionUnknown
	}
	return r
}

// String returns the string representation of the resolution status
func (r ResolutionStatus) String() string {
	return string(r)
}

// ParseResolutionStatus parses a string into a ResolutionStatus
func ParseResolutionStatus(s string) (ResolutionStatus, error) {
	v := ResolutionStatus(s)
	if !v.IsValid() {
		return "", fmt.Errorf("invalid resolution status: %s", s)
	}
	return v, nil
}
