package types

// Trend labels the direction of a short-window score mean relative to the
// long-run mean
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// IsValid checks if the trend is valid
func (t Trend) IsValid() bool {
	switch t {
	case TrendImproving, TrendStable, TrendDeclining:
		return true
	default:
		return false
	}
}

// String returns the string representation of the trend
func (t Trend) String() string {
	return string(t)
}
