package types

// Provenance records how an extraction result was produced, so callers and
// tests can distinguish degraded output deterministically instead of
// inferring it from field contents.
type Provenance string

const (
	// ProvenancePrimary means every field came from the text-generation
	// capability
	ProvenancePrimary Provenance = "primary"

	// ProvenancePartial means at least one field was filled from the rule
	// based fallback path
	ProvenancePartial Provenance = "partial"

	// ProvenanceFallback means the whole result came from the fallback path
	ProvenanceFallback Provenance = "fallback"
)

// IsValid checks if the provenance is valid
func (p Provenance) IsValid() bool {
	switch p {
	case ProvenancePrimary, ProvenancePartial, ProvenanceFallback:
		return true
	default:
		return false
	}
}

// String returns the string representation of the provenance
func (p Provenance) String() string {
	return string(p)
}
