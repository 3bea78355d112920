package types

import "fmt"

// MemoryKind categorizes an ad-hoc memory entry
type MemoryKind string

const (
	MemoryKindPerson     MemoryKind = "person"
	MemoryKindPreference MemoryKind = "preference"
	MemoryKindProject    MemoryKind = "project"
	MemoryKindRule       MemoryKind = "rule"
	MemoryKindMoment     MemoryKind = "moment"
	MemoryKindFact       MemoryKind = "fact"
)

// AllMemoryKinds returns all valid memory kinds
func AllMemoryKinds() []MemoryKind {
	return []MemoryKind{
		MemoryKindPerson,
		MemoryKindPreference,
		MemoryKindProject,
		MemoryKindRule,
		MemoryKindMoment,
		MemoryKindFact,
	}
}

// IsValid checks if the memory kind is valid
func (k MemoryKind) IsValid() bool {
	switch k {
	case MemoryKindPerson,
		MemoryKindPreference,
		MemoryKindProject,
		MemoryKindRule,
		MemoryKindMoment,
		MemoryKindFact:
		return true
	default:
		return false
	}
}

// String returns the string representation of the memory kind
func (k MemoryKind) String() string {
	return string(k)
}

// ParseMemoryKind parses a string into a MemoryKind
func ParseMemoryKind(s string) (MemoryKind, error) {
	k := MemoryKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid memory kind: %s", s)
	}
	return k, nil
}
