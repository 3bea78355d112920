package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
)

// MemoryEntryID is a UUID-based identifier for MemoryEntry
type MemoryEntryID string

// NewMemoryEntryID generates a new UUID v4 MemoryEntryID
func NewMemoryEntryID() MemoryEntryID {
	return MemoryEntryID(uuid.New().String())
}

// DefaultMemoryTTLDays bounds how long an ad-hoc memory entry stays visible
// to reads. Entries are never deleted by reads, only filtered.
const DefaultMemoryTTLDays = 365

// MemoryEntry is an append-only key/value fact about a subject. Superseded
// entries are not deleted; newer rows with the same key shadow older ones
// where latest-wins semantics apply.
type MemoryEntry struct {
	ID        MemoryEntryID
	Tenant    types.TenantID
	Subject   types.SubjectID
	Kind      types.MemoryKind
	Key       string
	Value     map[string]any
	Embedding []float32
	TTLDays   int
	CreatedAt time.Time
}

// Expired reports whether the entry has outlived its TTL at the given time
func (m *MemoryEntry) Expired(now time.Time) bool {
	if m.TTLDays <= 0 {
		return false
	}
	return m.CreatedAt.AddDate(0, 0, m.TTLDays).Before(now)
}
