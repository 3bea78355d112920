package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
)

// subjectKey is a composite key scoping records to (tenant, subject)
type subjectKey struct {
	tenant  types.TenantID
	subject types.SubjectID
}

type memoryEntryRepository struct {
	mu      sync.RWMutex
	entries map[subjectKey][]*model.MemoryEntry
}

func newMemoryEntryRepository() *memoryEntryRepository {
	return &memoryEntryRepository{
		entries: make(map[subjectKey][]*model.MemoryEntry),
	}
}

func copyMemoryEntry(e *model.MemoryEntry) *model.MemoryEntry {
	copied := &model.MemoryEntry{
		ID:        e.ID,
		Tenant:    e.Tenant,
		Subject:   e.Subject,
		Kind:      e.Kind,
		Key:       e.Key,
		TTLDays:   e.TTLDays,
		CreatedAt: e.CreatedAt,
	}
	if e.Value != nil {
		copied.Value = make(map[string]any, len(e.Value))
		for k, v := range e.Value {
			copied.Value[k] = v
		}
	}
	if e.Embedding != nil {
		copied.Embedding = make([]float32, len(e.Embedding))
		copy(copied.Embedding, e.Embedding)
	}
	return copied
}

func (r *memoryEntryRepository) Put(ctx context.Context, tenant types.TenantID, entry *model.MemoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyMemoryEntry(entry)
	if stored.ID == "" {
		stored.ID = model.NewMemoryEntryID()
	}
	stored.Tenant = tenant
	if stored.TTLDays == 0 {
		stored.TTLDays = model.DefaultMemoryTTLDays
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	key := subjectKey{tenant: tenant, subject: stored.Subject}
	r.entries[key] = append(r.entries[key], stored)
	return nil
}

func (r *memoryEntryRepository) List(ctx context.Context, tenant types.TenantID, subject types.SubjectID, limit int) ([]*model.MemoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := subjectKey{tenant: tenant, subject: subject}
	now := time.Now().UTC()

	result := make([]*model.MemoryEntry, 0)
	for _, e := range r.entries[key] {
		if e.Expired(now) {
			continue
		}
		result = append(result, copyMemoryEntry(e))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *memoryEntryRepository) FindByEmbedding(ctx context.Context, tenant types.TenantID, subject types.SubjectID, embedding []float32, limit int) ([]*model.MemoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := subjectKey{tenant: tenant, subject: subject}
	now := time.Now().UTC()

	type scored struct {
		entry *model.MemoryEntry
		score float64
	}

	var candidates []scored
	for _, e := range r.entries[key] {
		if e.Expired(now) || len(e.Embedding) == 0 {
			continue
		}
		s := cosineSimilarity(embedding, e.Embedding)
		candidates = append(candidates, scored{entry: copyMemoryEntry(e), score: s})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if limit > len(candidates) {
		limit = len(candidates)
	}

	result := make([]*model.MemoryEntry, limit)
	for i := 0; i < limit; i++ {
		result[i] = candidates[i].entry
	}
	return result, nil
}
