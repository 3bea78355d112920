package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
)

type summaryRepository struct {
	mu        sync.RWMutex
	summaries map[subjectKey]map[types.CallID]*model.CallSummary
	// byCall tracks every stored call ID per tenant. Call IDs are unique
	// per tenant, not per subject.
	byCall map[types.TenantID]map[types.CallID]struct{}
}

func newSummaryRepository() *summaryRepository {
	return &summaryRepository{
		summaries: make(map[subjectKey]map[types.CallID]*model.CallSummary),
		byCall:    make(map[types.TenantID]map[types.CallID]struct{}),
	}
}

func copySummary(s *model.CallSummary) *model.CallSummary {
	copied := &model.CallSummary{
		ID:               s.ID,
		Tenant:           s.Tenant,
		Subject:          s.Subject,
		CallID:           s.CallID,
		OccurredAt:       s.OccurredAt,
		Summary:          s.Summary,
		Sentiment:        s.Sentiment,
		ResolutionStatus: s.ResolutionStatus,
		DurationSeconds:  s.DurationSeconds,
		CreatedAt:        s.CreatedAt,
	}
	if s.Topics != nil {
		copied.Topics = append([]string{}, s.Topics...)
	}
	if s.Variables != nil {
		copied.Variables = make(map[string]string, len(s.Variables))
		for k, v := range s.Variables {
			copied.Variables[k] = v
		}
	}
	if s.Embedding != nil {
		copied.Embedding = make([]float32, len(s.Embedding))
		copy(copied.Embedding, s.Embedding)
	}
	return copied
}

func (r *summaryRepository) Put(ctx context.Context, tenant types.TenantID, summary *model.CallSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byCall[tenant][summary.CallID]; exists {
		return goerr.Wrap(types.ErrConflict, "summary already exists for call",
			goerr.V("call_id", summary.CallID))
	}

	key := subjectKey{tenant: tenant, subject: summary.Subject}
	if _, exists := r.summaries[key]; !exists {
		r.summaries[key] = make(map[types.CallID]*model.CallSummary)
	}

	stored := copySummary(summary)
	if stored.ID == "" {
		stored.ID = model.NewCallSummaryID()
	}
	stored.Tenant = tenant
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	r.summaries[key][stored.CallID] = stored
	if _, exists := r.byCall[tenant]; !exists {
		r.byCall[tenant] = make(map[types.CallID]struct{})
	}
	r.byCall[tenant][stored.CallID] = struct{}{}
	return nil
}

func (r *summaryRepository) Get(ctx context.Context, tenant types.TenantID, subject types.SubjectID, callID types.CallID) (*model.CallSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := subjectKey{tenant: tenant, subject: subject}
	bucket, exists := r.summaries[key]
	if !exists {
		return nil, goerr.Wrap(types.ErrNotFound, "summary not found", goerr.V("call_id", callID))
	}

	s, exists := bucket[callID]
	if !exists {
		return nil, goerr.Wrap(types.ErrNotFound, "summary not found", goerr.V("call_id", callID))
	}
	return copySummary(s), nil
}

func (r *summaryRepository) ListRecent(ctx context.Context, tenant types.TenantID, subject types.SubjectID, limit int) ([]*model.CallSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := subjectKey{tenant: tenant, subject: subject}
	bucket := r.summaries[key]

	result := make([]*model.CallSummary, 0, len(bucket))
	for _, s := range bucket {
		result = append(result, copySummary(s))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].OccurredAt.After(result[j].OccurredAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *summaryRepository) FindByEmbedding(ctx context.Context, tenant types.TenantID, subject types.SubjectID, embedding []float32, limit int) ([]*model.CallSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := subjectKey{tenant: tenant, subject: subject}

	type scored struct {
		summary *model.CallSummary
		score   float64
	}

	var candidates []scored
	for _, s := range r.summaries[key] {
		if len(s.Embedding) == 0 {
			continue
		}
		candidates = append(candidates, scored{
			summary: copySummary(s),
			score:   cosineSimilarity(embedding, s.Embedding),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if limit > len(candidates) {
		limit = len(candidates)
	}

	result := make([]*model.CallSummary, limit)
	for i := 0; i < limit; i++ {
		result[i] = candidates[i].summary
	}
	return result, nil
}
