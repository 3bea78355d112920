package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
)

type personalityRepository struct {
	mu         sync.RWMutex
	snapshots  map[subjectKey][]*model.PersonalitySnapshot
	aggregates map[subjectKey]*model.PersonalityAggregate
}

func newPersonalityRepository() *personalityRepository {
	return &personalityRepository{
		snapshots:  make(map[subjectKey][]*model.PersonalitySnapshot),
		aggregates: make(map[subjectKey]*model.PersonalityAggregate),
	}
}

func copySnapshot(s *model.PersonalitySnapshot) *model.PersonalitySnapshot {
	copied := *s
	return &copied
}

func copyAggregate(a *model.PersonalityAggregate) *model.PersonalityAggregate {
	copied := *a
	return &copied
}

func (r *personalityRepository) PutSnapshot(ctx context.Context, tenant types.TenantID, snapshot *model.PersonalitySnapshot) error {
	if err := snapshot.Validate(); err != nil {
		return goerr.Wrap(err, "rejecting personality snapshot",
			goerr.V("subject", snapshot.Subject), goerr.V("call_id", snapshot.CallID))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copySnapshot(snapshot)
	if stored.ID == "" {
		stored.ID = model.NewPersonalitySnapshotID()
	}
	stored.Tenant = tenant

	key := subjectKey{tenant: tenant, subject: stored.Subject}
	r.snapshots[key] = append(r.snapshots[key], stored)
	return nil
}

func (r *personalityRepository) ListSnapshots(ctx context.Context, tenant types.TenantID, subject types.SubjectID) ([]*model.PersonalitySnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := subjectKey{tenant: tenant, subject: subject}

	result := make([]*model.PersonalitySnapshot, 0, len(r.snapshots[key]))
	for _, s := range r.snapshots[key] {
		result = append(result, copySnapshot(s))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].MeasuredAt.After(result[j].MeasuredAt)
	})
	return result, nil
}

func (r *personalityRepository) GetAggregate(ctx context.Context, tenant types.TenantID, subject types.SubjectID) (*model.PersonalityAggregate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := subjectKey{tenant: tenant, subject: subject}
	agg, exists := r.aggregates[key]
	if !exists {
		return nil, goerr.Wrap(types.ErrNotFound, "aggregate not found",
			goerr.V("subject", subject))
	}
	return copyAggregate(agg), nil
}

func (r *personalityRepository) PutAggregate(ctx context.Context, tenant types.TenantID, aggregate *model.PersonalityAggregate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyAggregate(aggregate)
	stored.Tenant = tenant

	key := subjectKey{tenant: tenant, subject: stored.Subject}
	r.aggregates[key] = stored
	return nil
}
