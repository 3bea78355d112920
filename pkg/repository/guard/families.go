package guard

import (
	"context"
	"time"

	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
)

type guardedMemory struct {
	guard *Guard
}

func (r *guardedMemory) Put(ctx context.Context, tenant types.TenantID, entry *model.MemoryEntry) error {
	if err := r.guard.check(ctx, tenant, "memory.put"); err != nil {
		return err
	}
	return r.guard.inner.Memory().Put(ctx, tenant, entry)
}

func (r *guardedMemory) List(ctx context.Context, tenant types.TenantID, subject types.SubjectID, limit int) ([]*model.MemoryEntry, error) {
	if err := r.guard.check(ctx, tenant, "memory.list"); err != nil {
		return nil, err
	}
	return r.guard.inner.Memory().List(ctx, tenant, subject, limit)
}

func (r *guardedMemory) FindByEmbedding(ctx context.Context, tenant types.TenantID, subject types.SubjectID, embedding []float32, limit int) ([]*model.MemoryEntry, error) {
	if err := r.guard.check(ctx, tenant, "memory.find_by_embedding"); err != nil {
		return nil, err
	}
	return r.guard.inner.Memory().FindByEmbedding(ctx, tenant, subject, embedding, limit)
}

type guardedSummary struct {
	guard *Guard
}

func (r *guardedSummary) Put(ctx context.Context, tenant types.TenantID, summary *model.CallSummary) error {
	if err := r.guard.check(ctx, tenant, "summary.put"); err != nil {
		return err
	}
	return r.guard.inner.Summary().Put(ctx, tenant, summary)
}

func (r *guardedSummary) Get(ctx context.Context, tenant types.TenantID, subject types.SubjectID, callID types.CallID) (*model.CallSummary, error) {
	if err := r.guard.check(ctx, tenant, "summary.get"); err != nil {
		return nil, err
	}
	return r.guard.inner.Summary().Get(ctx, tenant, subject, callID)
}

func (r *guardedSummary) ListRecent(ctx context.Context, tenant types.TenantID, subject types.SubjectID, limit int) ([]*model.CallSummary, error) {
	if err := r.guard.check(ctx, tenant, "summary.list_recent"); err != nil {
		return nil, err
	}
	return r.guard.inner.Summary().ListRecent(ctx, tenant, subject, limit)
}

func (r *guardedSummary) FindByEmbedding(ctx context.Context, tenant types.TenantID, subject types.SubjectID, embedding []float32, limit int) ([]*model.CallSummary, error) {
	if err := r.guard.check(ctx, tenant, "summary.find_by_embedding"); err != nil {
		return nil, err
	}
	return r.guard.inner.Summary().FindByEmbedding(ctx, tenant, subject, embedding, limit)
}

type guardedPersonality struct {
	guard *Guard
}

func (r *guardedPersonality) PutSnapshot(ctx context.Context, tenant types.TenantID, snapshot *model.PersonalitySnapshot) error {
	if err := r.guard.check(ctx, tenant, "personality.put_snapshot"); err != nil {
		return err
	}
	return r.guard.inner.Personality().PutSnapshot(ctx, tenant, snapshot)
}

func (r *guardedPersonality) ListSnapshots(ctx context.Context, tenant types.TenantID, subject types.SubjectID) ([]*model.PersonalitySnapshot, error) {
	if err := r.guard.check(ctx, tenant, "personality.list_snapshots"); err != nil {
		return nil, err
	}
	return r.guard.inner.Personality().ListSnapshots(ctx, tenant, subject)
}

func (r *guardedPersonality) GetAggregate(ctx context.Context, tenant types.TenantID, subject types.SubjectID) (*model.PersonalityAggregate, error) {
	if err := r.guard.check(ctx, tenant, "personality.get_aggregate"); err != nil {
		return nil, err
	}
	return r.guard.inner.Personality().GetAggregate(ctx, tenant, subject)
}

func (r *guardedPersonality) PutAggregate(ctx context.Context, tenant types.TenantID, aggregate *model.PersonalityAggregate) error {
	if err := r.guard.check(ctx, tenant, "personality.put_aggregate"); err != nil {
		return err
	}
	return r.guard.inner.Personality().PutAggregate(ctx, tenant, aggregate)
}

type guardedProfile struct {
	guard *Guard
}

func (r *guardedProfile) Get(ctx context.Context, tenant types.TenantID, subject types.SubjectID) (*model.CallerProfile, error) {
	if err := r.guard.check(ctx, tenant, "profile.get"); err != nil {
		return nil, err
	}
	return r.guard.inner.Profile().Get(ctx, tenant, subject)
}

func (r *guardedProfile) GetOrCreate(ctx context.Context, tenant types.TenantID, subject types.SubjectID) (*model.CallerProfile, error) {
	if err := r.guard.check(ctx, tenant, "profile.get_or_create"); err != nil {
		return nil, err
	}
	return r.guard.inner.Profile().GetOrCreate(ctx, tenant, subject)
}

func (r *guardedProfile) RecordCall(ctx context.Context, tenant types.TenantID, subject types.SubjectID, calledAt time.Time) (*model.CallerProfile, error) {
	if err := r.guard.check(ctx, tenant, "profile.record_call"); err != nil {
		return nil, err
	}
	return r.guard.inner.Profile().RecordCall(ctx, tenant, subject, calledAt)
}

func (r *guardedProfile) Update(ctx context.Context, tenant types.TenantID, profile *model.CallerProfile) error {
	if err := r.guard.check(ctx, tenant, "profile.update"); err != nil {
		return err
	}
	return r.guard.inner.Profile().Update(ctx, tenant, profile)
}
