package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
)

type profileRepository struct {
	mu       sync.Mutex
	profiles map[subjectKey]*model.CallerProfile
}

func newProfileRepository() *profileRepository {
	return &profileRepository{
		profiles: make(map[subjectKey]*model.CallerProfile),
	}
}

func copyProfile(p *model.CallerProfile) *model.CallerProfile {
	copied := *p
	if p.Preferences != nil {
		copied.Preferences = make(map[string]string, len(p.Preferences))
		for k, v := range p.Preferences {
			copied.Preferences[k] = v
		}
	}
	return &copied
}

func (r *profileRepository) Get(ctx context.Context, tenant types.TenantID, subject types.SubjectID) (*model.CallerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := subjectKey{tenant: tenant, subject: subject}
	p, exists := r.profiles[key]
	if !exists {
		return nil, goerr.Wrap(types.ErrNotFound, "profile not found",
			goerr.V("subject", subject))
	}
	return copyProfile(p), nil
}

func (r *profileRepository) GetOrCreate(ctx context.Context, tenant types.TenantID, subject types.SubjectID) (*model.CallerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := subjectKey{tenant: tenant, subject: subject}
	if p, exists := r.profiles[key]; exists {
		return copyProfile(p), nil
	}

	created := model.NewCallerProfile(tenant, subject, time.Now().UTC())
	r.profiles[key] = created
	return copyProfile(created), nil
}

func (r *profileRepository) RecordCall(ctx context.Context, tenant types.TenantID, subject types.SubjectID, calledAt time.Time) (*model.CallerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := subjectKey{tenant: tenant, subject: subject}
	p, exists := r.profiles[key]
	if !exists {
		p = model.NewCallerProfile(tenant, subject, calledAt)
		r.profiles[key] = p
	}

	p.TotalCalls++
	if calledAt.After(p.LastCallAt) {
		p.LastCallAt = calledAt
	}
	p.UpdatedAt = time.Now().UTC()
	return copyProfile(p), nil
}

func (r *profileRepository) Update(ctx context.Context, tenant types.TenantID, profile *model.CallerProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := subjectKey{tenant: tenant, subject: profile.Subject}
	existing, exists := r.profiles[key]
	if !exists {
		return goerr.Wrap(types.ErrNotFound, "profile not found",
			goerr.V("subject", profile.Subject))
	}

	existing.DisplayName = profile.DisplayName
	existing.Notes = profile.Notes
	existing.Preferences = make(map[string]string, len(profile.Preferences))
	for k, v := range profile.Preferences {
		existing.Preferences[k] = v
	}
	existing.UpdatedAt = time.Now().UTC()
	return nil
}
