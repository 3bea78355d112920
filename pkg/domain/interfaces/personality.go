package interfaces

import (
	"context"

	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
)

// PersonalityRepository defines the interface for personality snapshot and
// aggregate persistence
type PersonalityRepository interface {
	// PutSnapshot stores a new immutable per-call measurement. Scores are
	// validated by the caller; out-of-range snapshots must not reach storage.
	PutSnapshot(ctx context.Context, tenant types.TenantID, snapshot *model.PersonalitySnapshot) error

	// ListSnapshots retrieves all snapshots for a subject ordered by
	// MeasuredAt descending
	ListSnapshots(ctx context.Context, tenant types.TenantID, subject types.SubjectID) ([]*model.PersonalitySnapshot, error)

	// GetAggregate retrieves the running aggregate for a subject, or
	// types.ErrNotFound when no calls have been analyzed yet
	GetAggregate(ctx context.Context, tenant types.TenantID, subject types.SubjectID) (*model.PersonalityAggregate, error)

	// PutAggregate upserts the recomputed aggregate for a subject
	PutAggregate(ctx context.Context, tenant types.TenantID, aggregate *model.PersonalityAggregate) error
}
