package interfaces

import (
	"context"
	"time"

	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
)

// ProfileRepository defines the interface for CallerProfile data persistence
type ProfileRepository interface {
	// Get retrieves the profile for a subject, or types.ErrNotFound
	Get(ctx context.Context, tenant types.TenantID, subject types.SubjectID) (*model.CallerProfile, error)

	// GetOrCreate retrieves the profile, creating a zero-value one if the
	// subject has never called
	GetOrCreate(ctx context.Context, tenant types.TenantID, subject types.SubjectID) (*model.CallerProfile, error)

	// RecordCall atomically increments TotalCalls and advances LastCallAt,
	// creating the profile if absent. Concurrent calls must each count.
	RecordCall(ctx context.Context, tenant types.TenantID, subject types.SubjectID, calledAt time.Time) (*model.CallerProfile, error)

	// Update replaces mutable profile fields (DisplayName, Preferences,
	// Notes) and bumps UpdatedAt
	Update(ctx context.Context, tenant types.TenantID, profile *model.CallerProfile) error
}
