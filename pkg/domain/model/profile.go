package model

import (
	"time"

	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
)

// CallerProfile is the single mutable per-subject record holding identity
// and contact statistics. Created lazily on first contact, updated on every
// call, never hard-deleted by normal operation.
type CallerProfile struct {
	Tenant      types.TenantID
	Subject     types.SubjectID
	DisplayName string
	Preferences map[string]string
	Notes       string
	FirstCallAt time.Time
	LastCallAt  time.Time
	TotalCalls  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCallerProfile returns a zero-value profile for a subject that has not
// called before
func NewCallerProfile(tenant types.TenantID, subject types.SubjectID, now time.Time) *CallerProfile {
	return &CallerProfile{
		Tenant:      tenant,
		Subject:     subject,
		Preferences: map[string]string{},
		FirstCallAt: now,
		TotalCalls:  0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
