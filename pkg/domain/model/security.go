package model

import (
	"time"

	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
)

// IsolationViolation records a rejected cross-tenant access attempt. These
// are treated as security events: logged, counted, and optionally pushed to
// a notifier.
type IsolationViolation struct {
	BoundTenant     types.TenantID
	RequestedTenant types.TenantID
	Operation       string
	OccurredAt      time.Time
}
