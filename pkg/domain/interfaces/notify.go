package interfaces

import (
	"context"

	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
)

// SecurityNotifier delivers security events to an external channel
type SecurityNotifier interface {
	// NotifyIsolationViolation reports a rejected cross-tenant access
	NotifyIsolationViolation(ctx context.Context, violation *model.IsolationViolation) error
}
