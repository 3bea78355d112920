// Package guard wraps a repository so that every operation verifies the
// tenant argument against the tenant bound to the request context. The
// usecase layer is constructed only with the guarded repository; no code
// path reaches the raw store.
package guard

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model/auth"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
	"github.com/voiceops-lab/mnemosyne/pkg/utils/async"
	"github.com/voiceops-lab/mnemosyne/pkg/utils/logging"
)

// Guard is the tenant isolation enforcer
type Guard struct {
	inner    interfaces.Repository
	notifier interfaces.SecurityNotifier

	memories    *guardedMemory
	summaries   *guardedSummary
	personality *guardedPersonality
	profiles    *guardedProfile
}

var _ interfaces.Repository = &Guard{}

type Option func(*Guard)

// WithNotifier routes isolation violations to a security notifier
func WithNotifier(notifier interfaces.SecurityNotifier) Option {
	return func(g *Guard) {
		g.notifier = notifier
	}
}

func New(inner interfaces.Repository, opts ...Option) *Guard {
	g := &Guard{inner: inner}
	for _, opt := range opts {
		opt(g)
	}
	g.memories = &guardedMemory{guard: g}
	g.summaries = &guardedSummary{guard: g}
	g.personality = &guardedPersonality{guard: g}
	g.profiles = &guardedProfile{guard: g}
	return g
}

func (g *Guard) Memory() interfaces.MemoryRepository {
	return g.memories
}

func (g *Guard) Summary() interfaces.SummaryRepository {
	return g.summaries
}

func (g *Guard) Personality() interfaces.PersonalityRepository {
	return g.personality
}

func (g *Guard) Profile() interfaces.ProfileRepository {
	return g.profiles
}

func (g *Guard) Close() error {
	return g.inner.Close()
}

// check denies any call whose tenant argument differs from the tenant bound
// to the context. A context with no binding is denied, never defaulted.
func (g *Guard) check(ctx context.Context, tenant types.TenantID, operation string) error {
	access := auth.AccessFromContext(ctx)
	if access == nil {
		return goerr.Wrap(types.ErrTenantIsolation, "no tenant bound to context",
			goerr.V("requested_tenant", tenant),
			goerr.V("operation", operation),
		)
	}

	if access.TenantID != tenant {
		g.reportViolation(ctx, access.TenantID, tenant, operation)
		return goerr.Wrap(types.ErrTenantIsolation, "cross-tenant access denied",
			goerr.V("bound_tenant", access.TenantID),
			goerr.V("requested_tenant", tenant),
			goerr.V("operation", operation),
		)
	}

	return nil
}

func (g *Guard) reportViolation(ctx context.Context, bound, requested types.TenantID, operation string) {
	logging.From(ctx).Warn("tenant isolation violation",
		"bound_tenant", bound,
		"requested_tenant", requested,
		"operation", operation,
	)

	if g.notifier == nil {
		return
	}

	violation := &model.IsolationViolation{
		BoundTenant:     bound,
		RequestedTenant: requested,
		Operation:       operation,
		OccurredAt:      time.Now().UTC(),
	}
	async.Dispatch(ctx, func(ctx context.Context) error {
		return g.notifier.NotifyIsolationViolation(ctx, violation)
	})
}
