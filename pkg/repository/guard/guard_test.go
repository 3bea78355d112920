package guard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model/auth"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
	"github.com/voiceops-lab/mnemosyne/pkg/repository/guard"
	"github.com/voiceops-lab/mnemosyne/pkg/repository/memory"
)

type captureNotifier struct {
	violations chan *model.IsolationViolation
}

func newCaptureNotifier() *captureNotifier {
	return &captureNotifier{violations: make(chan *model.IsolationViolation, 8)}
}

func (n *captureNotifier) NotifyIsolationViolation(ctx context.Context, v *model.IsolationViolation) error {
	n.violations <- v
	return nil
}

func ctxWithTenant(tenant types.TenantID) context.Context {
	return auth.ContextWithAccess(context.Background(), &auth.Access{
		TenantID:  tenant,
		Scope:     auth.ScopeMemoryReadWrite,
		ExpiresAt: time.Now().Add(time.Hour),
	})
}

func TestGuardAllowsMatchingTenant(t *testing.T) {
	repo := guard.New(memory.New())
	ctx := ctxWithTenant("acme")

	entry := &model.MemoryEntry{
		Subject: "+15551234567",
		Kind:    types.MemoryKindFact,
		Key:     "favorite-color",
	}
	gt.NoError(t, repo.Memory().Put(ctx, "acme", entry)).Required()

	listed, err := repo.Memory().List(ctx, "acme", "+15551234567", 10)
	gt.NoError(t, err).Required()
	gt.Array(t, listed).Length(1)
}

func TestGuardDeniesUnboundContext(t *testing.T) {
	repo := guard.New(memory.New())

	_, err := repo.Memory().List(context.Background(), "acme", "+15551234567", 10)
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, types.ErrTenantIsolation)).True()
}

func TestGuardDeniesCrossTenantAccess(t *testing.T) {
	notifier := newCaptureNotifier()
	repo := guard.New(memory.New(), guard.WithNotifier(notifier))
	ctx := ctxWithTenant("acme")

	_, err := repo.Summary().ListRecent(ctx, "globex", "+15551234567", 10)
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, types.ErrTenantIsolation)).True()

	select {
	case v := <-notifier.violations:
		gt.Value(t, v.BoundTenant).Equal(types.TenantID("acme"))
		gt.Value(t, v.RequestedTenant).Equal(types.TenantID("globex"))
		gt.Value(t, v.Operation).Equal("summary.list_recent")
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was not called")
	}
}

func TestGuardCoversEveryFamily(t *testing.T) {
	repo := guard.New(memory.New())
	ctx := ctxWithTenant("acme")

	_, err := repo.Memory().List(ctx, "globex", "+15551234567", 10)
	gt.Bool(t, errors.Is(err, types.ErrTenantIsolation)).True()

	_, err = repo.Summary().Get(ctx, "globex", "+15551234567", "call-1")
	gt.Bool(t, errors.Is(err, types.ErrTenantIsolation)).True()

	_, err = repo.Personality().ListSnapshots(ctx, "globex", "+15551234567")
	gt.Bool(t, errors.Is(err, types.ErrTenantIsolation)).True()

	_, err = repo.Profile().Get(ctx, "globex", "+15551234567")
	gt.Bool(t, errors.Is(err, types.ErrTenantIsolation)).True()
}

func TestGuardKeepsDataIsolatedPerTenant(t *testing.T) {
	inner := memory.New()
	repo := guard.New(inner)

	acmeCtx := ctxWithTenant("acme")
	entry := &model.MemoryEntry{
		Subject: "+15551234567",
		Kind:    types.MemoryKindFact,
		Key:     "shared-phone-number-fact",
	}
	gt.NoError(t, repo.Memory().Put(acmeCtx, "acme", entry)).Required()

	// the same subject under another tenant sees nothing
	globexCtx := ctxWithTenant("globex")
	listed, err := repo.Memory().List(globexCtx, "globex", "+15551234567", 10)
	gt.NoError(t, err).Required()
	gt.Array(t, listed).Length(0)
}
