package usecase_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
	"github.com/voiceops-lab/mnemosyne/pkg/repository/memory"
	"github.com/voiceops-lab/mnemosyne/pkg/usecase"
)

// instrumentedRepo wraps a repository to observe and fail sub-reads
type instrumentedRepo struct {
	interfaces.Repository
	summary     interfaces.SummaryRepository
	personality interfaces.PersonalityRepository
	profile     interfaces.ProfileRepository
}

func (r *instrumentedRepo) Summary() interfaces.SummaryRepository {
	if r.summary != nil {
		return r.summary
	}
	return r.Repository.Summary()
}

func (r *instrumentedRepo) Personality() interfaces.PersonalityRepository {
	if r.personality != nil {
		return r.personality
	}
	return r.Repository.Personality()
}

func (r *instrumentedRepo) Profile() interfaces.ProfileRepository {
	if r.profile != nil {
		return r.profile
	}
	return r.Repository.Profile()
}

type countingSummaryRepo struct {
	interfaces.SummaryRepository
	listCalls atomic.Int32
}

func (r *countingSummaryRepo) ListRecent(ctx context.Context, tenant types.TenantID, subject types.SubjectID, limit int) ([]*model.CallSummary, error) {
	r.listCalls.Add(1)
	return r.SummaryRepository.ListRecent(ctx, tenant, subject, limit)
}

type failingPersonalityRepo struct {
	interfaces.PersonalityRepository
	err error
}

func (r *failingPersonalityRepo) GetAggregate(ctx context.Context, tenant types.TenantID, subject types.SubjectID) (*model.PersonalityAggregate, error) {
	return nil, r.err
}

type failingProfileRepo struct {
	interfaces.ProfileRepository
	err error
}

func (r *failingProfileRepo) Get(ctx context.Context, tenant types.TenantID, subject types.SubjectID) (*model.CallerProfile, error) {
	return nil, r.err
}

func TestComposeEmptyHistory(t *testing.T) {
	uc := newTestUseCases(memory.New())

	callContext, err := uc.Compose(context.Background(), testTenant, "+15550000000", model.DefaultContextSummaries)
	gt.NoError(t, err).Required()

	gt.Value(t, callContext.Profile).Nil()
	gt.Value(t, callContext.Aggregate).Nil()
	gt.Array(t, callContext.Summaries).Length(0)
	gt.Bool(t, callContext.Partial).False()
	gt.Value(t, callContext.Render()).Equal("No previous call history found.")
}

func TestComposeAfterCalls(t *testing.T) {
	repo := memory.New()
	uc := newTestUseCases(repo)
	ctx := context.Background()
	subject := types.SubjectID("+15551234567")

	for _, callID := range []types.CallID{"call-1", "call-2", "call-3"} {
		_, err := uc.ProcessCompletedCall(ctx, testTenant, subject, callID, billingTranscript())
		gt.NoError(t, err).Required()
	}

	callContext, err := uc.Compose(ctx, testTenant, subject, 2)
	gt.NoError(t, err).Required()

	gt.Value(t, callContext.Profile).NotNil()
	gt.Number(t, callContext.Profile.TotalCalls).Equal(3)
	gt.Value(t, callContext.Aggregate).NotNil()
	gt.Array(t, callContext.Summaries).Length(2)
	gt.Bool(t, callContext.Partial).False()

	rendered := callContext.Render()
	gt.String(t, rendered).Contains("CALLER PROFILE:")
	gt.String(t, rendered).Contains("CALLER PERSONALITY PROFILE:")
	gt.String(t, rendered).Contains("RECENT CALLS:")
}

func TestComposeValidation(t *testing.T) {
	uc := newTestUseCases(memory.New())
	ctx := context.Background()

	t.Run("empty subject", func(t *testing.T) {
		_, err := uc.Compose(ctx, testTenant, "", 5)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, types.ErrValidation)).True()
	})

	t.Run("negative summary count", func(t *testing.T) {
		_, err := uc.Compose(ctx, testTenant, "+15551234567", -1)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, types.ErrValidation)).True()
	})
}

func TestComposeZeroSummariesSkipsRead(t *testing.T) {
	inner := memory.New()
	counting := &countingSummaryRepo{SummaryRepository: inner.Summary()}
	repo := &instrumentedRepo{Repository: inner, summary: counting}

	uc := usecase.New(repo, newTestRegistry(), []byte("test-secret-0123456789abcdef"))

	callContext, err := uc.Compose(context.Background(), testTenant, "+15551234567", 0)
	gt.NoError(t, err).Required()
	gt.Array(t, callContext.Summaries).Length(0)
	gt.Number(t, int(counting.listCalls.Load())).Equal(0)
}

func TestComposeDegradesOnSubReadFailure(t *testing.T) {
	inner := memory.New()
	ctx := context.Background()
	subject := types.SubjectID("+15551234567")

	// seed a profile so at least one section succeeds
	seedUC := newTestUseCases(inner)
	_, err := seedUC.ProcessCompletedCall(ctx, testTenant, subject, "call-1", billingTranscript())
	gt.NoError(t, err).Required()

	repo := &instrumentedRepo{
		Repository: inner,
		personality: &failingPersonalityRepo{
			PersonalityRepository: inner.Personality(),
			err:                   goerr.New("backend unavailable"),
		},
	}
	uc := usecase.New(repo, newTestRegistry(), []byte("test-secret-0123456789abcdef"))

	callContext, err := uc.Compose(ctx, testTenant, subject, 5)
	gt.NoError(t, err).Required()

	gt.Bool(t, callContext.Partial).True()
	gt.Value(t, callContext.Aggregate).Nil()
	gt.Value(t, callContext.Profile).NotNil()
	gt.Array(t, callContext.Summaries).Length(1)
}

func TestComposeNotFoundIsNotPartial(t *testing.T) {
	uc := newTestUseCases(memory.New())

	callContext, err := uc.Compose(context.Background(), testTenant, "+15559999999", 5)
	gt.NoError(t, err).Required()
	gt.Bool(t, callContext.Partial).False()
}

func TestComposePropagatesIsolationError(t *testing.T) {
	inner := memory.New()
	repo := &instrumentedRepo{
		Repository: inner,
		profile: &failingProfileRepo{
			ProfileRepository: inner.Profile(),
			err:               goerr.Wrap(types.ErrTenantIsolation, "cross-tenant access denied"),
		},
	}
	uc := usecase.New(repo, newTestRegistry(), []byte("test-secret-0123456789abcdef"))

	_, err := uc.Compose(context.Background(), testTenant, "+15551234567", 5)
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, types.ErrTenantIsolation)).True()
}
