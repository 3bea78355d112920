package usecase

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/m-mizutani/goerr/v2"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
	"github.com/voiceops-lab/mnemosyne/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// Compose assembles the bounded call-start context from exactly three
// storage reads (profile, aggregate, recent summaries) run in parallel
// under a strict deadline. A failed or timed-out sub-read degrades that
// section to empty instead of failing the whole composition. Isolation
// errors are the exception: they always propagate.
func (uc *UseCases) Compose(ctx context.Context, tenant types.TenantID, subject types.SubjectID, numSummaries int) (*model.CallContext, error) {
	if subject == "" {
		return nil, goerr.Wrap(types.ErrValidation, "subject is required")
	}
	if numSummaries < 0 {
		return nil, goerr.Wrap(types.ErrValidation, "summary count must not be negative",
			goerr.V("num_summaries", numSummaries))
	}

	ctx, cancel := context.WithTimeout(ctx, uc.composeTimeout)
	defer cancel()

	result := &model.CallContext{
		Tenant:  tenant,
		Subject: subject,
	}

	// degrade returns nil for recoverable sub-read failures so the other
	// sections still land; isolation violations abort the composition.
	var partial atomic.Bool
	degrade := func(err error, section string) error {
		if err == nil {
			return nil
		}
		if goerr.HasTag(err, types.TagIsolation) {
			return err
		}
		if !errors.Is(err, types.ErrNotFound) {
			logging.From(ctx).Warn("context section degraded",
				"section", section,
				"error", err,
			)
			partial.Store(true)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profile, err := uc.repo.Profile().Get(gctx, tenant, subject)
		if err := degrade(err, "profile"); err != nil {
			return err
		}
		result.Profile = profile
		return nil
	})

	g.Go(func() error {
		aggregate, err := uc.repo.Personality().GetAggregate(gctx, tenant, subject)
		if err := degrade(err, "personality"); err != nil {
			return err
		}
		result.Aggregate = aggregate
		return nil
	})

	if numSummaries > 0 {
		g.Go(func() error {
			summaries, err := uc.repo.Summary().ListRecent(gctx, tenant, subject, numSummaries)
			if err := degrade(err, "summaries"); err != nil {
				return err
			}
			result.Summaries = summaries
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	result.Partial = partial.Load()
	return result, nil
}
