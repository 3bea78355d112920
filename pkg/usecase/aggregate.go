package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
)

// Recompute rebuilds the personality aggregate for a subject from all of
// its snapshots. It is idempotent: running it any number of times over the
// same snapshot set writes the same aggregate. With zero snapshots nothing
// is written. Concurrent recomputes self-heal since each one re-reads the
// full snapshot set.
func (uc *UseCases) Recompute(ctx context.Context, tenant types.TenantID, subject types.SubjectID) (*model.PersonalityAggregate, error) {
	if subject == "" {
		return nil, goerr.Wrap(types.ErrValidation, "subject is required")
	}

	snapshots, err := uc.repo.Personality().ListSnapshots(ctx, tenant, subject)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list snapshots for recompute")
	}

	aggregate := model.ComputeAggregate(tenant, subject, snapshots, time.Now().UTC())
	if aggregate == nil {
		return nil, nil
	}

	if err := uc.repo.Personality().PutAggregate(ctx, tenant, aggregate); err != nil {
		return nil, goerr.Wrap(err, "failed to store aggregate")
	}
	return aggregate, nil
}
