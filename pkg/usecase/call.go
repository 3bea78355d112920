package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
	"github.com/voiceops-lab/mnemosyne/pkg/utils/async"
	"github.com/voiceops-lab/mnemosyne/pkg/utils/errutil"
	"github.com/voiceops-lab/mnemosyne/pkg/utils/logging"
)

// ProcessCallResult is the outcome of one completed-call ingestion
type ProcessCallResult struct {
	Summary    *model.CallSummary
	Snapshot   *model.PersonalitySnapshot
	Aggregate  *model.PersonalityAggregate
	Provenance types.Provenance
}

// ProcessCompletedCall ingests a finished call: extraction, summary and
// snapshot writes, profile bookkeeping, and aggregate recomputation. The
// summary write goes first so a duplicate call_id aborts before any state
// changes; a snapshot that fails validation likewise leaves the profile and
// aggregate untouched.
func (uc *UseCases) ProcessCompletedCall(ctx context.Context, tenant types.TenantID, subject types.SubjectID, callID types.CallID, transcript model.Transcript) (*ProcessCallResult, error) {
	if subject == "" {
		return nil, goerr.Wrap(types.ErrValidation, "subject is required")
	}
	if callID == "" {
		return nil, goerr.Wrap(types.ErrValidation, "call_id is required")
	}
	if len(transcript) == 0 {
		return nil, goerr.Wrap(types.ErrValidation, "transcript is empty")
	}

	now := time.Now().UTC()
	extracted := uc.extractor.Extract(ctx, transcript)

	summary := &model.CallSummary{
		ID:               model.NewCallSummaryID(),
		Tenant:           tenant,
		Subject:          subject,
		CallID:           callID,
		OccurredAt:       now,
		Summary:          extracted.Summary,
		Topics:           extracted.Topics,
		Variables:        extracted.Variables,
		Sentiment:        extracted.Sentiment,
		ResolutionStatus: extracted.ResolutionStatus,
		DurationSeconds:  transcript.EstimatedDurationSeconds(),
	}
	if err := summary.Validate(); err != nil {
		return nil, err
	}

	if uc.embedder.Enabled() {
		vector, err := uc.embedder.Generate(ctx, summary.Summary)
		if err != nil {
			// Embeddings only enrich search; the summary is stored without one
			logging.From(ctx).Warn("summary embedding failed", "error", err, "call_id", callID)
		} else {
			summary.Embedding = vector
		}
	}

	if err := uc.repo.Summary().Put(ctx, tenant, summary); err != nil {
		return nil, errutil.Handle(ctx, err, "failed to store call summary")
	}

	snapshot := &model.PersonalitySnapshot{
		ID:         model.NewPersonalitySnapshotID(),
		Tenant:     tenant,
		Subject:    subject,
		CallID:     callID,
		MeasuredAt: now,
		Scores:     extracted.Scores,
	}
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Personality().PutSnapshot(ctx, tenant, snapshot); err != nil {
		return nil, errutil.Handle(ctx, err, "failed to store personality snapshot")
	}

	if _, err := uc.repo.Profile().RecordCall(ctx, tenant, subject, now); err != nil {
		return nil, errutil.Handle(ctx, err, "failed to record call on profile")
	}

	aggregate, err := uc.Recompute(ctx, tenant, subject)
	if err != nil {
		return nil, errutil.Handle(ctx, err, "failed to recompute personality aggregate")
	}

	if uc.archiver != nil {
		async.Dispatch(ctx, func(ctx context.Context) error {
			if err := uc.archiver.ArchiveTranscript(ctx, tenant, subject, callID, transcript); err != nil {
				return goerr.Wrap(err, "failed to archive transcript", goerr.V("call_id", callID))
			}
			return nil
		})
	}

	logging.From(ctx).Info("processed completed call",
		"tenant", tenant,
		"subject", subject,
		"call_id", callID,
		"provenance", extracted.Provenance,
		"topics", extracted.Topics,
	)

	return &ProcessCallResult{
		Summary:    summary,
		Snapshot:   snapshot,
		Aggregate:  aggregate,
		Provenance: extracted.Provenance,
	}, nil
}
