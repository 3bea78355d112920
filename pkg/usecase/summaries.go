package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
	"github.com/voiceops-lab/mnemosyne/pkg/utils/logging"
)

// GetProfile returns a subject's caller profile. A subject that has never
// called gets a zero-value profile created on first access, so callers can
// always render profile fields.
func (uc *UseCases) GetProfile(ctx context.Context, tenant types.TenantID, subject types.SubjectID) (*model.CallerProfile, error) {
	if subject == "" {
		return nil, goerr.Wrap(types.ErrValidation, "subject is required")
	}
	return uc.repo.Profile().GetOrCreate(ctx, tenant, subject)
}

// GetPersonality returns a subject's personality aggregate
func (uc *UseCases) GetPersonality(ctx context.Context, tenant types.TenantID, subject types.SubjectID) (*model.PersonalityAggregate, error) {
	if subject == "" {
		return nil, goerr.Wrap(types.ErrValidation, "subject is required")
	}
	return uc.repo.Personality().GetAggregate(ctx, tenant, subject)
}

// SearchSummaries returns a subject's call summaries. With a query and a
// configured embedder it searches by similarity; otherwise, and whenever
// embedding fails, it degrades to recency order. Degradation never errors.
func (uc *UseCases) SearchSummaries(ctx context.Context, tenant types.TenantID, subject types.SubjectID, query string, limit int) ([]*model.CallSummary, error) {
	if subject == "" {
		return nil, goerr.Wrap(types.ErrValidation, "subject is required")
	}
	if limit <= 0 {
		limit = model.DefaultContextSummaries
	}

	if query != "" && uc.embedder.Enabled() {
		vector, err := uc.embedder.Generate(ctx, query)
		if err != nil {
			logging.From(ctx).Warn("summary search embedding failed, falling back to recency", "error", err)
		} else if len(vector) > 0 {
			summaries, err := uc.repo.Summary().FindByEmbedding(ctx, tenant, subject, vector, limit)
			if err != nil {
				logging.From(ctx).Warn("summary vector search failed, falling back to recency", "error", err)
			} else if len(summaries) > 0 {
				return summaries, nil
			}
			// an empty vector result means the stored summaries carry no
			// embeddings; recency still serves them
		}
	}
	return uc.repo.Summary().ListRecent(ctx, tenant, subject, limit)
}
