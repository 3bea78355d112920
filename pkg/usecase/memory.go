package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
	"github.com/voiceops-lab/mnemosyne/pkg/utils/logging"
)

// PutMemory appends an ad-hoc memory entry for a subject
func (uc *UseCases) PutMemory(ctx context.Context, tenant types.TenantID, subject types.SubjectID, kind types.MemoryKind, key string, value map[string]any) (*model.MemoryEntry, error) {
	if subject == "" {
		return nil, goerr.Wrap(types.ErrValidation, "subject is required")
	}
	if !kind.IsValid() {
		return nil, goerr.Wrap(types.ErrValidation, "invalid memory kind", goerr.V("kind", kind))
	}
	if key == "" {
		return nil, goerr.Wrap(types.ErrValidation, "key is required")
	}

	entry := &model.MemoryEntry{
		ID:      model.NewMemoryEntryID(),
		Tenant:  tenant,
		Subject: subject,
		Kind:    kind,
		Key:     key,
		Value:   value,
		TTLDays: model.DefaultMemoryTTLDays,
	}

	if uc.embedder.Enabled() {
		vector, err := uc.embedder.Generate(ctx, key)
		if err != nil {
			logging.From(ctx).Warn("memory embedding failed", "error", err, "key", key)
		} else {
			entry.Embedding = vector
		}
	}

	if err := uc.repo.Memory().Put(ctx, tenant, entry); err != nil {
		return nil, goerr.Wrap(err, "failed to store memory entry")
	}
	return entry, nil
}

// ListMemories returns a subject's memory entries, newest first
func (uc *UseCases) ListMemories(ctx context.Context, tenant types.TenantID, subject types.SubjectID, limit int) ([]*model.MemoryEntry, error) {
	if subject == "" {
		return nil, goerr.Wrap(types.ErrValidation, "subject is required")
	}
	return uc.repo.Memory().List(ctx, tenant, subject, limit)
}

// SearchMemories finds memory entries similar to the query text. Without an
// embedder, or when embedding fails, it degrades to recency order.
func (uc *UseCases) SearchMemories(ctx context.Context, tenant types.TenantID, subject types.SubjectID, query string, limit int) ([]*model.MemoryEntry, error) {
	if subject == "" {
		return nil, goerr.Wrap(types.ErrValidation, "subject is required")
	}
	if limit <= 0 {
		limit = model.DefaultContextSummaries
	}

	if query != "" && uc.embedder.Enabled() {
		vector, err := uc.embedder.Generate(ctx, query)
		if err != nil {
			logging.From(ctx).Warn("memory search embedding failed, falling back to recency", "error", err)
		} else if len(vector) > 0 {
			entries, err := uc.repo.Memory().FindByEmbedding(ctx, tenant, subject, vector, limit)
			if err != nil {
				logging.From(ctx).Warn("memory vector search failed, falling back to recency", "error", err)
			} else if len(entries) > 0 {
				return entries, nil
			}
			// entries stored without embeddings are invisible to the vector
			// index; recency still serves them
		}
	}
	return uc.repo.Memory().List(ctx, tenant, subject, limit)
}
