package interfaces

import (
	"context"

	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
)

// SummaryRepository defines the interface for CallSummary data persistence.
// Summaries are immutable once written.
type SummaryRepository interface {
	// Put stores a new call summary. A summary with the same CallID already
	// stored for the tenant returns types.ErrConflict.
	Put(ctx context.Context, tenant types.TenantID, summary *model.CallSummary) error

	// Get retrieves the summary for a call, or types.ErrNotFound
	Get(ctx context.Context, tenant types.TenantID, subject types.SubjectID, callID types.CallID) (*model.CallSummary, error)

	// ListRecent retrieves summaries for a subject ordered by OccurredAt
	// descending, up to limit
	ListRecent(ctx context.Context, tenant types.TenantID, subject types.SubjectID, limit int) ([]*model.CallSummary, error)

	// FindByEmbedding performs vector similarity search using cosine distance
	// over summaries of one subject
	FindByEmbedding(ctx context.Context, tenant types.TenantID, subject types.SubjectID, embedding []float32, limit int) ([]*model.CallSummary, error)
}
