package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
)

// EmbeddingDimension is the fixed length of summary and memory embedding
// vectors (768 dimensions)
const EmbeddingDimension = 768

// CallSummaryID is a UUID-based identifier for CallSummary
type CallSummaryID string

// NewCallSummaryID generates a new UUID v4 CallSummaryID
func NewCallSummaryID() CallSummaryID {
	return CallSummaryID(uuid.New().String())
}

// CallSummary is the immutable distilled record of one completed call. It is
// what the context composer reads instead of raw conversation history.
type CallSummary struct {
	ID               CallSummaryID
	Tenant           types.TenantID
	Subject          types.SubjectID
	CallID           types.CallID
	OccurredAt       time.Time
	Summary          string
	Topics           []string
	Variables        map[string]string
	Sentiment        types.Sentiment
	ResolutionStatus types.ResolutionStatus
	DurationSeconds  int
	Embedding        []float32 // optional; empty when no embedder is configured
	CreatedAt        time.Time
}

// Validate checks required fields and enum values
func (s *CallSummary) Validate() error {
	if s.Subject == "" {
		return goerr.Wrap(types.ErrValidation, "subject is required")
	}
	if s.CallID == "" {
		return goerr.Wrap(types.ErrValidation, "call_id is required")
	}
	if !s.Sentiment.IsValid() {
		return goerr.Wrap(types.ErrValidation, "invalid sentiment",
			goerr.V("sentiment", s.Sentiment))
	}
	if !s.ResolutionStatus.IsValid() {
		return goerr.Wrap(types.ErrValidation, "invalid resolution status",
			goerr.V("resolution_status", s.ResolutionStatus))
	}
	return nil
}
