package interfaces

import (
	"context"

	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
)

// MemoryRepository defines the interface for MemoryEntry data persistence.
// Entries are append-only; supersession is expressed by writing a newer
// entry with the same key.
type MemoryRepository interface {
	// Put stores a new memory entry
	Put(ctx context.Context, tenant types.TenantID, entry *model.MemoryEntry) error

	// List retrieves entries for a subject, newest first, excluding expired
	// ones, up to limit (0 means backend default)
	List(ctx context.Context, tenant types.TenantID, subject types.SubjectID, limit int) ([]*model.MemoryEntry, error)

	// FindByEmbedding performs vector similarity search using cosine distance.
	// Returns up to limit entries most similar to the given embedding.
	FindByEmbedding(ctx context.Context, tenant types.TenantID, subject types.SubjectID, embedding []float32, limit int) ([]*model.MemoryEntry, error)
}
