package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
	"github.com/voiceops-lab/mnemosyne/pkg/repository/firestore"
	"github.com/voiceops-lab/mnemosyne/pkg/repository/memory"
)

func runMemoryRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	const tenant = types.TenantID("test-tenant")

	t.Run("Put fills defaults and List returns the entry", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		subject := newTestSubject()

		entry := &model.MemoryEntry{
			Subject: subject,
			Kind:    types.MemoryKindPreference,
			Key:     "preferred_contact_window",
			Value:   map[string]any{"window": "mornings"},
		}
		gt.NoError(t, repo.Memory().Put(ctx, tenant, entry)).Required()

		listed, err := repo.Memory().List(ctx, tenant, subject, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, listed).Length(1)
		gt.String(t, string(listed[0].ID)).NotEqual("")
		gt.Value(t, listed[0].Kind).Equal(types.MemoryKindPreference)
		gt.Number(t, listed[0].TTLDays).Equal(model.DefaultMemoryTTLDays)
		gt.Bool(t, listed[0].CreatedAt.IsZero()).False()
	})

	t.Run("List orders newest first and honors limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		subject := newTestSubject()
		base := time.Now().UTC().Add(-time.Hour)

		for i := 0; i < 4; i++ {
			entry := &model.MemoryEntry{
				Subject:   subject,
				Kind:      types.MemoryKindFact,
				Key:       fmt.Sprintf("fact-%d", i),
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			}
			gt.NoError(t, repo.Memory().Put(ctx, tenant, entry)).Required()
		}

		listed, err := repo.Memory().List(ctx, tenant, subject, 2)
		gt.NoError(t, err).Required()
		gt.Array(t, listed).Length(2)
		gt.Value(t, listed[0].Key).Equal("fact-3")
		gt.Value(t, listed[1].Key).Equal("fact-2")
	})

	t.Run("expired entries are excluded", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		subject := newTestSubject()

		expired := &model.MemoryEntry{
			Subject:   subject,
			Kind:      types.MemoryKindMoment,
			Key:       "old-moment",
			TTLDays:   1,
			CreatedAt: time.Now().UTC().AddDate(0, 0, -2),
		}
		fresh := &model.MemoryEntry{
			Subject: subject,
			Kind:    types.MemoryKindMoment,
			Key:     "new-moment",
		}
		gt.NoError(t, repo.Memory().Put(ctx, tenant, expired)).Required()
		gt.NoError(t, repo.Memory().Put(ctx, tenant, fresh)).Required()

		listed, err := repo.Memory().List(ctx, tenant, subject, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, listed).Length(1)
		gt.Value(t, listed[0].Key).Equal("new-moment")
	})

	t.Run("negative TTL never expires", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		subject := newTestSubject()

		entry := &model.MemoryEntry{
			Subject:   subject,
			Kind:      types.MemoryKindRule,
			Key:       "permanent-rule",
			TTLDays:   -1,
			CreatedAt: time.Now().UTC().AddDate(-5, 0, 0),
		}
		gt.NoError(t, repo.Memory().Put(ctx, tenant, entry)).Required()

		listed, err := repo.Memory().List(ctx, tenant, subject, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, listed).Length(1)
	})
}

func TestMemoryRepository_Memory(t *testing.T) {
	runMemoryRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})

	t.Run("FindByEmbedding ranks by cosine similarity", func(t *testing.T) {
		repo := memory.New()
		ctx := context.Background()
		subject := newTestSubject()

		near := &model.MemoryEntry{
			Subject:   subject,
			Kind:      types.MemoryKindFact,
			Key:       "near",
			Embedding: []float32{1, 0, 0},
		}
		far := &model.MemoryEntry{
			Subject:   subject,
			Kind:      types.MemoryKindFact,
			Key:       "far",
			Embedding: []float32{0, 0, 1},
		}
		plain := &model.MemoryEntry{
			Subject: subject,
			Kind:    types.MemoryKindFact,
			Key:     "no-embedding",
		}
		gt.NoError(t, repo.Memory().Put(ctx, "test-tenant", near)).Required()
		gt.NoError(t, repo.Memory().Put(ctx, "test-tenant", far)).Required()
		gt.NoError(t, repo.Memory().Put(ctx, "test-tenant", plain)).Required()

		found, err := repo.Memory().FindByEmbedding(ctx, "test-tenant", subject, []float32{0.9, 0.1, 0}, 2)
		gt.NoError(t, err).Required()
		gt.Array(t, found).Length(2)
		gt.Value(t, found[0].Key).Equal("near")
		gt.Value(t, found[1].Key).Equal("far")
	})
}

func TestMemoryRepository_Firestore(t *testing.T) {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_ID not set")
	}

	runMemoryRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := firestore.New(context.Background(), projectID, firestore.WithCollectionPrefix("test"))
		gt.NoError(t, err).Required()
		return repo
	})
}
