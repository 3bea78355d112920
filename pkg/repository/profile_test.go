package repository_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
	"github.com/voiceops-lab/mnemosyne/pkg/repository/firestore"
	"github.com/voiceops-lab/mnemosyne/pkg/repository/memory"
)

func runProfileRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	const tenant = types.TenantID("test-tenant")

	t.Run("Get returns not found for unknown subject", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Profile().Get(ctx, tenant, newTestSubject())
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, types.ErrNotFound)).True()
	})

	t.Run("GetOrCreate creates zero-value profile once", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		subject := newTestSubject()

		created, err := repo.Profile().GetOrCreate(ctx, tenant, subject)
		gt.NoError(t, err).Required()
		gt.Value(t, created.Subject).Equal(subject)
		gt.Number(t, created.TotalCalls).Equal(0)
		gt.Bool(t, created.CreatedAt.IsZero()).False()

		again, err := repo.Profile().GetOrCreate(ctx, tenant, subject)
		gt.NoError(t, err).Required()
		gt.Bool(t, again.CreatedAt.Equal(created.CreatedAt)).True()
	})

	t.Run("RecordCall creates profile and counts calls", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		subject := newTestSubject()
		first := time.Now().UTC().Add(-time.Hour)
		second := time.Now().UTC()

		p1, err := repo.Profile().RecordCall(ctx, tenant, subject, first)
		gt.NoError(t, err).Required()
		gt.Number(t, p1.TotalCalls).Equal(1)

		p2, err := repo.Profile().RecordCall(ctx, tenant, subject, second)
		gt.NoError(t, err).Required()
		gt.Number(t, p2.TotalCalls).Equal(2)
		gt.Bool(t, p2.LastCallAt.Equal(second)).True()
	})

	t.Run("RecordCall with older timestamp keeps newest LastCallAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		subject := newTestSubject()
		newer := time.Now().UTC()
		older := newer.Add(-time.Hour)

		_, err := repo.Profile().RecordCall(ctx, tenant, subject, newer)
		gt.NoError(t, err).Required()

		p, err := repo.Profile().RecordCall(ctx, tenant, subject, older)
		gt.NoError(t, err).Required()
		gt.Number(t, p.TotalCalls).Equal(2)
		gt.Bool(t, p.LastCallAt.Equal(newer)).True()
	})

	t.Run("Update replaces mutable fields", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		subject := newTestSubject()

		created, err := repo.Profile().GetOrCreate(ctx, tenant, subject)
		gt.NoError(t, err).Required()

		created.DisplayName = "Jordan"
		created.Notes = "prefers morning callbacks"
		created.Preferences = map[string]string{"language": "en"}
		gt.NoError(t, repo.Profile().Update(ctx, tenant, created)).Required()

		updated, err := repo.Profile().Get(ctx, tenant, subject)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.DisplayName).Equal("Jordan")
		gt.Value(t, updated.Notes).Equal("prefers morning callbacks")
		gt.Value(t, updated.Preferences["language"]).Equal("en")
	})

	t.Run("Update on missing profile returns not found", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		missing, err := repo.Profile().GetOrCreate(ctx, tenant, newTestSubject())
		gt.NoError(t, err).Required()
		missing.Subject = newTestSubject()

		err = repo.Profile().Update(ctx, tenant, missing)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, types.ErrNotFound)).True()
	})
}

func TestProfileRepository_Memory(t *testing.T) {
	runProfileRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})

	t.Run("concurrent RecordCall counts every call", func(t *testing.T) {
		repo := memory.New()
		ctx := context.Background()
		subject := newTestSubject()

		const workers = 32
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.Profile().RecordCall(ctx, "test-tenant", subject, time.Now().UTC())
				gt.NoError(t, err)
			}()
		}
		wg.Wait()

		p, err := repo.Profile().Get(ctx, "test-tenant", subject)
		gt.NoError(t, err).Required()
		gt.Number(t, p.TotalCalls).Equal(workers)
	})
}

func TestProfileRepository_Firestore(t *testing.T) {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_ID not set")
	}

	runProfileRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := firestore.New(context.Background(), projectID, firestore.WithCollectionPrefix("test"))
		gt.NoError(t, err).Required()
		return repo
	})
}
