package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
)

// Firestore is the production repository backend. Records live under
// per-tenant subcollections (tenants/{tenant}/...), so a query cannot touch
// another tenant's data without naming that tenant explicitly.
type Firestore struct {
	client      *firestore.Client
	memories    *memoryEntryRepository
	summaries   *summaryRepository
	personality *personalityRepository
	profiles    *profileRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prefixes the top-level tenants collection, used to
// keep test data apart from production in a shared project
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.memories.collectionPrefix = prefix
		f.summaries.collectionPrefix = prefix
		f.personality.collectionPrefix = prefix
		f.profiles.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID string, opts ...Option) (*Firestore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	f := &Firestore{
		client:      client,
		memories:    newMemoryEntryRepository(client),
		summaries:   newSummaryRepository(client),
		personality: newPersonalityRepository(client),
		profiles:    newProfileRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Memory() interfaces.MemoryRepository {
	return f.memories
}

func (f *Firestore) Summary() interfaces.SummaryRepository {
	return f.summaries
}

func (f *Firestore) Personality() interfaces.PersonalityRepository {
	return f.personality
}

func (f *Firestore) Profile() interfaces.ProfileRepository {
	return f.profiles
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// tenantDoc returns the document anchoring one tenant's subcollections
func tenantDoc(client *firestore.Client, prefix string, tenant types.TenantID) *firestore.DocumentRef {
	collection := "tenants"
	if prefix != "" {
		collection = prefix + "_tenants"
	}
	return client.Collection(collection).Doc(string(tenant))
}
