package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
	"google.golang.org/api/iterator"
)

// memoryEntryDoc is the Firestore document representation of
// model.MemoryEntry. Embedding is stored as firestore.Vector32 for
// FindNearest vector search.
type memoryEntryDoc struct {
	ID        model.MemoryEntryID `firestore:"ID"`
	Subject   types.SubjectID     `firestore:"Subject"`
	Kind      types.MemoryKind    `firestore:"Kind"`
	Key       string              `firestore:"Key"`
	Value     map[string]any      `firestore:"Value"`
	Embedding firestore.Vector32  `firestore:"Embedding,omitempty"`
	TTLDays   int                 `firestore:"TTLDays"`
	CreatedAt time.Time           `firestore:"CreatedAt"`
}

func toMemoryEntryDoc(e *model.MemoryEntry) *memoryEntryDoc {
	doc := &memoryEntryDoc{
		ID:        e.ID,
		Subject:   e.Subject,
		Kind:      e.Kind,
		Key:       e.Key,
		Value:     e.Value,
		TTLDays:   e.TTLDays,
		CreatedAt: e.CreatedAt,
	}
	if len(e.Embedding) > 0 {
		doc.Embedding = firestore.Vector32(e.Embedding)
	}
	return doc
}

func fromMemoryEntryDoc(tenant types.TenantID, d *memoryEntryDoc) *model.MemoryEntry {
	e := &model.MemoryEntry{
		ID:        d.ID,
		Tenant:    tenant,
		Subject:   d.Subject,
		Kind:      d.Kind,
		Key:       d.Key,
		Value:     d.Value,
		TTLDays:   d.TTLDays,
		CreatedAt: d.CreatedAt,
	}
	if len(d.Embedding) > 0 {
		e.Embedding = []float32(d.Embedding)
	}
	return e
}

type memoryEntryRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newMemoryEntryRepository(client *firestore.Client) *memoryEntryRepository {
	return &memoryEntryRepository{client: client}
}

// memoriesCollection returns the subcollection path:
// tenants/{tenant}/subjects/{subject}/memories
func (r *memoryEntryRepository) memoriesCollection(tenant types.TenantID, subject types.SubjectID) *firestore.CollectionRef {
	return tenantDoc(r.client, r.collectionPrefix, tenant).
		Collection("subjects").Doc(string(subject)).
		Collection("memories")
}

func (r *memoryEntryRepository) Put(ctx context.Context, tenant types.TenantID, entry *model.MemoryEntry) error {
	if entry.ID == "" {
		entry.ID = model.NewMemoryEntryID()
	}
	entry.Tenant = tenant
	if entry.TTLDays == 0 {
		entry.TTLDays = model.DefaultMemoryTTLDays
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	docRef := r.memoriesCollection(tenant, entry.Subject).Doc(string(entry.ID))
	if _, err := docRef.Set(ctx, toMemoryEntryDoc(entry)); err != nil {
		return goerr.Wrap(err, "failed to put memory entry", goerr.V("entryID", entry.ID))
	}
	return nil
}

func (r *memoryEntryRepository) List(ctx context.Context, tenant types.TenantID, subject types.SubjectID, limit int) ([]*model.MemoryEntry, error) {
	q := r.memoriesCollection(tenant, subject).
		OrderBy("CreatedAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	now := time.Now().UTC()
	entries := make([]*model.MemoryEntry, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate memory entries")
		}

		var d memoryEntryDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal memory entry")
		}

		entry := fromMemoryEntryDoc(tenant, &d)
		if entry.Expired(now) {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (r *memoryEntryRepository) FindByEmbedding(ctx context.Context, tenant types.TenantID, subject types.SubjectID, embedding []float32, limit int) ([]*model.MemoryEntry, error) {
	vq := r.memoriesCollection(tenant, subject).
		FindNearest("Embedding", firestore.Vector32(embedding), limit, firestore.DistanceMeasureCosine, nil)

	iter := vq.Documents(ctx)
	defer iter.Stop()

	now := time.Now().UTC()
	entries := make([]*model.MemoryEntry, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate memory entry vector search results")
		}

		var d memoryEntryDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal memory entry from vector search")
		}

		entry := fromMemoryEntryDoc(tenant, &d)
		if entry.Expired(now) {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
