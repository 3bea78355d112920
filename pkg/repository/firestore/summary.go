package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// summaryDoc is the Firestore document representation of model.CallSummary.
// The document ID is the CallID. Uniqueness is enforced per tenant via the
// call registry, not per subject subcollection.
type summaryDoc struct {
	ID               model.CallSummaryID    `firestore:"ID"`
	Subject          types.SubjectID        `firestore:"Subject"`
	CallID           types.CallID           `firestore:"CallID"`
	OccurredAt       time.Time              `firestore:"OccurredAt"`
	Summary          string                 `firestore:"Summary"`
	Topics           []string               `firestore:"Topics"`
	Variables        map[string]string      `firestore:"Variables"`
	Sentiment        types.Sentiment        `firestore:"Sentiment"`
	ResolutionStatus types.ResolutionStatus `firestore:"ResolutionStatus"`
	DurationSeconds  int                    `firestore:"DurationSeconds"`
	Embedding        firestore.Vector32     `firestore:"Embedding,omitempty"`
	CreatedAt        time.Time              `firestore:"CreatedAt"`
}

func toSummaryDoc(s *model.CallSummary) *summaryDoc {
	doc := &summaryDoc{
		ID:               s.ID,
		Subject:          s.Subject,
		CallID:           s.CallID,
		OccurredAt:       s.OccurredAt,
		Summary:          s.Summary,
		Topics:           s.Topics,
		Variables:        s.Variables,
		Sentiment:        s.Sentiment,
		ResolutionStatus: s.ResolutionStatus,
		DurationSeconds:  s.DurationSeconds,
		CreatedAt:        s.CreatedAt,
	}
	if len(s.Embedding) > 0 {
		doc.Embedding = firestore.Vector32(s.Embedding)
	}
	return doc
}

func fromSummaryDoc(tenant types.TenantID, d *summaryDoc) *model.CallSummary {
	s := &model.CallSummary{
		ID:               d.ID,
		Tenant:           tenant,
		Subject:          d.Subject,
		CallID:           d.CallID,
		OccurredAt:       d.OccurredAt,
		Summary:          d.Summary,
		Topics:           d.Topics,
		Variables:        d.Variables,
		Sentiment:        d.Sentiment.Normalize(),
		ResolutionStatus: d.ResolutionStatus.Normalize(),
		DurationSeconds:  d.DurationSeconds,
		CreatedAt:        d.CreatedAt,
	}
	if len(d.Embedding) > 0 {
		s.Embedding = []float32(d.Embedding)
	}
	return s
}

type summaryRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newSummaryRepository(client *firestore.Client) *summaryRepository {
	return &summaryRepository{client: client}
}

// summariesCollection returns the subcollection path:
// tenants/{tenant}/subjects/{subject}/summaries
func (r *summaryRepository) summariesCollection(tenant types.TenantID, subject types.SubjectID) *firestore.CollectionRef {
	return tenantDoc(r.client, r.collectionPrefix, tenant).
		Collection("subjects").Doc(string(subject)).
		Collection("summaries")
}

// callsCollection returns the per-tenant call registry path:
// tenants/{tenant}/calls. One document per call ID, so a call ID cannot be
// reused across subjects of the same tenant.
func (r *summaryRepository) callsCollection(tenant types.TenantID) *firestore.CollectionRef {
	return tenantDoc(r.client, r.collectionPrefix, tenant).Collection("calls")
}

type callRegistryDoc struct {
	Subject   types.SubjectID     `firestore:"Subject"`
	SummaryID model.CallSummaryID `firestore:"SummaryID"`
	CreatedAt time.Time           `firestore:"CreatedAt"`
}

func (r *summaryRepository) Put(ctx context.Context, tenant types.TenantID, summary *model.CallSummary) error {
	if summary.ID == "" {
		summary.ID = model.NewCallSummaryID()
	}
	summary.Tenant = tenant
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = time.Now().UTC()
	}

	registryRef := r.callsCollection(tenant).Doc(string(summary.CallID))
	docRef := r.summariesCollection(tenant, summary.Subject).Doc(string(summary.CallID))

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(registryRef); err == nil {
			return goerr.Wrap(types.ErrConflict, "summary already exists for call",
				goerr.V("call_id", summary.CallID))
		} else if status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to read call registry", goerr.V("call_id", summary.CallID))
		}

		if err := tx.Create(registryRef, callRegistryDoc{
			Subject:   summary.Subject,
			SummaryID: summary.ID,
			CreatedAt: summary.CreatedAt,
		}); err != nil {
			return goerr.Wrap(err, "failed to register call", goerr.V("call_id", summary.CallID))
		}
		if err := tx.Create(docRef, toSummaryDoc(summary)); err != nil {
			return goerr.Wrap(err, "failed to create summary", goerr.V("call_id", summary.CallID))
		}
		return nil
	})
}

func (r *summaryRepository) Get(ctx context.Context, tenant types.TenantID, subject types.SubjectID, callID types.CallID) (*model.CallSummary, error) {
	doc, err := r.summariesCollection(tenant, subject).Doc(string(callID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(types.ErrNotFound, "summary not found", goerr.V("call_id", callID))
		}
		return nil, goerr.Wrap(err, "failed to get summary", goerr.V("call_id", callID))
	}

	var d summaryDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal summary", goerr.V("call_id", callID))
	}
	return fromSummaryDoc(tenant, &d), nil
}

func (r *summaryRepository) ListRecent(ctx context.Context, tenant types.TenantID, subject types.SubjectID, limit int) ([]*model.CallSummary, error) {
	q := r.summariesCollection(tenant, subject).
		OrderBy("OccurredAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	summaries := make([]*model.CallSummary, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate summaries")
		}

		var d summaryDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal summary")
		}
		summaries = append(summaries, fromSummaryDoc(tenant, &d))
	}

	return summaries, nil
}

func (r *summaryRepository) FindByEmbedding(ctx context.Context, tenant types.TenantID, subject types.SubjectID, embedding []float32, limit int) ([]*model.CallSummary, error) {
	vq := r.summariesCollection(tenant, subject).
		FindNearest("Embedding", firestore.Vector32(embedding), limit, firestore.DistanceMeasureCosine, nil)

	iter := vq.Documents(ctx)
	defer iter.Stop()

	summaries := make([]*model.CallSummary, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate summary vector search results")
		}

		var d summaryDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal summary from vector search")
		}
		summaries = append(summaries, fromSummaryDoc(tenant, &d))
	}

	return summaries, nil
}
