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

type snapshotDoc struct {
	ID         model.PersonalitySnapshotID `firestore:"ID"`
	Subject    types.SubjectID             `firestore:"Subject"`
	CallID     types.CallID                `firestore:"CallID"`
	MeasuredAt time.Time                   `firestore:"MeasuredAt"`

	Openness          float64 `firestore:"Openness"`
	Conscientiousness float64 `firestore:"Conscientiousness"`
	Extraversion      float64 `firestore:"Extraversion"`
	Agreeableness     float64 `firestore:"Agreeableness"`
	Neuroticism       float64 `firestore:"Neuroticism"`
	Formality         float64 `firestore:"Formality"`
	Directness        float64 `firestore:"Directness"`
	DetailOrientation float64 `firestore:"DetailOrientation"`
	Patience          float64 `firestore:"Patience"`
	TechnicalComfort  float64 `firestore:"TechnicalComfort"`
	FrustrationLevel  float64 `firestore:"FrustrationLevel"`
	SatisfactionLevel float64 `firestore:"SatisfactionLevel"`
	UrgencyLevel      float64 `firestore:"UrgencyLevel"`
}

func toSnapshotDoc(s *model.PersonalitySnapshot) *snapshotDoc {
	return &snapshotDoc{
		ID:         s.ID,
		Subject:    s.Subject,
		CallID:     s.CallID,
		MeasuredAt: s.MeasuredAt,

		Openness:          s.Scores.Openness,
		Conscientiousness: s.Scores.Conscientiousness,
		Extraversion:      s.Scores.Extraversion,
		Agreeableness:     s.Scores.Agreeableness,
		Neuroticism:       s.Scores.Neuroticism,
		Formality:         s.Scores.Formality,
		Directness:        s.Scores.Directness,
		DetailOrientation: s.Scores.DetailOrientation,
		Patience:          s.Scores.Patience,
		TechnicalComfort:  s.Scores.TechnicalComfort,
		FrustrationLevel:  s.Scores.FrustrationLevel,
		SatisfactionLevel: s.Scores.SatisfactionLevel,
		UrgencyLevel:      s.Scores.UrgencyLevel,
	}
}

func fromSnapshotDoc(tenant types.TenantID, d *snapshotDoc) *model.PersonalitySnapshot {
	return &model.PersonalitySnapshot{
		ID:         d.ID,
		Tenant:     tenant,
		Subject:    d.Subject,
		CallID:     d.CallID,
		MeasuredAt: d.MeasuredAt,
		Scores: model.ScoreSet{
			Openness:          d.Openness,
			Conscientiousness: d.Conscientiousness,
			Extraversion:      d.Extraversion,
			Agreeableness:     d.Agreeableness,
			Neuroticism:       d.Neuroticism,
			Formality:         d.Formality,
			Directness:        d.Directness,
			DetailOrientation: d.DetailOrientation,
			Patience:          d.Patience,
			TechnicalComfort:  d.TechnicalComfort,
			FrustrationLevel:  d.FrustrationLevel,
			SatisfactionLevel: d.SatisfactionLevel,
			UrgencyLevel:      d.UrgencyLevel,
		},
	}
}

type aggregateDoc struct {
	Subject   types.SubjectID `firestore:"Subject"`
	CallCount int             `firestore:"CallCount"`

	AvgOpenness          float64 `firestore:"AvgOpenness"`
	AvgConscientiousness float64 `firestore:"AvgConscientiousness"`
	AvgExtraversion      float64 `firestore:"AvgExtraversion"`
	AvgAgreeableness     float64 `firestore:"AvgAgreeableness"`
	AvgNeuroticism       float64 `firestore:"AvgNeuroticism"`
	AvgFormality         float64 `firestore:"AvgFormality"`
	AvgDirectness        float64 `firestore:"AvgDirectness"`
	AvgDetailOrientation float64 `firestore:"AvgDetailOrientation"`
	AvgPatience          float64 `firestore:"AvgPatience"`
	AvgTechnicalComfort  float64 `firestore:"AvgTechnicalComfort"`

	RecentFrustration  float64 `firestore:"RecentFrustration"`
	RecentSatisfaction float64 `firestore:"RecentSatisfaction"`
	RecentUrgency      float64 `firestore:"RecentUrgency"`

	SatisfactionTrend types.Trend `firestore:"SatisfactionTrend"`
	LastUpdated       time.Time   `firestore:"LastUpdated"`
}

func toAggregateDoc(a *model.PersonalityAggregate) *aggregateDoc {
	return &aggregateDoc{
		Subject:              a.Subject,
		CallCount:            a.CallCount,
		AvgOpenness:          a.AvgOpenness,
		AvgConscientiousness: a.AvgConscientiousness,
		AvgExtraversion:      a.AvgExtraversion,
		AvgAgreeableness:     a.AvgAgreeableness,
		AvgNeuroticism:       a.AvgNeuroticism,
		AvgFormality:         a.AvgFormality,
		AvgDirectness:        a.AvgDirectness,
		AvgDetailOrientation: a.AvgDetailOrientation,
		AvgPatience:          a.AvgPatience,
		AvgTechnicalComfort:  a.AvgTechnicalComfort,
		RecentFrustration:    a.RecentFrustration,
		RecentSatisfaction:   a.RecentSatisfaction,
		RecentUrgency:        a.RecentUrgency,
		SatisfactionTrend:    a.SatisfactionTrend,
		LastUpdated:          a.LastUpdated,
	}
}

func fromAggregateDoc(tenant types.TenantID, d *aggregateDoc) *model.PersonalityAggregate {
	return &model.PersonalityAggregate{
		Tenant:               tenant,
		Subject:              d.Subject,
		CallCount:            d.CallCount,
		AvgOpenness:          d.AvgOpenness,
		AvgConscientiousness: d.AvgConscientiousness,
		AvgExtraversion:      d.AvgExtraversion,
		AvgAgreeableness:     d.AvgAgreeableness,
		AvgNeuroticism:       d.AvgNeuroticism,
		AvgFormality:         d.AvgFormality,
		AvgDirectness:        d.AvgDirectness,
		AvgDetailOrientation: d.AvgDetailOrientation,
		AvgPatience:          d.AvgPatience,
		AvgTechnicalComfort:  d.AvgTechnicalComfort,
		RecentFrustration:    d.RecentFrustration,
		RecentSatisfaction:   d.RecentSatisfaction,
		RecentUrgency:        d.RecentUrgency,
		SatisfactionTrend:    d.SatisfactionTrend,
		LastUpdated:          d.LastUpdated,
	}
}

type personalityRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newPersonalityRepository(client *firestore.Client) *personalityRepository {
	return &personalityRepository{client: client}
}

// snapshotsCollection returns the subcollection path:
// tenants/{tenant}/subjects/{subject}/snapshots
func (r *personalityRepository) snapshotsCollection(tenant types.TenantID, subject types.SubjectID) *firestore.CollectionRef {
	return tenantDoc(r.client, r.collectionPrefix, tenant).
		Collection("subjects").Doc(string(subject)).
		Collection("snapshots")
}

// aggregatesCollection returns the subcollection path:
// tenants/{tenant}/aggregates
func (r *personalityRepository) aggregatesCollection(tenant types.TenantID) *firestore.CollectionRef {
	return tenantDoc(r.client, r.collectionPrefix, tenant).Collection("aggregates")
}

func (r *personalityRepository) PutSnapshot(ctx context.Context, tenant types.TenantID, snapshot *model.PersonalitySnapshot) error {
	if err := snapshot.Validate(); err != nil {
		return goerr.Wrap(err, "rejecting personality snapshot",
			goerr.V("subject", snapshot.Subject), goerr.V("call_id", snapshot.CallID))
	}
	if snapshot.ID == "" {
		snapshot.ID = model.NewPersonalitySnapshotID()
	}
	snapshot.Tenant = tenant

	docRef := r.snapshotsCollection(tenant, snapshot.Subject).Doc(string(snapshot.ID))
	if _, err := docRef.Set(ctx, toSnapshotDoc(snapshot)); err != nil {
		return goerr.Wrap(err, "failed to put personality snapshot", goerr.V("snapshotID", snapshot.ID))
	}
	return nil
}

func (r *personalityRepository) ListSnapshots(ctx context.Context, tenant types.TenantID, subject types.SubjectID) ([]*model.PersonalitySnapshot, error) {
	iter := r.snapshotsCollection(tenant, subject).
		OrderBy("MeasuredAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	snapshots := make([]*model.PersonalitySnapshot, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate personality snapshots")
		}

		var d snapshotDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal personality snapshot")
		}
		snapshots = append(snapshots, fromSnapshotDoc(tenant, &d))
	}

	return snapshots, nil
}

func (r *personalityRepository) GetAggregate(ctx context.Context, tenant types.TenantID, subject types.SubjectID) (*model.PersonalityAggregate, error) {
	doc, err := r.aggregatesCollection(tenant).Doc(string(subject)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(types.ErrNotFound, "aggregate not found", goerr.V("subject", subject))
		}
		return nil, goerr.Wrap(err, "failed to get aggregate", goerr.V("subject", subject))
	}

	var d aggregateDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal aggregate", goerr.V("subject", subject))
	}
	return fromAggregateDoc(tenant, &d), nil
}

func (r *personalityRepository) PutAggregate(ctx context.Context, tenant types.TenantID, aggregate *model.PersonalityAggregate) error {
	aggregate.Tenant = tenant

	docRef := r.aggregatesCollection(tenant).Doc(string(aggregate.Subject))
	if _, err := docRef.Set(ctx, toAggregateDoc(aggregate)); err != nil {
		return goerr.Wrap(err, "failed to put aggregate", goerr.V("subject", aggregate.Subject))
	}
	return nil
}
