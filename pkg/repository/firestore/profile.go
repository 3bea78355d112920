package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type profileDoc struct {
	Subject     types.SubjectID   `firestore:"Subject"`
	DisplayName string            `firestore:"DisplayName"`
	Preferences map[string]string `firestore:"Preferences"`
	Notes       string            `firestore:"Notes"`
	FirstCallAt time.Time         `firestore:"FirstCallAt"`
	LastCallAt  time.Time         `firestore:"LastCallAt"`
	TotalCalls  int               `firestore:"TotalCalls"`
	CreatedAt   time.Time         `firestore:"CreatedAt"`
	UpdatedAt   time.Time         `firestore:"UpdatedAt"`
}

func toProfileDoc(p *model.CallerProfile) *profileDoc {
	return &profileDoc{
		Subject:     p.Subject,
		DisplayName: p.DisplayName,
		Preferences: p.Preferences,
		Notes:       p.Notes,
		FirstCallAt: p.FirstCallAt,
		LastCallAt:  p.LastCallAt,
		TotalCalls:  p.TotalCalls,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func fromProfileDoc(tenant types.TenantID, d *profileDoc) *model.CallerProfile {
	return &model.CallerProfile{
		Tenant:      tenant,
		Subject:     d.Subject,
		DisplayName: d.DisplayName,
		Preferences: d.Preferences,
		Notes:       d.Notes,
		FirstCallAt: d.FirstCallAt,
		LastCallAt:  d.LastCallAt,
		TotalCalls:  d.TotalCalls,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type profileRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newProfileRepository(client *firestore.Client) *profileRepository {
	return &profileRepository{client: client}
}

// profilesCollection returns the subcollection path:
// tenants/{tenant}/profiles
func (r *profileRepository) profilesCollection(tenant types.TenantID) *firestore.CollectionRef {
	return tenantDoc(r.client, r.collectionPrefix, tenant).Collection("profiles")
}

func (r *profileRepository) Get(ctx context.Context, tenant types.TenantID, subject types.SubjectID) (*model.CallerProfile, error) {
	doc, err := r.profilesCollection(tenant).Doc(string(subject)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(types.ErrNotFound, "profile not found", goerr.V("subject", subject))
		}
		return nil, goerr.Wrap(err, "failed to get profile", goerr.V("subject", subject))
	}

	var d profileDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal profile", goerr.V("subject", subject))
	}
	return fromProfileDoc(tenant, &d), nil
}

func (r *profileRepository) GetOrCreate(ctx context.Context, tenant types.TenantID, subject types.SubjectID) (*model.CallerProfile, error) {
	docRef := r.profilesCollection(tenant).Doc(string(subject))

	var result *model.CallerProfile
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				created := model.NewCallerProfile(tenant, subject, time.Now().UTC())
				result = created
				return tx.Set(docRef, toProfileDoc(created))
			}
			return goerr.Wrap(err, "failed to get profile")
		}

		var d profileDoc
		if err := doc.DataTo(&d); err != nil {
			return goerr.Wrap(err, "failed to unmarshal profile")
		}
		result = fromProfileDoc(tenant, &d)
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get or create profile", goerr.V("subject", subject))
	}
	return result, nil
}

// RecordCall increments TotalCalls and advances LastCallAt inside a
// transaction so concurrent completions each count exactly once.
func (r *profileRepository) RecordCall(ctx context.Context, tenant types.TenantID, subject types.SubjectID, calledAt time.Time) (*model.CallerProfile, error) {
	docRef := r.profilesCollection(tenant).Doc(string(subject))

	var result *model.CallerProfile
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var profile *model.CallerProfile

		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) != codes.NotFound {
				return goerr.Wrap(err, "failed to get profile")
			}
			profile = model.NewCallerProfile(tenant, subject, calledAt)
		} else {
			var d profileDoc
			if err := doc.DataTo(&d); err != nil {
				return goerr.Wrap(err, "failed to unmarshal profile")
			}
			profile = fromProfileDoc(tenant, &d)
		}

		profile.TotalCalls++
		if calledAt.After(profile.LastCallAt) {
			profile.LastCallAt = calledAt
		}
		profile.UpdatedAt = time.Now().UTC()

		result = profile
		return tx.Set(docRef, toProfileDoc(profile))
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to record call", goerr.V("subject", subject))
	}
	return result, nil
}

func (r *profileRepository) Update(ctx context.Context, tenant types.TenantID, profile *model.CallerProfile) error {
	docRef := r.profilesCollection(tenant).Doc(string(profile.Subject))

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(types.ErrNotFound, "profile not found", goerr.V("subject", profile.Subject))
			}
			return goerr.Wrap(err, "failed to get profile")
		}

		var d profileDoc
		if err := doc.DataTo(&d); err != nil {
			return goerr.Wrap(err, "failed to unmarshal profile")
		}
		existing := fromProfileDoc(tenant, &d)

		existing.DisplayName = profile.DisplayName
		existing.Preferences = profile.Preferences
		existing.Notes = profile.Notes
		existing.UpdatedAt = time.Now().UTC()

		return tx.Set(docRef, toProfileDoc(existing))
	})
	if err != nil {
		return goerr.Wrap(err, "failed to update profile", goerr.V("subject", profile.Subject))
	}
	return nil
}
