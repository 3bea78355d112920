// Package archive cold-stores raw transcripts after processing. Summaries
// are the hot read path; the raw conversation is kept only for audit and
// reprocessing, so archival is optional and failures never fail the call.
package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
	"github.com/voiceops-lab/mnemosyne/pkg/utils/safe"
)

// Archiver stores raw transcripts
type Archiver interface {
	// ArchiveTranscript persists the raw transcript of one call
	ArchiveTranscript(ctx context.Context, tenant types.TenantID, subject types.SubjectID, callID types.CallID, transcript model.Transcript) error
}

type gcsArchiver struct {
	client *storage.Client
	bucket string
}

var _ Archiver = &gcsArchiver{}

// NewGCS creates a Google Cloud Storage transcript archiver
func NewGCS(ctx context.Context, bucket string) (Archiver, error) {
	if bucket == "" {
		return nil, goerr.New("GCS bucket name is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GCS client", goerr.V("bucket", bucket))
	}

	return &gcsArchiver{
		client: client,
		bucket: bucket,
	}, nil
}

type transcriptObject struct {
	Tenant     types.TenantID  `json:"tenant"`
	Subject    types.SubjectID `json:"subject"`
	CallID     types.CallID    `json:"call_id"`
	Transcript model.Transcript `json:"transcript"`
}

func (a *gcsArchiver) ArchiveTranscript(ctx context.Context, tenant types.TenantID, subject types.SubjectID, callID types.CallID, transcript model.Transcript) error {
	objectName := fmt.Sprintf("transcripts/%s/%s/%s.json", tenant, subject, callID)

	w := a.client.Bucket(a.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = "application/json"

	if err := json.NewEncoder(w).Encode(transcriptObject{
		Tenant:     tenant,
		Subject:    subject,
		CallID:     callID,
		Transcript: transcript,
	}); err != nil {
		safe.Close(ctx, w)
		return goerr.Wrap(err, "failed to encode transcript", goerr.V("object", objectName))
	}

	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to write transcript to GCS", goerr.V("object", objectName))
	}
	return nil
}
