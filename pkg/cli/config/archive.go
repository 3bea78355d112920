package config

import (
	"context"

	"github.com/urfave/cli/v3"
	"github.com/voiceops-lab/mnemosyne/pkg/service/archive"
	"github.com/voiceops-lab/mnemosyne/pkg/utils/logging"
)

// Archive holds CLI flags for transcript archiving
type Archive struct {
	bucket string
}

// Flags returns CLI flags for archive configuration
func (a *Archive) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "archive-bucket",
			Usage:       "Cloud Storage bucket for raw transcript archives (disabled when empty)",
			Sources:     cli.EnvVars("MNEMOSYNE_ARCHIVE_BUCKET"),
			Destination: &a.bucket,
		},
	}
}

// Configure returns a transcript archiver, or nil when archiving is not
// configured.
func (a *Archive) Configure(ctx context.Context) (archive.Archiver, error) {
	if a.bucket == "" {
		logging.Default().Info("Transcript archiving is disabled")
		return nil, nil
	}

	archiver, err := archive.NewGCS(ctx, a.bucket)
	if err != nil {
		return nil, err
	}

	logging.Default().Info("Transcript archiving is enabled", "bucket", a.bucket)
	return archiver, nil
}
