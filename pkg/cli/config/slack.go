package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/voiceops-lab/mnemosyne/pkg/service/notify"
	"github.com/voiceops-lab/mnemosyne/pkg/utils/logging"
)

// Slack holds CLI flags for security notification via Slack
type Slack struct {
	oauthToken string
	channelID  string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-oauth-token",
			Usage:       "Slack OAuth token for security notifications (disabled when empty)",
			Sources:     cli.EnvVars("MNEMOSYNE_SLACK_OAUTH_TOKEN"),
			Destination: &s.oauthToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID for security notifications",
			Sources:     cli.EnvVars("MNEMOSYNE_SLACK_CHANNEL_ID"),
			Destination: &s.channelID,
		},
	}
}

// Configure returns a Slack security notifier, or nil when no token is
// configured. Violations are still logged and rejected without it.
func (s *Slack) Configure() (interfaces.SecurityNotifier, error) {
	if s.oauthToken == "" {
		logging.Default().Info("Slack notification is disabled")
		return nil, nil
	}
	if s.channelID == "" {
		return nil, goerr.New("slack-channel-id is required when slack-oauth-token is set")
	}

	logging.Default().Info("Slack notification is enabled", "channel_id", s.channelID)
	return notify.NewSlack(s.oauthToken, s.channelID)
}
