// Package notify delivers security events to an external channel. The only
// producer today is the tenant isolation guard.
package notify

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
)

type slackNotifier struct {
	api       *slack.Client
	channelID string
}

var _ interfaces.SecurityNotifier = &slackNotifier{}

// NewSlack creates a Slack security notifier posting to the given channel
func NewSlack(token, channelID string) (interfaces.SecurityNotifier, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel ID is required")
	}

	return &slackNotifier{
		api:       slack.New(token),
		channelID: channelID,
	}, nil
}

func (n *slackNotifier) NotifyIsolationViolation(ctx context.Context, violation *model.IsolationViolation) error {
	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, ":rotating_light: Tenant isolation violation", false, false),
		),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Bound tenant:*\n%s", violation.BoundTenant), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Requested tenant:*\n%s", violation.RequestedTenant), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Operation:*\n%s", violation.Operation), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Occurred at:*\n%s", violation.OccurredAt.Format("2006-01-02 15:04:05 UTC")), false, false),
		}, nil),
	}

	fallbackText := fmt.Sprintf("Tenant isolation violation: %s attempted to access %s via %s",
		violation.BoundTenant, violation.RequestedTenant, violation.Operation)

	_, _, err := n.api.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(fallbackText, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post isolation violation to Slack",
			goerr.V("channelID", n.channelID))
	}
	return nil
}
