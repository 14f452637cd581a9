package slack

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/medrec-lab/asclepius/pkg/domain/model"
	"github.com/slack-go/slack"
)

// Service posts notifications about analyzed records to Slack
type Service interface {
	// NotifyHighRisk posts an alert message for an analysis whose risk
	// level was classified HIGH
	NotifyHighRisk(ctx context.Context, analysis *model.Analysis) error
}

// client implements Service interface
type client struct {
	api     *slack.Client
	channel string
}

// Option is a functional option for client configuration
type Option func(*client)

// New creates a new Slack service with the provided bot token and alert channel
func New(token, channel string, opts ...Option) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channel == "" {
		return nil, goerr.New("Slack alert channel is required")
	}

	c := &client{
		api:     slack.New(token),
		channel: channel,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// NotifyHighRisk posts a Block Kit alert for a HIGH risk analysis
func (c *client) NotifyHighRisk(ctx context.Context, analysis *model.Analysis) error {
	if analysis == nil {
		return goerr.New("analysis is required")
	}

	blocks := buildHighRiskBlocks(analysis)
	fallback := fmt.Sprintf("High risk detected in %s (%s)", analysis.RecordType, analysis.ID)

	_, _, err := c.api.PostMessageContext(ctx, c.channel,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(fallback, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post high risk alert",
			goerr.V("channel", c.channel),
			goerr.V("analysis_id", analysis.ID))
	}

	return nil
}

// buildHighRiskBlocks renders the alert message. The record content itself
// is never included; only the derived summary and risk explanation are.
func buildHighRiskBlocks(analysis *model.Analysis) []slack.Block {
	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, ":rotating_light: High Risk Record", true, false),
		),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*Record Type:*\n%s", analysis.RecordType), false, false),
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*Risk Level:*\n%s", analysis.Risk.Level), false, false),
		}, nil),
	}

	if analysis.Risk.Explanation != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*Assessment:*\n%s", analysis.Risk.Explanation), false, false),
			nil, nil))
	}

	if analysis.Summary.Text != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*Summary:*\n%s", analysis.Summary.Text), false, false),
			nil, nil))
	}

	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("Analysis `%s` | confidence %.2f", analysis.ID, analysis.Risk.Confidence), false, false),
	))

	return blocks
}
