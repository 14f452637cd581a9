package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/medrec-lab/asclepius/pkg/service/slack"
)

// Slack holds CLI flags for the HIGH risk alert notifier
type Slack struct {
	botToken     string
	alertChannel string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack bot token for HIGH risk alerts",
			Category:    "Notification",
			Sources:     cli.EnvVars("ASCLEPIUS_SLACK_BOT_TOKEN"),
			Destination: &s.botToken,
		},
		&cli.StringFlag{
			Name:        "slack-alert-channel",
			Usage:       "Slack channel for HIGH risk alerts (e.g. #clinical-alerts)",
			Category:    "Notification",
			Sources:     cli.EnvVars("ASCLEPIUS_SLACK_ALERT_CHANNEL"),
			Destination: &s.alertChannel,
		},
	}
}

// IsConfigured reports whether alerting is enabled
func (s *Slack) IsConfigured() bool {
	return s.botToken != "" || s.alertChannel != ""
}

// Configure creates the Slack notifier, or nil when alerting is not
// configured. Setting only one of the two flags is a configuration error.
func (s *Slack) Configure() (slack.Service, error) {
	if s.botToken == "" && s.alertChannel == "" {
		return nil, nil
	}
	if s.botToken == "" || s.alertChannel == "" {
		return nil, goerr.New("slack-bot-token and slack-alert-channel must be set together")
	}

	return slack.New(s.botToken, s.alertChannel)
}
