package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"shift-scheduler/formatter"
	"shift-scheduler/metrics"
	"shift-scheduler/models"

	"github.com/slack-go/slack"
)

const defaultUsername = "shift-scheduler"

// SlackPublisher posts schedules to a Slack incoming webhook.
type SlackPublisher struct {
	webhookURL string
	username   string
	client     *http.Client
}

// NewSlackPublisher creates a publisher for the given webhook URL. A nil
// client gets a client with a 10 second timeout.
func NewSlackPublisher(webhookURL string, client *http.Client) *SlackPublisher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &SlackPublisher{
		webhookURL: webhookURL,
		username:   defaultUsername,
		client:     client,
	}
}

// Publish sends the text rendering of the schedule with a staffing summary.
func (p *SlackPublisher) Publish(ctx context.Context, schedule *models.WeeklySchedule) error {
	msg := &slack.WebhookMessage{
		Username: p.username,
		Text:     Summary(schedule) + "\n```\n" + formatter.FormatText(schedule) + "```",
	}

	if err := slack.PostWebhookCustomHTTPContext(ctx, p.webhookURL, p.client, msg); err != nil {
		metrics.PublishErrorsTotal.WithLabelValues("slack").Inc()
		return fmt.Errorf("failed to post schedule to slack: %w", err)
	}
	return nil
}

// Summary is the one-line headline posted above the schedule.
func Summary(schedule *models.WeeklySchedule) string {
	switch n := len(schedule.Understaffed()); n {
	case 0:
		return ":white_check_mark: Weekly schedule ready, every shift is staffed."
	case 1:
		return ":warning: Weekly schedule ready, 1 shift is understaffed."
	default:
		return fmt.Sprintf(":warning: Weekly schedule ready, %d shifts are understaffed.", n)
	}
}
