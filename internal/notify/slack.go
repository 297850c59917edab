package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/wolfman30/synapse-leads/pkg/logging"
)

// SlackSender posts messages to a Slack incoming webhook.
type SlackSender struct {
	webhookURL string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewSlackSender creates a Slack webhook sender. Returns nil when no webhook
// URL is configured, which disables the channel.
func NewSlackSender(webhookURL string, logger *logging.Logger) *SlackSender {
	if webhookURL == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SlackSender{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// Post sends a message to the webhook.
func (s *SlackSender) Post(ctx context.Context, msg SlackMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("notify: marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("notify: build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: slack post failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notify: slack webhook returned status %d", resp.StatusCode)
	}

	s.logger.Info("slack notification sent")
	return nil
}

// Ensure interface compliance
var _ SlackPoster = (*SlackSender)(nil)
