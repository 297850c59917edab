package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/wolfman30/synapse-leads/internal/agent"
	"github.com/wolfman30/synapse-leads/internal/queue"
)

// sqsCompletion replaces an empty or broken agent response on the queue path.
const sqsCompletion = "Lead processed via SQS"

// ProcessQueueRecord handles one SQS message body: parse the lead, invoke the
// agent directly, and notify. The queue path has its own delivery retries, so
// no breaker or backoff wraps the call here.
func (s *Service) ProcessQueueRecord(ctx context.Context, body string) error {
	ctx, span := s.tracer.Start(ctx, "pipeline.ProcessQueueRecord")
	defer span.End()

	var msg queue.Message
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		return fmt.Errorf("pipeline: decode queue message: %w", err)
	}
	if msg.Text == "" {
		return fmt.Errorf("pipeline: queue message has no lead text")
	}
	if s.agent == nil {
		return fmt.Errorf("pipeline: agent not configured")
	}

	sessionID := queueSessionID(msg.Text)
	s.logger.Info("processing queued lead", "session_id", sessionID)

	completion, err := s.agent.Invoke(ctx, sessionID, msg.Text)
	if err != nil {
		var streamErr *agent.StreamError
		if !errors.As(err, &streamErr) {
			return fmt.Errorf("pipeline: agent invocation: %w", err)
		}
		s.logger.Error("error processing agent response stream", "error", streamErr.Err)
		completion = ""
	}
	if completion == "" {
		completion = sqsCompletion
	}

	s.notifier.Notify(ctx, completion, msg.Text)
	s.logger.Info("successfully processed queued lead", "session_id", sessionID)
	return nil
}

// queueSessionID derives a small stable session id from the lead text.
func queueSessionID(text string) string {
	h := fnv.New32a()
	h.Write([]byte(text))
	return fmt.Sprintf("sqs-%d", h.Sum32()%10000)
}
