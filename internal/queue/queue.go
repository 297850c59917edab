// Package queue hands leads off to SQS for asynchronous processing.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/wolfman30/synapse-leads/pkg/logging"
)

// SendAPI is the subset of the SQS client used by Queue.
type SendAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Message is the queued lead payload.
type Message struct {
	Text string `json:"text"`
}

// Queue enqueues lead text for the worker lambda. Sends carry a short timeout
// so a stuck queue never eats the invocation budget; callers fall back to
// direct processing on error.
type Queue struct {
	api         SendAPI
	queueURL    string
	sendTimeout time.Duration
	logger      *logging.Logger
}

// New creates a queue wrapper around the provided SQS client.
func New(api SendAPI, queueURL string, sendTimeout time.Duration, logger *logging.Logger) *Queue {
	if api == nil {
		panic("queue: SQS client cannot be nil")
	}
	if queueURL == "" {
		panic("queue: queueURL cannot be empty")
	}
	if sendTimeout <= 0 {
		sendTimeout = 3 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Queue{api: api, queueURL: queueURL, sendTimeout: sendTimeout, logger: logger}
}

// EnqueueLead sends the extracted lead text as a JSON message body.
func (q *Queue) EnqueueLead(ctx context.Context, text string) error {
	body, err := json.Marshal(Message{Text: text})
	if err != nil {
		return fmt.Errorf("queue: marshal lead message: %w", err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, q.sendTimeout)
	defer cancel()

	_, err = q.api.SendMessage(sendCtx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("queue: failed to send SQS message: %w", err)
	}

	q.logger.Info("lead queued for async processing", "queue_url", q.queueURL)
	return nil
}
