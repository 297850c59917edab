// Package pipeline orchestrates lead intake: webhook classification, queue
// handoff, resilient agent invocation, notifications, and trigger-specific
// response shaping.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/synapse-leads/internal/agent"
	"github.com/wolfman30/synapse-leads/internal/notify"
	"github.com/wolfman30/synapse-leads/internal/resilience"
	"github.com/wolfman30/synapse-leads/internal/trigger"
	"github.com/wolfman30/synapse-leads/pkg/logging"
)

const (
	// fallbackCompletion stands in for the agent response when the completion
	// stream breaks after a successful invocation.
	fallbackCompletion = "Lead processed successfully"

	// degradedCompletion is returned when the agent cannot be reached at all,
	// breaker included.
	degradedCompletion = "Lead processed successfully (fallback mode)"

	queuedBody = "Lead queued for processing - notifications will be delivered within 1-3 minutes"
)

// AgentInvoker sends lead text to the extraction agent.
type AgentInvoker interface {
	Invoke(ctx context.Context, sessionID, inputText string) (string, error)
}

// LeadQueue hands lead text off for asynchronous processing.
type LeadQueue interface {
	EnqueueLead(ctx context.Context, text string) error
}

// Notifier announces a processed lead.
type Notifier interface {
	Notify(ctx context.Context, agentResponse, originalContent string)
}

// Result is a trigger-appropriate HTTP response.
type Result struct {
	StatusCode  int
	Body        string
	ContentType string
}

// Service is the webhook-facing lead pipeline. agent and queue may be nil when
// unconfigured; a nil agent fails requests, a nil queue skips the async path.
type Service struct {
	agent    AgentInvoker
	queue    LeadQueue
	notifier Notifier
	breaker  *resilience.Breaker
	retrier  *resilience.Retrier
	logger   *logging.Logger
	tracer   trace.Tracer
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithQueue enables the async SQS path.
func WithQueue(q LeadQueue) ServiceOption {
	return func(s *Service) {
		s.queue = q
	}
}

// WithBreaker overrides the default circuit breaker.
func WithBreaker(b *resilience.Breaker) ServiceOption {
	return func(s *Service) {
		if b != nil {
			s.breaker = b
		}
	}
}

// WithRetrier overrides the default retrier.
func WithRetrier(r *resilience.Retrier) ServiceOption {
	return func(s *Service) {
		if r != nil {
			s.retrier = r
		}
	}
}

// NewService creates the pipeline. agentClient may be nil when the agent is
// not configured; requests then fail with a 500 after classification.
func NewService(agentClient AgentInvoker, notifier Notifier, logger *logging.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Service{
		agent:    agentClient,
		notifier: notifier,
		breaker:  resilience.NewBreaker(),
		logger:   logger,
		tracer:   otel.Tracer("synapse-leads/pipeline"),
	}
	s.retrier = resilience.NewRetrier(agent.IsTransient, logger)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HandleWebhook runs the full intake flow for one webhook event.
func (s *Service) HandleWebhook(ctx context.Context, evt trigger.Event) Result {
	ctx, span := s.tracer.Start(ctx, "pipeline.HandleWebhook")
	defer span.End()

	triggerType, content := trigger.Classify(evt)
	span.SetAttributes(attribute.String("trigger.type", string(triggerType)))
	s.logger.Info("classified webhook", "trigger_type", triggerType, "path", evt.Path)

	if content == "" {
		s.logger.Warn("no content extracted from webhook payload")
		return Result{StatusCode: 400, Body: "No content found in webhook payload", ContentType: "text/plain"}
	}

	if s.agent == nil {
		s.logger.Error("agent ID or alias ID not configured")
		return Result{StatusCode: 500, Body: "Agent not configured", ContentType: "text/plain"}
	}

	sessionID := trigger.SessionID(triggerType, evt)
	span.SetAttributes(attribute.String("session.id", sessionID))
	s.logger.Info("invoking agent", "session_id", sessionID)

	// Prefer the async path when a queue is configured; fall back to direct
	// processing if the send fails.
	if s.queue != nil {
		err := s.queue.EnqueueLead(ctx, content)
		if err == nil {
			return Result{StatusCode: 200, Body: queuedBody, ContentType: "text/plain"}
		}
		s.logger.Warn("SQS failed, falling back to direct processing", "error", err)
	}

	completion, err := s.invokeResilient(ctx, sessionID, content)
	if err != nil {
		s.logger.Error("circuit breaker or agent failure", "error", err, "breaker_state", s.breaker.State().String())
		completion = degradedCompletion
		s.notifier.Notify(ctx, completion, content)
		return Result{StatusCode: 200, Body: completion, ContentType: "text/plain"}
	}

	s.logger.Info("agent response received", "session_id", sessionID, "length", len(completion))
	s.notifier.Notify(ctx, completion, content)

	return formatResponse(triggerType, completion)
}

// invokeResilient runs the agent call under the breaker, with retry composed
// inside so one webhook counts as one unit of breaker work. A broken
// completion stream after a successful invocation is a degraded success, not
// a dependency failure.
func (s *Service) invokeResilient(ctx context.Context, sessionID, content string) (string, error) {
	var completion string
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.retrier.Do(ctx, func(ctx context.Context) error {
			out, err := s.agent.Invoke(ctx, sessionID, content)
			if err != nil {
				var streamErr *agent.StreamError
				if errors.As(err, &streamErr) {
					s.logger.Error("error processing agent response stream", "error", streamErr.Err)
					completion = fallbackCompletion
					return nil
				}
				return err
			}
			completion = out
			return nil
		})
	})
	if err != nil {
		return "", err
	}
	return completion, nil
}

type slackResponse struct {
	ResponseType string                   `json:"response_type"`
	Text         string                   `json:"text"`
	Attachments  []notify.SlackAttachment `json:"attachments,omitempty"`
}

// formatResponse shapes the agent completion for the caller: Slack gets its
// message JSON, email webhooks get a one-line summary, generic callers get
// the completion verbatim.
func formatResponse(triggerType trigger.Type, completion string) Result {
	switch triggerType {
	case trigger.TypeChat:
		return Result{StatusCode: 200, Body: slackBody(completion), ContentType: "application/json"}
	case trigger.TypeEmail:
		return Result{StatusCode: 200, Body: emailBody(completion), ContentType: "text/plain"}
	default:
		return Result{StatusCode: 200, Body: completion, ContentType: "text/plain"}
	}
}

func slackBody(completion string) string {
	var agentData struct {
		Summary  string `json:"summary"`
		Priority string `json:"priority"`
		Action   string `json:"action"`
	}
	if err := json.Unmarshal([]byte(completion), &agentData); err != nil {
		short := completion
		if len(short) > 200 {
			short = short[:200]
		}
		body, _ := json.Marshal(slackResponse{
			ResponseType: "in_channel",
			Text:         fmt.Sprintf("Lead processed: %s...", short),
		})
		return string(body)
	}

	if agentData.Summary == "" {
		agentData.Summary = "Lead processed"
	}
	if agentData.Priority == "" {
		agentData.Priority = "Medium"
	}
	if agentData.Action == "" {
		agentData.Action = "unknown"
	}

	body, _ := json.Marshal(slackResponse{
		ResponseType: "in_channel",
		Text:         "Lead Processed",
		Attachments: []notify.SlackAttachment{{
			Color: notify.PriorityColor(agentData.Priority),
			Fields: []notify.SlackField{
				{Title: "Summary", Value: agentData.Summary, Short: false},
				{Title: "Priority", Value: agentData.Priority, Short: true},
				{Title: "Action", Value: agentData.Action, Short: true},
			},
		}},
	})
	return string(body)
}

func emailBody(completion string) string {
	var agentData struct {
		Summary  string `json:"summary"`
		Priority string `json:"priority"`
	}
	if err := json.Unmarshal([]byte(completion), &agentData); err != nil {
		return fmt.Sprintf("Lead processed: %s", completion)
	}
	if agentData.Summary == "" {
		agentData.Summary = "Lead processed"
	}
	if agentData.Priority == "" {
		agentData.Priority = "Medium"
	}
	return fmt.Sprintf("Lead processed with %s priority: %s", agentData.Priority, agentData.Summary)
}
