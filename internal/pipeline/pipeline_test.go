package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/synapse-leads/internal/agent"
	"github.com/wolfman30/synapse-leads/internal/resilience"
	"github.com/wolfman30/synapse-leads/internal/trigger"
)

type fakeAgent struct {
	response string
	err      error
	calls    int

	gotSessionID string
	gotInput     string
}

func (f *fakeAgent) Invoke(ctx context.Context, sessionID, inputText string) (string, error) {
	f.calls++
	f.gotSessionID = sessionID
	f.gotInput = inputText
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeQueue struct {
	err   error
	calls int
	text  string
}

func (f *fakeQueue) EnqueueLead(ctx context.Context, text string) error {
	f.calls++
	f.text = text
	return f.err
}

type fakeNotifier struct {
	responses []string
	originals []string
}

func (f *fakeNotifier) Notify(ctx context.Context, agentResponse, originalContent string) {
	f.responses = append(f.responses, agentResponse)
	f.originals = append(f.originals, originalContent)
}

func genericEvent(body string) trigger.Event {
	return trigger.Event{Path: "/webhook/generic", Body: body}
}

func TestHandleWebhookNoContent(t *testing.T) {
	svc := NewService(&fakeAgent{}, &fakeNotifier{}, nil)
	result := svc.HandleWebhook(context.Background(), genericEvent(""))

	assert.Equal(t, 400, result.StatusCode)
	assert.Equal(t, "No content found in webhook payload", result.Body)
}

func TestHandleWebhookAgentNotConfigured(t *testing.T) {
	svc := NewService(nil, &fakeNotifier{}, nil)
	result := svc.HandleWebhook(context.Background(), genericEvent(`{"text": "a lead"}`))

	assert.Equal(t, 500, result.StatusCode)
	assert.Equal(t, "Agent not configured", result.Body)
}

func TestHandleWebhookQueuePreferred(t *testing.T) {
	agentClient := &fakeAgent{response: "done"}
	q := &fakeQueue{}
	svc := NewService(agentClient, &fakeNotifier{}, nil, WithQueue(q))

	result := svc.HandleWebhook(context.Background(), genericEvent(`{"text": "a lead"}`))

	assert.Equal(t, 200, result.StatusCode)
	assert.Equal(t, "Lead queued for processing - notifications will be delivered within 1-3 minutes", result.Body)
	assert.Equal(t, "a lead", q.text)
	assert.Zero(t, agentClient.calls, "agent must not be invoked when the queue accepts the lead")
}

func TestHandleWebhookQueueFailureFallsThrough(t *testing.T) {
	agentClient := &fakeAgent{response: "processed directly"}
	notifier := &fakeNotifier{}
	svc := NewService(agentClient, notifier, nil, WithQueue(&fakeQueue{err: errors.New("queue down")}))

	result := svc.HandleWebhook(context.Background(), genericEvent(`{"text": "a lead"}`))

	assert.Equal(t, 200, result.StatusCode)
	assert.Equal(t, "processed directly", result.Body)
	assert.Equal(t, 1, agentClient.calls)
	require.Len(t, notifier.responses, 1)
}

func TestHandleWebhookGenericPassesCompletionThrough(t *testing.T) {
	agentClient := &fakeAgent{response: "raw agent text"}
	notifier := &fakeNotifier{}
	svc := NewService(agentClient, notifier, nil)

	result := svc.HandleWebhook(context.Background(), genericEvent(`{"text": "new lead from Jane"}`))

	assert.Equal(t, 200, result.StatusCode)
	assert.Equal(t, "raw agent text", result.Body)
	assert.Equal(t, "text/plain", result.ContentType)
	assert.Equal(t, "new lead from Jane", agentClient.gotInput)
	assert.Contains(t, agentClient.gotSessionID, "generic-")

	require.Len(t, notifier.responses, 1)
	assert.Equal(t, "raw agent text", notifier.responses[0])
	assert.Equal(t, "new lead from Jane", notifier.originals[0])
}

func TestHandleWebhookSlackResponseFormat(t *testing.T) {
	completion := `{"summary": "Hot lead", "priority": "High", "action": "create_lead"}`
	svc := NewService(&fakeAgent{response: completion}, &fakeNotifier{}, nil)

	result := svc.HandleWebhook(context.Background(), trigger.Event{
		Path: "/webhook/slack",
		Body: `{"text": "new lead", "user_name": "jane"}`,
	})

	assert.Equal(t, 200, result.StatusCode)
	assert.Equal(t, "application/json", result.ContentType)

	var decoded struct {
		ResponseType string `json:"response_type"`
		Text         string `json:"text"`
		Attachments  []struct {
			Color  string `json:"color"`
			Fields []struct {
				Title string `json:"title"`
				Value string `json:"value"`
				Short bool   `json:"short"`
			} `json:"fields"`
		} `json:"attachments"`
	}
	require.NoError(t, json.Unmarshal([]byte(result.Body), &decoded))

	assert.Equal(t, "in_channel", decoded.ResponseType)
	require.Len(t, decoded.Attachments, 1)
	assert.Equal(t, "good", decoded.Attachments[0].Color)
	require.Len(t, decoded.Attachments[0].Fields, 3)
	assert.Equal(t, "Summary", decoded.Attachments[0].Fields[0].Title)
	assert.Equal(t, "Hot lead", decoded.Attachments[0].Fields[0].Value)
	assert.False(t, decoded.Attachments[0].Fields[0].Short)
	assert.Equal(t, "Priority", decoded.Attachments[0].Fields[1].Title)
	assert.True(t, decoded.Attachments[0].Fields[1].Short)
}

func TestHandleWebhookSlackFallbackForNonJSONCompletion(t *testing.T) {
	svc := NewService(&fakeAgent{response: "plain text completion"}, &fakeNotifier{}, nil)

	result := svc.HandleWebhook(context.Background(), trigger.Event{
		Path: "/webhook/slack",
		Body: `{"text": "new lead"}`,
	})

	var decoded struct {
		ResponseType string `json:"response_type"`
		Text         string `json:"text"`
	}
	require.NoError(t, json.Unmarshal([]byte(result.Body), &decoded))
	assert.Equal(t, "in_channel", decoded.ResponseType)
	assert.Equal(t, "Lead processed: plain text completion...", decoded.Text)
}

func TestHandleWebhookEmailResponseFormat(t *testing.T) {
	completion := `{"summary": "Budget confirmed", "priority": "High"}`
	svc := NewService(&fakeAgent{response: completion}, &fakeNotifier{}, nil)

	result := svc.HandleWebhook(context.Background(), trigger.Event{
		Path: "/webhook/email",
		Body: `{"subject": "Demo request", "from": "jane@acme.com", "text": "We want a demo"}`,
	})

	assert.Equal(t, 200, result.StatusCode)
	assert.Equal(t, "text/plain", result.ContentType)
	assert.Equal(t, "Lead processed with High priority: Budget confirmed", result.Body)
}

func TestHandleWebhookAgentFailureDegrades(t *testing.T) {
	agentClient := &fakeAgent{err: errors.New("access denied")}
	notifier := &fakeNotifier{}
	svc := NewService(agentClient, notifier, nil)

	result := svc.HandleWebhook(context.Background(), genericEvent(`{"text": "a lead"}`))

	assert.Equal(t, 200, result.StatusCode)
	assert.Equal(t, "Lead processed successfully (fallback mode)", result.Body)
	require.Len(t, notifier.responses, 1)
	assert.Equal(t, "Lead processed successfully (fallback mode)", notifier.responses[0])
}

func TestHandleWebhookStreamErrorIsDegradedSuccess(t *testing.T) {
	agentClient := &fakeAgent{err: &agent.StreamError{Err: errors.New("connection reset")}}
	notifier := &fakeNotifier{}
	breaker := resilience.NewBreaker()
	svc := NewService(agentClient, notifier, nil, WithBreaker(breaker))

	result := svc.HandleWebhook(context.Background(), genericEvent(`{"text": "a lead"}`))

	assert.Equal(t, 200, result.StatusCode)
	assert.Equal(t, "Lead processed successfully", result.Body)
	assert.Equal(t, 1, agentClient.calls, "stream errors are not retried")
	assert.Zero(t, breaker.FailureCount(), "stream errors do not count against the breaker")
	require.Len(t, notifier.responses, 1)
}

func TestHandleWebhookBreakerOpensAfterRepeatedFailures(t *testing.T) {
	agentClient := &fakeAgent{err: errors.New("hard failure")}
	breaker := resilience.NewBreaker(resilience.WithFailureThreshold(3))
	svc := NewService(agentClient, &fakeNotifier{}, nil, WithBreaker(breaker))

	for i := 0; i < 3; i++ {
		result := svc.HandleWebhook(context.Background(), genericEvent(`{"text": "a lead"}`))
		assert.Equal(t, 200, result.StatusCode)
	}
	assert.Equal(t, resilience.StateOpen, breaker.State())
	assert.Equal(t, 3, agentClient.calls)

	// Open breaker rejects without reaching the agent.
	result := svc.HandleWebhook(context.Background(), genericEvent(`{"text": "a lead"}`))
	assert.Equal(t, 200, result.StatusCode)
	assert.Equal(t, "Lead processed successfully (fallback mode)", result.Body)
	assert.Equal(t, 3, agentClient.calls)
}
