package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSlack struct {
	messages []SlackMessage
	err      error
}

func (f *fakeSlack) Post(ctx context.Context, msg SlackMessage) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}

type fakeEmail struct {
	messages []EmailMessage
	err      error
}

func (f *fakeEmail) Send(ctx context.Context, msg EmailMessage) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}

func TestNotifySendsBothChannels(t *testing.T) {
	slack := &fakeSlack{}
	email := &fakeEmail{}
	svc := NewService(slack, email, "sales@acme.com", nil)

	agentResponse := `{"priority": "High", "summary": "Hot lead from Acme", "action": "create_lead"}`
	svc.Notify(context.Background(), agentResponse, "original webhook text")

	require.Len(t, slack.messages, 1)
	assert.Contains(t, slack.messages[0].Text, "Priority: High")
	assert.Contains(t, slack.messages[0].Text, "Hot lead from Acme")
	assert.Contains(t, slack.messages[0].Text, "original webhook text")

	require.Len(t, email.messages, 1)
	assert.Equal(t, "sales@acme.com", email.messages[0].To)
	assert.Equal(t, "New Lead Processed by Synapse Autonomous Lead Intelligence", email.messages[0].Subject)
	assert.Contains(t, email.messages[0].Body, "Priority: High")
}

func TestNotifyChannelFailureIsIsolated(t *testing.T) {
	slack := &fakeSlack{err: errors.New("webhook gone")}
	email := &fakeEmail{}
	svc := NewService(slack, email, "sales@acme.com", nil)

	svc.Notify(context.Background(), "plain response", "content")

	require.Len(t, email.messages, 1, "email still sent after slack failure")
}

func TestNotifySkipsUnconfiguredChannels(t *testing.T) {
	svc := NewService(nil, nil, "", nil)
	svc.Notify(context.Background(), "response", "content") // must not panic
}

func TestNotifyTruncatesOriginalContent(t *testing.T) {
	slack := &fakeSlack{}
	svc := NewService(slack, nil, "", nil)

	long := make([]byte, 500)
	for i := range long {
		long[i] = 'a'
	}
	svc.Notify(context.Background(), "{}", string(long))

	require.Len(t, slack.messages, 1)
	assert.NotContains(t, slack.messages[0].Text, string(long))
}

func TestParseVerdictDefaults(t *testing.T) {
	v := ParseVerdict("the agent rambled instead of returning JSON")
	assert.Equal(t, "Medium", v.Priority)
	assert.Equal(t, "Lead processed successfully", v.Summary)
	assert.Equal(t, "create_lead", v.Action)
	assert.Equal(t, "Unknown", v.Company)
}

func TestParseVerdictPartialJSON(t *testing.T) {
	v := ParseVerdict(`{"priority": "Low", "extracted_data": {"company": "Acme"}}`)
	assert.Equal(t, "Low", v.Priority)
	assert.Equal(t, "Lead processed", v.Summary)
	assert.Equal(t, "Acme", v.Company)
	assert.Equal(t, "Unknown", v.ContactName)
}

func TestNotifyReport(t *testing.T) {
	slack := &fakeSlack{}
	email := &fakeEmail{}
	svc := NewService(slack, email, "sales@acme.com", nil)

	results := svc.NotifyReport(context.Background(), LeadReport{
		Company:     "Acme",
		Priority:    "High",
		ContactName: "Jane Doe",
		CRMStatus:   "success",
		CRMLeadID:   "42",
		WebStatus:   "success",
		Description: "wants a demo",
	})

	assert.Equal(t, map[string]string{"email": "success", "slack": "success"}, results)

	require.Len(t, email.messages, 1)
	assert.Equal(t, "New High Priority Lead: Acme", email.messages[0].Subject)
	assert.Contains(t, email.messages[0].Body, "CRM Lead ID: 42")
	assert.Contains(t, email.messages[0].Body, "Email: Not provided")

	require.Len(t, slack.messages, 1)
	attachment := slack.messages[0].Attachments[0]
	assert.Equal(t, "good", attachment.Color)
	assert.Equal(t, "Synapse AI Agent", attachment.Footer)
}

func TestNotifyReportRecordsFailures(t *testing.T) {
	svc := NewService(&fakeSlack{err: errors.New("down")}, &fakeEmail{}, "sales@acme.com", nil)
	results := svc.NotifyReport(context.Background(), LeadReport{Company: "Acme", Priority: "Low"})

	assert.Equal(t, "failed", results["slack"])
	assert.Equal(t, "success", results["email"])
}

func TestPriorityColor(t *testing.T) {
	assert.Equal(t, "good", PriorityColor("High"))
	assert.Equal(t, "warning", PriorityColor("Medium"))
	assert.Equal(t, "#cccccc", PriorityColor("Low"))
	assert.Equal(t, "#cccccc", PriorityColor(""))
}
