package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/synapse-leads/internal/agent"
)

func TestProcessQueueRecord(t *testing.T) {
	agentClient := &fakeAgent{response: "extracted lead profile"}
	notifier := &fakeNotifier{}
	svc := NewService(agentClient, notifier, nil)

	err := svc.ProcessQueueRecord(context.Background(), `{"text": "new lead from Jane"}`)
	require.NoError(t, err)

	assert.Equal(t, "new lead from Jane", agentClient.gotInput)
	assert.True(t, strings.HasPrefix(agentClient.gotSessionID, "sqs-"))

	require.Len(t, notifier.responses, 1)
	assert.Equal(t, "extracted lead profile", notifier.responses[0])
	assert.Equal(t, "new lead from Jane", notifier.originals[0])
}

func TestProcessQueueRecordStableSession(t *testing.T) {
	assert.Equal(t, queueSessionID("same lead"), queueSessionID("same lead"))
}

func TestProcessQueueRecordMalformedBody(t *testing.T) {
	svc := NewService(&fakeAgent{}, &fakeNotifier{}, nil)
	require.Error(t, svc.ProcessQueueRecord(context.Background(), "not json"))
}

func TestProcessQueueRecordEmptyText(t *testing.T) {
	svc := NewService(&fakeAgent{}, &fakeNotifier{}, nil)
	require.Error(t, svc.ProcessQueueRecord(context.Background(), `{"text": ""}`))
}

func TestProcessQueueRecordAgentFailure(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := NewService(&fakeAgent{err: errors.New("unavailable")}, notifier, nil)

	err := svc.ProcessQueueRecord(context.Background(), `{"text": "a lead"}`)
	require.Error(t, err)
	assert.Empty(t, notifier.responses)
}

func TestProcessQueueRecordStreamErrorFallsBack(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := NewService(&fakeAgent{err: &agent.StreamError{Err: errors.New("reset")}}, notifier, nil)

	err := svc.ProcessQueueRecord(context.Background(), `{"text": "a lead"}`)
	require.NoError(t, err)

	require.Len(t, notifier.responses, 1)
	assert.Equal(t, "Lead processed via SQS", notifier.responses[0])
}

func TestProcessQueueRecordEmptyCompletionFallsBack(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := NewService(&fakeAgent{response: ""}, notifier, nil)

	err := svc.ProcessQueueRecord(context.Background(), `{"text": "a lead"}`)
	require.NoError(t, err)

	require.Len(t, notifier.responses, 1)
	assert.Equal(t, "Lead processed via SQS", notifier.responses[0])
}
