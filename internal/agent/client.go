// Package agent invokes the Bedrock lead-extraction agent and classifies its
// failures for the resilient invoker.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	bratypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/wolfman30/synapse-leads/pkg/logging"
)

// InvokeAPI is the subset of the Bedrock agent runtime client used here.
type InvokeAPI interface {
	InvokeAgent(ctx context.Context, params *bedrockagentruntime.InvokeAgentInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.InvokeAgentOutput, error)
}

// StreamError wraps failures that happen while consuming the completion
// stream, after the invocation itself succeeded. Callers treat these as a
// degraded success rather than a dependency failure.
type StreamError struct {
	Err error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("agent: completion stream: %v", e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }

// Client invokes a configured Bedrock agent and concatenates its streamed
// completion chunks.
type Client struct {
	api     InvokeAPI
	agentID string
	aliasID string
	logger  *logging.Logger
}

// NewClient creates an agent client for the given agent/alias pair.
func NewClient(api InvokeAPI, agentID, aliasID string, logger *logging.Logger) *Client {
	if api == nil {
		panic("agent: bedrock agent runtime client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{api: api, agentID: agentID, aliasID: aliasID, logger: logger}
}

// Invoke sends inputText to the agent under sessionID and returns the
// concatenated completion text. Invocation failures are returned as-is for
// classification; stream-consumption failures come back as *StreamError.
func (c *Client) Invoke(ctx context.Context, sessionID, inputText string) (string, error) {
	out, err := c.api.InvokeAgent(ctx, &bedrockagentruntime.InvokeAgentInput{
		AgentId:      aws.String(c.agentID),
		AgentAliasId: aws.String(c.aliasID),
		SessionId:    aws.String(sessionID),
		InputText:    aws.String(inputText),
	})
	if err != nil {
		return "", err
	}

	stream := out.GetStream()
	if stream == nil {
		return "", &StreamError{Err: errors.New("nil event stream")}
	}
	defer stream.Close()

	var completion strings.Builder
	for event := range stream.Events() {
		if chunk, ok := event.(*bratypes.ResponseStreamMemberChunk); ok {
			completion.Write(chunk.Value.Bytes)
		}
	}
	if err := stream.Err(); err != nil {
		return "", &StreamError{Err: err}
	}

	return completion.String(), nil
}
