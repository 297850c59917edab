package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/wolfman30/synapse-leads/internal/app/bootstrap"
	"github.com/wolfman30/synapse-leads/internal/trigger"
)

func main() {
	rt, err := bootstrap.NewRuntime(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "webhook-lambda: %v\n", err)
		os.Exit(1)
	}

	logger := rt.Logger.With("function", "webhook")
	svc := rt.Pipeline(true)

	lambda.Start(func(ctx context.Context, evt events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, _ error) {
		// Webhook callers retry on 5xx; anything unexpected still gets a
		// well-formed error response instead of a lambda invocation error.
		defer func() {
			if r := recover(); r != nil {
				logger.Error("error processing webhook", "panic", r)
				resp = events.APIGatewayProxyResponse{
					StatusCode: 500,
					Body:       fmt.Sprintf("Error processing webhook: %v", r),
				}
			}
		}()

		body, err := decodeBody(evt)
		if err != nil {
			logger.Error("failed to decode request body", "error", err)
			return events.APIGatewayProxyResponse{StatusCode: 400, Body: "invalid body"}, nil
		}

		result := svc.HandleWebhook(ctx, trigger.Event{Path: evt.Path, Body: body})
		return events.APIGatewayProxyResponse{
			StatusCode: result.StatusCode,
			Body:       result.Body,
			Headers:    map[string]string{"Content-Type": result.ContentType},
		}, nil
	})
}

func decodeBody(evt events.APIGatewayProxyRequest) (string, error) {
	if !evt.IsBase64Encoded {
		return evt.Body, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(evt.Body)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
