package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/wolfman30/synapse-leads/internal/app/bootstrap"
)

func main() {
	rt, err := bootstrap.NewRuntime(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "monolith-lambda: %v\n", err)
		os.Exit(1)
	}

	workflow := rt.Monolith()

	lambda.Start(func(ctx context.Context, raw json.RawMessage) (events.APIGatewayProxyResponse, error) {
		result := workflow.Process(ctx, raw)
		return events.APIGatewayProxyResponse{
			StatusCode: result.StatusCode,
			Body:       result.Body,
			Headers:    map[string]string{"Content-Type": result.ContentType},
		}, nil
	})
}
