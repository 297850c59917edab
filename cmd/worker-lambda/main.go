package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/wolfman30/synapse-leads/internal/app/bootstrap"
)

func main() {
	rt, err := bootstrap.NewRuntime(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "worker-lambda: %v\n", err)
		os.Exit(1)
	}

	logger := rt.Logger.With("function", "worker")
	svc := rt.Pipeline(false)

	lambda.Start(func(ctx context.Context, evt events.SQSEvent) error {
		for _, record := range evt.Records {
			if err := svc.ProcessQueueRecord(ctx, record.Body); err != nil {
				// Bad records are logged and dropped rather than retried:
				// redelivery would fail the same way.
				logger.Error("failed to process SQS record", "message_id", record.MessageId, "error", err)
			}
		}
		return nil
	})
}
