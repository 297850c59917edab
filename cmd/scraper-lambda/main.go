package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/wolfman30/synapse-leads/internal/actions"
	"github.com/wolfman30/synapse-leads/internal/app/bootstrap"
)

func main() {
	rt, err := bootstrap.NewRuntime(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "scraper-lambda: %v\n", err)
		os.Exit(1)
	}

	logger := rt.Logger.With("function", "scraper")
	svc := rt.Scraper()

	lambda.Start(func(ctx context.Context, raw json.RawMessage) (actions.Response, error) {
		req, err := actions.Parse(raw)
		if err != nil {
			logger.Error("could not parse event", "error", err)
			return actions.Respond(nil, 400, map[string]string{"error": "malformed event"}), nil
		}

		url := req.Field("url")
		if url == "" {
			logger.Error("URL not found in event")
			return actions.Respond(req, 400, map[string]string{"error": "Could not parse URL from event"}), nil
		}

		result, err := svc.Scrape(ctx, url)
		if err != nil {
			logger.Error("scrape failed", "url", url, "error", err)
			return actions.Respond(req, 500, map[string]string{"error": fmt.Sprintf("Error fetching URL: %v", err)}), nil
		}

		return actions.Respond(req, 200, map[string]string{
			"summary": result.Summary,
			"s3_key":  result.S3Key,
		}), nil
	})
}
