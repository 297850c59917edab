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
	ctx := context.Background()
	rt, err := bootstrap.NewRuntime(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "enrichment-lambda: %v\n", err)
		os.Exit(1)
	}

	logger := rt.Logger.With("function", "enrichment")
	client := rt.Enrichment(ctx)

	lambda.Start(func(ctx context.Context, raw json.RawMessage) (actions.Response, error) {
		req, err := actions.Parse(raw)
		if err != nil {
			logger.Error("could not parse event", "error", err)
			return actions.Respond(nil, 400, map[string]string{"error": "malformed event"}), nil
		}

		domain := req.Field("domain")
		if domain == "" {
			logger.Error("domain not found in event")
			return actions.Respond(req, 400, map[string]string{"error": "missing domain parameter"}), nil
		}

		result := client.Enrich(ctx, domain, req.Field("email"))
		return actions.Respond(req, 200, map[string]any{
			"enriched_data": result,
			"status":        "success",
			"domain":        domain,
		}), nil
	})
}
