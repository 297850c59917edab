package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/wolfman30/synapse-leads/internal/actions"
	"github.com/wolfman30/synapse-leads/internal/app/bootstrap"
	"github.com/wolfman30/synapse-leads/internal/crm"
)

func main() {
	rt, err := bootstrap.NewRuntime(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "crm-lambda: %v\n", err)
		os.Exit(1)
	}

	logger := rt.Logger.With("function", "crm")
	svc := rt.CRM()

	lambda.Start(func(ctx context.Context, raw json.RawMessage) (actions.Response, error) {
		req, err := actions.Parse(raw)
		if err != nil {
			logger.Error("could not parse event", "error", err)
			return actions.Respond(nil, 400, map[string]string{"error": "malformed event"}), nil
		}

		leadData := req.Field("lead_data")
		if leadData == "" {
			logger.Error("lead_data not found in event")
			return actions.Respond(req, 400, map[string]string{"error": "missing lead_data"}), nil
		}

		lead, err := crm.ParseLeadData(leadData)
		if err != nil {
			logger.Error("could not parse lead_data", "error", err)
			return actions.Respond(req, 400, map[string]string{"error": "missing lead_data"}), nil
		}

		id, err := svc.CreateLead(ctx, lead)
		if err != nil {
			logger.Error("lead creation failed", "error", err)
			return actions.Respond(req, 500, map[string]string{"error": "Error creating lead"}), nil
		}

		logger.Info("created SuiteCRM lead", "lead_id", id)
		return actions.Respond(req, 200, map[string]string{
			"id":        id,
			"status":    "created",
			"lead_name": fmt.Sprintf("%s %s", lead.FirstName, lead.LastName),
			"company":   lead.AccountName,
			"email":     lead.Email,
		}), nil
	})
}
