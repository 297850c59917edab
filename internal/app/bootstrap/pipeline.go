// Package bootstrap wires AWS clients and application services from
// configuration. Each lambda binary calls the constructor for the services it
// needs so the wiring lives in one place.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/wolfman30/synapse-leads/internal/agent"
	"github.com/wolfman30/synapse-leads/internal/analysis"
	"github.com/wolfman30/synapse-leads/internal/awsinit"
	"github.com/wolfman30/synapse-leads/internal/config"
	"github.com/wolfman30/synapse-leads/internal/crm"
	"github.com/wolfman30/synapse-leads/internal/enrichment"
	"github.com/wolfman30/synapse-leads/internal/notify"
	"github.com/wolfman30/synapse-leads/internal/pipeline"
	"github.com/wolfman30/synapse-leads/internal/queue"
	"github.com/wolfman30/synapse-leads/internal/resilience"
	"github.com/wolfman30/synapse-leads/internal/scraper"
	"github.com/wolfman30/synapse-leads/internal/secrets"
	"github.com/wolfman30/synapse-leads/pkg/logging"
)

// Runtime bundles the shared pieces every binary starts from.
type Runtime struct {
	Config *config.Config
	Logger *logging.Logger
	AWS    aws.Config
}

// NewRuntime loads configuration, logging, and the AWS SDK config.
func NewRuntime(ctx context.Context) (*Runtime, error) {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	awsCfg, err := awsinit.Load(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: load AWS config: %w", err)
	}

	return &Runtime{Config: cfg, Logger: logger, AWS: awsCfg}, nil
}

// Notifications builds the notification service. Unconfigured channels come
// back disabled rather than failing.
func (r *Runtime) Notifications() *notify.Service {
	var email notify.EmailSender
	if r.Config.SESFromEmail != "" && r.Config.SESToEmail != "" {
		email = notify.NewSESSender(sesv2.NewFromConfig(r.AWS), notify.SESConfig{
			FromEmail: r.Config.SESFromEmail,
		}, r.Logger)
	}

	var slack notify.SlackPoster
	if sender := notify.NewSlackSender(r.Config.SlackWebhookURL, r.Logger); sender != nil {
		slack = sender
	}

	return notify.NewService(slack, email, r.Config.SESToEmail, r.Logger)
}

// Pipeline assembles the webhook/worker lead pipeline. The agent client is
// nil when the agent ids are not configured; the pipeline then rejects
// requests after classification, matching the configuration error contract.
func (r *Runtime) Pipeline(withQueue bool) *pipeline.Service {
	var agentClient pipeline.AgentInvoker
	if r.Config.ValidateAgent() == nil {
		agentClient = agent.NewClient(
			bedrockagentruntime.NewFromConfig(r.AWS),
			r.Config.AgentID,
			r.Config.AgentAliasID,
			r.Logger,
		)
	} else {
		r.Logger.Error("agent ID or alias ID not configured")
	}

	opts := []pipeline.ServiceOption{
		pipeline.WithBreaker(resilience.NewBreaker(
			resilience.WithFailureThreshold(r.Config.BreakerFailureThreshold),
			resilience.WithCooldown(r.Config.BreakerCooldown),
		)),
		pipeline.WithRetrier(resilience.NewRetrier(agent.IsTransient, r.Logger,
			resilience.WithMaxAttempts(r.Config.AgentMaxAttempts),
			resilience.WithBaseDelay(r.Config.AgentRetryBaseDelay),
		)),
	}

	if withQueue && r.Config.SQSQueueURL != "" {
		opts = append(opts, pipeline.WithQueue(queue.New(
			sqs.NewFromConfig(r.AWS),
			r.Config.SQSQueueURL,
			r.Config.QueueSendTimeout,
			r.Logger,
		)))
	}

	return pipeline.NewService(agentClient, r.Notifications(), r.Logger, opts...)
}

// Secrets builds the Secrets Manager store.
func (r *Runtime) Secrets() *secrets.Store {
	return secrets.NewStore(secretsmanager.NewFromConfig(r.AWS), r.Logger)
}

// CRM builds the SuiteCRM lead service.
func (r *Runtime) CRM() *crm.Service {
	client := crm.NewClient(crm.WithLogger(r.Logger))
	return crm.NewService(r.Secrets(), r.Config.SuiteCRMSecretID, client, r.Logger)
}

// Enrichment resolves the Hunter.io key and builds the enrichment client.
// A missing or unreadable secret degrades to domain heuristics only.
func (r *Runtime) Enrichment(ctx context.Context) *enrichment.Client {
	var creds enrichment.Credentials
	if err := r.Secrets().JSON(ctx, r.Config.EnrichmentSecretID, &creds); err != nil {
		r.Logger.Error("failed to load enrichment credentials", "error", err)
	}
	return enrichment.NewClient(creds.HunterAPIKey, enrichment.WithLogger(r.Logger))
}

// Scraper builds the website scraper with S3 archival.
func (r *Runtime) Scraper() *scraper.Scraper {
	return scraper.New(s3.NewFromConfig(r.AWS), r.Config.ScraperBucket, scraper.WithLogger(r.Logger))
}

// Monolith assembles the single-invocation workflow.
func (r *Runtime) Monolith() *pipeline.Monolith {
	analyzer := analysis.NewAnalyzer(bedrockruntime.NewFromConfig(r.AWS), r.Config.BedrockModelID, r.Logger)
	return pipeline.NewMonolith(analyzer, r.Scraper(), r.CRM(), r.Notifications(), r.Logger)
}
