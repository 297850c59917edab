package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// ErrAgentNotConfigured is returned by Validate when the Bedrock agent
// identifiers are missing. Handlers surface it as a 500.
var ErrAgentNotConfigured = errors.New("config: AGENT_ID and AGENT_ALIAS_ID are required")

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Bedrock agent used for lead extraction.
	AgentID      string
	AgentAliasID string

	// Direct-model analysis used by the monolith path.
	BedrockModelID string

	// Optional async processing queue. Empty disables queuing.
	SQSQueueURL      string
	QueueSendTimeout time.Duration

	// Resilient invoker tunables.
	AgentMaxAttempts        int
	AgentRetryBaseDelay     time.Duration
	BreakerFailureThreshold int
	BreakerCooldown         time.Duration

	// Action-group lambdas.
	ScraperBucket      string
	ScrapeTimeout      time.Duration
	SuiteCRMSecretID   string
	EnrichmentSecretID string
	CRMTimeout         time.Duration

	// Notifications.
	SESFromEmail    string
	SESToEmail      string
	SlackWebhookURL string
	SlackTimeout    time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		AgentID:      getEnv("AGENT_ID", ""),
		AgentAliasID: getEnv("AGENT_ALIAS_ID", ""),

		BedrockModelID: getEnv("BEDROCK_MODEL_ID", "anthropic.claude-3-sonnet-20240229-v1:0"),

		SQSQueueURL:      getEnv("SQS_QUEUE_URL", ""),
		QueueSendTimeout: getEnvAsDuration("QUEUE_SEND_TIMEOUT", 3*time.Second),

		AgentMaxAttempts:        getEnvAsInt("AGENT_MAX_ATTEMPTS", 3),
		AgentRetryBaseDelay:     getEnvAsDuration("AGENT_RETRY_BASE_DELAY", time.Second),
		BreakerFailureThreshold: getEnvAsInt("BREAKER_FAILURE_THRESHOLD", 3),
		BreakerCooldown:         getEnvAsDuration("BREAKER_COOLDOWN", 60*time.Second),

		ScraperBucket:      getEnv("SCRAPER_BUCKET", ""),
		ScrapeTimeout:      getEnvAsDuration("SCRAPE_TIMEOUT", 10*time.Second),
		SuiteCRMSecretID:   getEnv("SUITECRM_SECRET_ID", ""),
		EnrichmentSecretID: getEnv("ENRICHMENT_SECRET_ID", "Synapse/Enrichment"),
		CRMTimeout:         getEnvAsDuration("CRM_TIMEOUT", 30*time.Second),

		SESFromEmail:    getEnv("SES_FROM_EMAIL", ""),
		SESToEmail:      getEnv("SES_TO_EMAIL", ""),
		SlackWebhookURL: getEnv("SLACK_WEBHOOK_URL", ""),
		SlackTimeout:    getEnvAsDuration("SLACK_TIMEOUT", 10*time.Second),
	}
}

// ValidateAgent checks that the Bedrock agent identifiers are present.
func (c *Config) ValidateAgent() error {
	if c.AgentID == "" || c.AgentAliasID == "" {
		return ErrAgentNotConfigured
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
