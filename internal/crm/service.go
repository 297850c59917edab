package crm

import (
	"context"
	"fmt"

	"github.com/wolfman30/synapse-leads/pkg/logging"
)

// SecretSource fetches a JSON credential blob by id.
type SecretSource interface {
	JSON(ctx context.Context, secretID string, out any) error
}

// Service fetches CRM credentials and creates lead records.
type Service struct {
	secretSource SecretSource
	secretID     string
	client       *Client
	logger       *logging.Logger
}

// NewService creates a CRM service backed by Secrets Manager credentials.
func NewService(secretSource SecretSource, secretID string, client *Client, logger *logging.Logger) *Service {
	if client == nil {
		client = NewClient()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{secretSource: secretSource, secretID: secretID, client: client, logger: logger}
}

// CreateLead resolves credentials, authenticates, and creates the lead.
// Returns the new record id.
func (s *Service) CreateLead(ctx context.Context, lead Lead) (string, error) {
	if s.secretSource == nil {
		return "", fmt.Errorf("crm: secret source not configured")
	}

	var creds Credentials
	if err := s.secretSource.JSON(ctx, s.secretID, &creds); err != nil {
		return "", fmt.Errorf("crm: load credentials: %w", err)
	}

	base := creds.Endpoint()
	if base == "" {
		return "", fmt.Errorf("crm: credentials are missing the CRM URL")
	}

	token, err := s.client.Token(ctx, creds)
	if err != nil {
		return "", err
	}

	return s.client.CreateLead(ctx, base, token, lead)
}
