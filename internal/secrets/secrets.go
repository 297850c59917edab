// Package secrets fetches JSON credential blobs from AWS Secrets Manager.
package secrets

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/wolfman30/synapse-leads/pkg/logging"
)

// GetAPI is the subset of the Secrets Manager client used by Store.
type GetAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Store retrieves and decodes secrets.
type Store struct {
	api    GetAPI
	logger *logging.Logger
}

// NewStore creates a secret store.
func NewStore(api GetAPI, logger *logging.Logger) *Store {
	if api == nil {
		panic("secrets: secretsmanager client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{api: api, logger: logger}
}

// JSON fetches the secret and unmarshals its string payload into out.
func (s *Store) JSON(ctx context.Context, secretID string, out any) error {
	if secretID == "" {
		return fmt.Errorf("secrets: secret id is required")
	}

	result, err := s.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return fmt.Errorf("secrets: get %s: %w", secretID, err)
	}
	if result.SecretString == nil {
		return fmt.Errorf("secrets: %s has no string payload", secretID)
	}

	if err := json.Unmarshal([]byte(*result.SecretString), out); err != nil {
		return fmt.Errorf("secrets: decode %s: %w", secretID, err)
	}
	return nil
}
