package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGetAPI struct {
	payload *string
	err     error
	gotID   string
}

func (f *fakeGetAPI) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.gotID = aws.ToString(params.SecretId)
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: f.payload}, nil
}

func TestJSON(t *testing.T) {
	api := &fakeGetAPI{payload: aws.String(`{"url": "https://crm.example", "client_id": "id-1"}`)}
	store := NewStore(api, nil)

	var out struct {
		URL      string `json:"url"`
		ClientID string `json:"client_id"`
	}
	require.NoError(t, store.JSON(context.Background(), "Synapse/SuiteCRM", &out))

	assert.Equal(t, "Synapse/SuiteCRM", api.gotID)
	assert.Equal(t, "https://crm.example", out.URL)
	assert.Equal(t, "id-1", out.ClientID)
}

func TestJSONEmptySecretID(t *testing.T) {
	store := NewStore(&fakeGetAPI{}, nil)
	require.Error(t, store.JSON(context.Background(), "", &struct{}{}))
}

func TestJSONFetchError(t *testing.T) {
	store := NewStore(&fakeGetAPI{err: errors.New("denied")}, nil)
	err := store.JSON(context.Background(), "Synapse/SuiteCRM", &struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
}

func TestJSONNoStringPayload(t *testing.T) {
	store := NewStore(&fakeGetAPI{}, nil)
	require.Error(t, store.JSON(context.Background(), "Synapse/SuiteCRM", &struct{}{}))
}

func TestJSONMalformedPayload(t *testing.T) {
	store := NewStore(&fakeGetAPI{payload: aws.String("not json")}, nil)
	require.Error(t, store.JSON(context.Background(), "Synapse/SuiteCRM", &struct{}{}))
}
