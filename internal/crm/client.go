// Package crm creates lead records in SuiteCRM through its V8 REST API.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wolfman30/synapse-leads/pkg/logging"
)

// Credentials is the secret payload holding SuiteCRM access details. Either
// OAuth2 client credentials or a pre-issued access token must be present.
type Credentials struct {
	URL          string `json:"url"`
	BaseURL      string `json:"base_url"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	AccessToken  string `json:"access_token"`
}

// Endpoint returns the configured base URL, trimmed of trailing slashes.
func (c Credentials) Endpoint() string {
	base := c.URL
	if base == "" {
		base = c.BaseURL
	}
	return strings.TrimRight(base, "/")
}

// Lead is the record created in the CRM.
type Lead struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email1"`
	AccountName string `json:"account_name"`
	Description string `json:"description"`
}

// Client calls the SuiteCRM REST API.
type Client struct {
	httpClient *http.Client
	logger     *logging.Logger
}

// ClientOption is a functional option for configuring the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a SuiteCRM client with a 30-second default timeout.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token obtains an OAuth2 access token using the client-credentials grant,
// or returns the pre-issued token when the secret carries one directly.
func (c *Client) Token(ctx context.Context, creds Credentials) (string, error) {
	base := creds.Endpoint()
	if base == "" {
		return "", fmt.Errorf("crm: credentials are missing the CRM URL")
	}

	if creds.ClientID == "" || creds.ClientSecret == "" {
		if creds.AccessToken != "" {
			return creds.AccessToken, nil
		}
		return "", fmt.Errorf("crm: no OAuth2 client credentials or access token configured")
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", creds.ClientID)
	form.Set("client_secret", creds.ClientSecret)

	tokenURL := base + "/Api/access_token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("crm: build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	c.logger.Info("requesting CRM access token", "url", tokenURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("crm: token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("crm: read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("crm: token request returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("crm: decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("crm: token response contained no access_token")
	}
	return token.AccessToken, nil
}

// CreateLead posts a Leads record to the V8 module API and returns its id.
func (c *Client) CreateLead(ctx context.Context, baseURL, accessToken string, lead Lead) (string, error) {
	payload := map[string]any{
		"data": map[string]any{
			"type": "Leads",
			"attributes": map[string]any{
				"first_name":   lead.FirstName,
				"last_name":    lead.LastName,
				"email1":       lead.Email,
				"account_name": lead.AccountName,
				"description":  lead.Description,
				"lead_source":  "Synapse AI Agent",
				"status":       "New",
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("crm: marshal lead payload: %w", err)
	}

	apiURL := strings.TrimRight(baseURL, "/") + "/Api/V8/module"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("crm: build lead request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Info("creating CRM lead", "url", apiURL, "account", lead.AccountName)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("crm: lead request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("crm: read lead response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("crm: lead creation returned status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("crm: decode lead response: %w", err)
	}

	id := result.Data.ID
	if id == "" {
		id = "unknown"
	}
	c.logger.Info("CRM lead created", "lead_id", id)
	return id, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
