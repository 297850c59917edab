// Package enrichment augments lead data with Hunter.io domain and email
// intelligence plus local domain heuristics.
package enrichment

import (
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

const defaultBaseURL = "https://api.hunter.io/v2"

// Credentials is the secret payload carrying the Hunter.io API key.
type Credentials struct {
	HunterAPIKey string `json:"hunter_api_key"`
}

// Contact is an additional contact surfaced by a domain search.
type Contact struct {
	Value     string `json:"value"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
}

// DomainReport summarizes a Hunter.io domain search.
type DomainReport struct {
	Organization       string    `json:"organization"`
	EmailsFound        int       `json:"emails_found"`
	AdditionalContacts []Contact `json:"additional_contacts"`
}

// EmailVerification is the result of verifying a single address.
type EmailVerification struct {
	Result      string  `json:"result"`
	Score       float64 `json:"score"`
	Deliverable bool    `json:"deliverable"`
}

// DomainInfo is the locally derived domain intelligence.
type DomainInfo struct {
	Domain           string `json:"domain"`
	TLD              string `json:"tld,omitempty"`
	IsBusinessDomain bool   `json:"is_business_domain"`
}

// Result aggregates all enrichment sources for one lead. Individual sources
// may be absent when their lookups failed; enrichment never fails as a whole.
type Result struct {
	HunterData        *DomainReport      `json:"hunter_data,omitempty"`
	EmailVerification *EmailVerification `json:"email_verification,omitempty"`
	DomainInfo        DomainInfo         `json:"domain_info"`
}

// Client calls the Hunter.io API.
type Client struct {
	baseURL    string
	apiKey     string
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

// WithBaseURL overrides the Hunter.io API base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Hunter.io client. An empty apiKey disables API lookups;
// Enrich then returns domain heuristics only.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enrich runs all lookups for the domain (and email, when given). Per-source
// failures are logged and omitted from the result rather than failing it.
func (c *Client) Enrich(ctx context.Context, domain, email string) Result {
	result := Result{DomainInfo: AnalyzeDomain(domain)}

	if c.apiKey == "" {
		c.logger.Info("hunter API key not configured, returning domain heuristics only", "domain", domain)
		return result
	}

	report, err := c.DomainSearch(ctx, domain)
	if err != nil {
		c.logger.Error("hunter domain search failed", "domain", domain, "error", err)
	} else {
		result.HunterData = report
	}

	if email != "" {
		verification, err := c.VerifyEmail(ctx, email)
		if err != nil {
			c.logger.Error("hunter email verification failed", "email", email, "error", err)
		} else {
			result.EmailVerification = verification
		}
	}

	return result
}

// DomainSearch looks up an organization and its published addresses.
func (c *Client) DomainSearch(ctx context.Context, domain string) (*DomainReport, error) {
	q := url.Values{}
	q.Set("domain", domain)
	q.Set("api_key", c.apiKey)
	q.Set("limit", "5")

	var payload struct {
		Data struct {
			Organization string    `json:"organization"`
			Emails       []Contact `json:"emails"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/domain-search", q, &payload); err != nil {
		return nil, err
	}

	contacts := payload.Data.Emails
	if len(contacts) > 3 {
		contacts = contacts[:3]
	}
	return &DomainReport{
		Organization:       payload.Data.Organization,
		EmailsFound:        len(payload.Data.Emails),
		AdditionalContacts: contacts,
	}, nil
}

// VerifyEmail checks deliverability of a single address.
func (c *Client) VerifyEmail(ctx context.Context, email string) (*EmailVerification, error) {
	q := url.Values{}
	q.Set("email", email)
	q.Set("api_key", c.apiKey)

	var payload struct {
		Data struct {
			Result string  `json:"result"`
			Score  float64 `json:"score"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/email-verifier", q, &payload); err != nil {
		return nil, err
	}

	result := payload.Data.Result
	return &EmailVerification{
		Result:      result,
		Score:       payload.Data.Score,
		Deliverable: result == "deliverable" || result == "risky",
	}, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("enrichment: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("enrichment: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("enrichment: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("enrichment: %s returned status %d", path, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("enrichment: decode response: %w", err)
	}
	return nil
}

// freeMailSuffixes mark consumer mail providers; anything else is assumed to
// be a business domain.
var freeMailSuffixes = []string{"gmail.com", "yahoo.com", "hotmail.com", "outlook.com"}

// AnalyzeDomain derives basic intelligence from the domain string alone.
func AnalyzeDomain(domain string) DomainInfo {
	info := DomainInfo{Domain: domain, IsBusinessDomain: true}

	if idx := strings.LastIndex(domain, "."); idx >= 0 {
		info.TLD = domain[idx+1:]
	}
	lower := strings.ToLower(domain)
	for _, suffix := range freeMailSuffixes {
		if lower == suffix || strings.HasSuffix(lower, "."+suffix) {
			info.IsBusinessDomain = false
			break
		}
	}
	return info
}
