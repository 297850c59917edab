// Package scraper fetches company websites, archives the raw HTML to S3, and
// returns a short text summary for the agent.
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/wolfman30/synapse-leads/pkg/logging"
)

const (
	defaultUserAgent  = "Mozilla/5.0 (compatible; SynapseBot/1.0)"
	defaultSummaryLen = 800
)

// S3API is the subset of the S3 client used by Scraper.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Result describes a completed scrape.
type Result struct {
	URL        string `json:"url"`
	S3Key      string `json:"s3_key,omitempty"`
	Summary    string `json:"summary"`
	TextLength int    `json:"text_length"`
}

// Scraper fetches pages and extracts text. If no bucket is configured the raw
// HTML archive step is skipped.
type Scraper struct {
	httpClient *http.Client
	s3Client   S3API
	bucket     string
	userAgent  string
	summaryLen int
	logger     *logging.Logger
	now        func() time.Time
}

// Option is a functional option for configuring the Scraper.
type Option func(*Scraper)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Scraper) {
		s.httpClient = client
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Scraper) {
		s.logger = logger
	}
}

// WithSummaryLength overrides the summary truncation length.
func WithSummaryLength(n int) Option {
	return func(s *Scraper) {
		if n > 0 {
			s.summaryLen = n
		}
	}
}

// New creates a Scraper. s3Client may be nil when bucket is empty.
func New(s3Client S3API, bucket string, opts ...Option) *Scraper {
	s := &Scraper{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		s3Client:   s3Client,
		bucket:     bucket,
		userAgent:  defaultUserAgent,
		summaryLen: defaultSummaryLen,
		logger:     logging.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// archiveEnabled reports whether raw HTML archival is configured.
func (s *Scraper) archiveEnabled() bool {
	return s.bucket != "" && s.s3Client != nil
}

// Scrape fetches the target (a URL or bare domain), archives the HTML, and
// returns the extracted-text summary. Archive failures are logged but do not
// fail the scrape; the summary is the part the pipeline needs.
func (s *Scraper) Scrape(ctx context.Context, target string) (Result, error) {
	pageURL := normalizeURL(target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return Result{}, fmt.Errorf("scraper: build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	s.logger.Info("fetching page", "url", pageURL)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("scraper: fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("scraper: fetch %s returned status %d", pageURL, resp.StatusCode)
	}

	html, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("scraper: read body: %w", err)
	}

	result := Result{URL: pageURL}

	if s.archiveEnabled() {
		key, err := s.archive(ctx, pageURL, html)
		if err != nil {
			s.logger.Error("failed to archive HTML", "url", pageURL, "error", err)
		} else {
			result.S3Key = key
		}
	}

	text, err := extractText(html)
	if err != nil {
		return Result{}, fmt.Errorf("scraper: parse HTML: %w", err)
	}

	result.TextLength = len(text)
	result.Summary = text
	if len(text) > s.summaryLen {
		result.Summary = text[:s.summaryLen]
	}
	return result, nil
}

// archive stores the raw HTML under scraped/<host>/<unix>.html.
func (s *Scraper) archive(ctx context.Context, pageURL string, html []byte) (string, error) {
	host := pageURL
	if parsed, err := url.Parse(pageURL); err == nil && parsed.Host != "" {
		host = parsed.Host
	}
	key := fmt.Sprintf("scraped/%s/%d.html", host, s.now().Unix())

	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(html),
		ContentType: aws.String("text/html"),
	})
	if err != nil {
		return "", fmt.Errorf("scraper: s3 put %s: %w", key, err)
	}

	s.logger.Info("archived HTML", "bucket", s.bucket, "s3_key", key)
	return key, nil
}

// extractText strips markup and collapses whitespace to single spaces.
func extractText(html []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}

// normalizeURL prefixes bare domains with https.
func normalizeURL(target string) string {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return target
	}
	return "https://" + target
}
