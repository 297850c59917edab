package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wolfman30/synapse-leads/internal/analysis"
	"github.com/wolfman30/synapse-leads/internal/crm"
	"github.com/wolfman30/synapse-leads/internal/notify"
	"github.com/wolfman30/synapse-leads/internal/scraper"
	"github.com/wolfman30/synapse-leads/pkg/logging"
)

// LeadAnalyzer profiles raw lead text.
type LeadAnalyzer interface {
	Analyze(ctx context.Context, leadData string) analysis.LeadProfile
}

// SiteScraper fetches and summarizes a company website.
type SiteScraper interface {
	Scrape(ctx context.Context, target string) (scraper.Result, error)
}

// CRMCreator creates a lead record and returns its id.
type CRMCreator interface {
	CreateLead(ctx context.Context, lead crm.Lead) (string, error)
}

// ReportNotifier sends the detailed processing report.
type ReportNotifier interface {
	NotifyReport(ctx context.Context, report notify.LeadReport) map[string]string
}

// Monolith runs the whole workflow in a single invocation: analysis, website
// scraping, CRM creation, and notifications, sequentially. It is the
// alternative to the agent-driven path for deployments without an agent.
type Monolith struct {
	analyzer LeadAnalyzer
	scraper  SiteScraper
	crm      CRMCreator
	notifier ReportNotifier
	logger   *logging.Logger
}

// NewMonolith creates the single-function workflow. scraper and crm may be
// nil; their steps are then skipped or reported as failed.
func NewMonolith(analyzer LeadAnalyzer, siteScraper SiteScraper, crmCreator CRMCreator, notifier ReportNotifier, logger *logging.Logger) *Monolith {
	if analyzer == nil {
		panic("pipeline: monolith analyzer cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Monolith{
		analyzer: analyzer,
		scraper:  siteScraper,
		crm:      crmCreator,
		notifier: notifier,
		logger:   logger,
	}
}

type monolithSuccess struct {
	Status  string `json:"status"`
	LeadID  string `json:"lead_id,omitempty"`
	Summary string `json:"summary"`
	Error   string `json:"error,omitempty"`
}

// Process runs the full workflow for one raw invocation event.
func (m *Monolith) Process(ctx context.Context, rawEvent []byte) Result {
	m.logger.Info("processing lead with monolith workflow")

	leadData := ExtractLeadData(rawEvent)
	if leadData == "" {
		body, _ := json.Marshal(map[string]string{"error": "No lead data found"})
		return Result{StatusCode: 400, Body: string(body), ContentType: "application/json"}
	}

	m.logger.Info("extracted lead data", "length", len(leadData))

	profile := m.analyzer.Analyze(ctx, leadData)
	m.logger.Info("AI analysis complete", "company", profile.Company, "priority", profile.Priority)

	webStatus := "Not attempted"
	if profile.Domain != "" && m.scraper != nil {
		if _, err := m.scraper.Scrape(ctx, profile.Domain); err != nil {
			m.logger.Error("web scraping failed", "domain", profile.Domain, "error", err)
			webStatus = "failed"
		} else {
			webStatus = "success"
		}
	}

	crmStatus := "failed"
	var leadID string
	var crmErr error
	if m.crm != nil {
		leadID, crmErr = m.createLead(ctx, profile)
		if crmErr != nil {
			m.logger.Error("CRM creation failed", "error", crmErr)
		} else {
			crmStatus = "success"
		}
	}

	if m.notifier != nil {
		results := m.notifier.NotifyReport(ctx, notify.LeadReport{
			Company:      profile.Company,
			Priority:     profile.Priority,
			ContactName:  profile.ContactName,
			ContactEmail: profile.ContactEmail,
			ContactPhone: profile.ContactPhone,
			Description:  profile.Description,
			CRMStatus:    crmStatus,
			CRMLeadID:    leadID,
			WebStatus:    webStatus,
		})
		m.logger.Info("notifications sent", "results", results)
	}

	if crmErr != nil {
		body, _ := json.Marshal(monolithSuccess{
			Status:  "partial_success",
			Error:   crmErr.Error(),
			Summary: "Lead processed with limitations",
		})
		return Result{StatusCode: 200, Body: string(body), ContentType: "application/json"}
	}

	body, _ := json.Marshal(monolithSuccess{
		Status:  "success",
		LeadID:  leadID,
		Summary: "Lead processed successfully",
	})
	return Result{StatusCode: 200, Body: string(body), ContentType: "application/json"}
}

func (m *Monolith) createLead(ctx context.Context, profile analysis.LeadProfile) (string, error) {
	first, last := crm.SplitContactName(profile.ContactName)

	company := profile.Company
	if company == "" {
		company = "Unknown Company"
	}
	priority := profile.Priority
	if priority == "" {
		priority = "Medium"
	}

	return m.crm.CreateLead(ctx, crm.Lead{
		FirstName:   first,
		LastName:    last,
		Email:       profile.ContactEmail,
		AccountName: company,
		Description: fmt.Sprintf("Priority: %s\n%s", priority, profile.Description),
	})
}

// ExtractLeadData pulls lead text out of a raw invocation event: an API
// gateway style body (JSON or plain text), a direct payload object, or a
// top-level text field.
func ExtractLeadData(rawEvent []byte) string {
	var event map[string]json.RawMessage
	if err := json.Unmarshal(rawEvent, &event); err != nil {
		return string(rawEvent)
	}

	if bodyRaw, ok := event["body"]; ok {
		var bodyStr string
		if err := json.Unmarshal(bodyRaw, &bodyStr); err == nil {
			if bodyStr == "" {
				return topLevelText(event, rawEvent)
			}
			if text := textFromJSON([]byte(bodyStr)); text != "" {
				return text
			}
			return bodyStr
		}
		// body is an object
		if text := textFromJSON(bodyRaw); text != "" {
			return text
		}
	}

	return topLevelText(event, rawEvent)
}

// textFromJSON returns the text or message field of a JSON object, or the
// compact object itself when neither is present. Non-JSON input yields "".
func textFromJSON(data []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	for _, field := range []string{"text", "message"} {
		raw, ok := payload[field]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	compact, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(compact)
}

func topLevelText(event map[string]json.RawMessage, rawEvent []byte) string {
	if raw, ok := event["text"]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return string(rawEvent)
}
