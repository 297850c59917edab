package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/wolfman30/synapse-leads/pkg/logging"
)

const leadSubject = "New Lead Processed by Synapse Autonomous Lead Intelligence"

// Service fans a lead outcome out to the configured channels. Either channel
// may be nil (not configured); a nil channel is skipped, a failing channel is
// logged and skipped, and Notify itself never returns an error.
type Service struct {
	slack   SlackPoster
	email   EmailSender
	toEmail string
	logger  *logging.Logger
	now     func() time.Time
}

// NewService creates a notification service. slack and email may be nil.
func NewService(slack SlackPoster, email EmailSender, toEmail string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		slack:   slack,
		email:   email,
		toEmail: toEmail,
		logger:  logger,
		now:     time.Now,
	}
}

// Notify announces a processed lead on all channels, Slack first.
func (s *Service) Notify(ctx context.Context, agentResponse, originalContent string) {
	s.notifySlack(ctx, agentResponse, originalContent)
	s.notifyEmail(ctx, agentResponse, originalContent)
}

func (s *Service) notifySlack(ctx context.Context, agentResponse, originalContent string) {
	if s.slack == nil {
		s.logger.Info("slack webhook not configured, skipping notification")
		return
	}

	v := ParseVerdict(agentResponse)
	text := fmt.Sprintf(`New Lead Processed by Synapse Autonomous Lead Intelligence

Priority: %s
Summary: %s

Original Input: %s...

Lead has been created in SuiteCRM and Slack Workspace successfully.`, v.Priority, v.Summary, truncate(originalContent, 100))

	if err := s.slack.Post(ctx, SlackMessage{Text: text}); err != nil {
		s.logger.Error("slack notification failed", "error", err)
	}
}

func (s *Service) notifyEmail(ctx context.Context, agentResponse, originalContent string) {
	if s.email == nil || s.toEmail == "" {
		s.logger.Info("SES email addresses not configured, skipping email notification")
		return
	}

	v := ParseVerdict(agentResponse)
	body := fmt.Sprintf(`New Lead Processed by Synapse Autonomous Lead Intelligence

Priority: %s
Summary: %s

Original Input: %s...

Lead has been created in SuiteCRM and Slack Workspace successfully.`, v.Priority, v.Summary, truncate(originalContent, 200))

	err := s.email.Send(ctx, EmailMessage{
		To:      s.toEmail,
		Subject: leadSubject,
		Body:    body,
	})
	if err != nil {
		s.logger.Error("email notification failed", "error", err)
	}
}

// LeadReport is the full processing outcome used for rich notifications on
// the single-function path, where CRM and scraping results are known locally.
type LeadReport struct {
	Company      string
	Priority     string
	ContactName  string
	ContactEmail string
	ContactPhone string
	Description  string
	CRMStatus    string
	CRMLeadID    string
	WebStatus    string
}

// NotifyReport sends the detailed report to all channels and returns the
// per-channel outcome ("success" or "failed").
func (s *Service) NotifyReport(ctx context.Context, report LeadReport) map[string]string {
	results := map[string]string{}

	if s.email != nil && s.toEmail != "" {
		if err := s.email.Send(ctx, s.reportEmail(report)); err != nil {
			s.logger.Error("email notification failed", "error", err)
			results["email"] = "failed"
		} else {
			results["email"] = "success"
		}
	}

	if s.slack != nil {
		if err := s.slack.Post(ctx, s.reportSlack(report)); err != nil {
			s.logger.Error("slack notification failed", "error", err)
			results["slack"] = "failed"
		} else {
			results["slack"] = "success"
		}
	}

	return results
}

func (s *Service) reportEmail(report LeadReport) EmailMessage {
	body := fmt.Sprintf(`New Lead Processed by Synapse Autonomous Lead Intelligence

=== LEAD DETAILS ===
Company: %s
Priority: %s
Contact: %s
Email: %s
Phone: %s

=== PROCESSING STATUS ===
CRM Status: %s
CRM Lead ID: %s
Web Intelligence: %s

=== DESCRIPTION ===
%s

Lead has been processed and is ready for follow-up.`,
		report.Company, report.Priority, report.ContactName,
		orDefault(report.ContactEmail, "Not provided"), orDefault(report.ContactPhone, "Not provided"),
		orDefault(report.CRMStatus, "Unknown"), orDefault(report.CRMLeadID, "N/A"),
		orDefault(report.WebStatus, "Not attempted"),
		orDefault(report.Description, "No additional details"))

	return EmailMessage{
		To:      s.toEmail,
		Subject: fmt.Sprintf("New %s Priority Lead: %s", report.Priority, report.Company),
		Body:    body,
	}
}

func (s *Service) reportSlack(report LeadReport) SlackMessage {
	return SlackMessage{
		Text: fmt.Sprintf("New %s Priority Lead: %s", report.Priority, report.Company),
		Attachments: []SlackAttachment{{
			Color: PriorityColor(report.Priority),
			Fields: []SlackField{
				{Title: "Company", Value: report.Company, Short: true},
				{Title: "Priority", Value: report.Priority, Short: true},
				{Title: "Contact", Value: orDefault(report.ContactName, "Unknown"), Short: true},
				{Title: "Email", Value: orDefault(report.ContactEmail, "N/A"), Short: true},
				{Title: "CRM Status", Value: orDefault(report.CRMStatus, "Unknown"), Short: true},
				{Title: "CRM Lead ID", Value: orDefault(report.CRMLeadID, "N/A"), Short: true},
			},
			Footer: "Synapse AI Agent",
			TS:     s.now().Unix(),
		}},
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
