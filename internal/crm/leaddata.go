package crm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// The agent sometimes wraps lead fields in XML-style tags instead of JSON.
var leadFieldPatterns = map[string]*regexp.Regexp{
	"first_name":   regexp.MustCompile(`(?s)<first_name>(.*?)</first_name>`),
	"last_name":    regexp.MustCompile(`(?s)<last_name>(.*?)</last_name>`),
	"email1":       regexp.MustCompile(`(?s)<email1>(.*?)</email1>`),
	"account_name": regexp.MustCompile(`(?s)<account_name>(.*?)</account_name>`),
	"description":  regexp.MustCompile(`(?s)<description>(.*?)</description>`),
}

// ParseLeadData decodes a lead_data payload in either JSON or XML-tagged form.
func ParseLeadData(raw string) (Lead, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Lead{}, fmt.Errorf("crm: lead_data is empty")
	}

	if strings.HasPrefix(trimmed, "<") {
		return parseXMLLeadData(trimmed), nil
	}

	var lead Lead
	if err := json.Unmarshal([]byte(trimmed), &lead); err != nil {
		return Lead{}, fmt.Errorf("crm: decode lead_data: %w", err)
	}
	return lead, nil
}

func parseXMLLeadData(raw string) Lead {
	fields := make(map[string]string, len(leadFieldPatterns))
	for name, pattern := range leadFieldPatterns {
		if match := pattern.FindStringSubmatch(raw); match != nil {
			fields[name] = strings.TrimSpace(match[1])
		}
	}
	return Lead{
		FirstName:   fields["first_name"],
		LastName:    fields["last_name"],
		Email:       fields["email1"],
		AccountName: fields["account_name"],
		Description: fields["description"],
	}
}

// SplitContactName derives first/last name fields from a free-form contact
// name, with the original's defaults for missing pieces.
func SplitContactName(contactName string) (first, last string) {
	parts := strings.Fields(contactName)
	if len(parts) == 0 {
		return "Unknown", "Contact"
	}
	first = parts[0]
	if len(parts) > 1 {
		last = strings.Join(parts[1:], " ")
	} else {
		last = "Contact"
	}
	return first, last
}
