package notify

import "encoding/json"

// Verdict is the structured outcome carried in an agent response. Agent output
// is free text that often, but not always, contains this JSON shape; parsing
// is lenient and fills defaults for whatever is missing.
type Verdict struct {
	Priority     string
	Summary      string
	Action       string
	Company      string
	ContactName  string
	ContactEmail string
}

type verdictPayload struct {
	Priority      string `json:"priority"`
	Summary       string `json:"summary"`
	Action        string `json:"action"`
	ExtractedData struct {
		Company      string `json:"company"`
		ContactName  string `json:"contact_name"`
		ContactEmail string `json:"contact_email"`
	} `json:"extracted_data"`
}

// ParseVerdict extracts a Verdict from an agent response. Non-JSON responses
// yield the all-defaults verdict.
func ParseVerdict(agentResponse string) Verdict {
	var payload verdictPayload
	if err := json.Unmarshal([]byte(agentResponse), &payload); err != nil {
		return Verdict{
			Priority:     "Medium",
			Summary:      "Lead processed successfully",
			Action:       "create_lead",
			Company:      "Unknown",
			ContactName:  "Unknown",
			ContactEmail: "Unknown",
		}
	}

	v := Verdict{
		Priority:     payload.Priority,
		Summary:      payload.Summary,
		Action:       payload.Action,
		Company:      payload.ExtractedData.Company,
		ContactName:  payload.ExtractedData.ContactName,
		ContactEmail: payload.ExtractedData.ContactEmail,
	}
	if v.Priority == "" {
		v.Priority = "Medium"
	}
	if v.Summary == "" {
		v.Summary = "Lead processed"
	}
	if v.Action == "" {
		v.Action = "create_lead"
	}
	if v.Company == "" {
		v.Company = "Unknown"
	}
	if v.ContactName == "" {
		v.ContactName = "Unknown"
	}
	if v.ContactEmail == "" {
		v.ContactEmail = "Unknown"
	}
	return v
}
