package crm

import "testing"

func TestParseLeadDataJSON(t *testing.T) {
	raw := `{"first_name":"Jane","last_name":"Doe","email1":"jane@acme.com","account_name":"Acme","description":"demo request"}`
	lead, err := ParseLeadData(raw)
	if err != nil {
		t.Fatalf("ParseLeadData failed: %v", err)
	}
	if lead.FirstName != "Jane" || lead.LastName != "Doe" {
		t.Errorf("unexpected name: %q %q", lead.FirstName, lead.LastName)
	}
	if lead.Email != "jane@acme.com" || lead.AccountName != "Acme" {
		t.Errorf("unexpected email/account: %q %q", lead.Email, lead.AccountName)
	}
}

func TestParseLeadDataXML(t *testing.T) {
	raw := `<first_name>Jane</first_name><last_name>Doe</last_name><email1>jane@acme.com</email1><account_name>Acme Corp</account_name><description>
Needs 50 seats.
</description>`
	lead, err := ParseLeadData(raw)
	if err != nil {
		t.Fatalf("ParseLeadData failed: %v", err)
	}
	if lead.FirstName != "Jane" || lead.LastName != "Doe" {
		t.Errorf("unexpected name: %q %q", lead.FirstName, lead.LastName)
	}
	if lead.AccountName != "Acme Corp" {
		t.Errorf("account = %q", lead.AccountName)
	}
	if lead.Description != "Needs 50 seats." {
		t.Errorf("description = %q", lead.Description)
	}
}

func TestParseLeadDataXMLMissingFields(t *testing.T) {
	lead, err := ParseLeadData(`<first_name>Solo</first_name>`)
	if err != nil {
		t.Fatalf("ParseLeadData failed: %v", err)
	}
	if lead.FirstName != "Solo" || lead.LastName != "" {
		t.Errorf("unexpected lead %+v", lead)
	}
}

func TestParseLeadDataRejectsGarbage(t *testing.T) {
	if _, err := ParseLeadData("not json or xml"); err == nil {
		t.Error("expected error for unparseable lead_data")
	}
	if _, err := ParseLeadData("   "); err == nil {
		t.Error("expected error for empty lead_data")
	}
}

func TestSplitContactName(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		first, last string
	}{
		{"full name", "Jane Doe", "Jane", "Doe"},
		{"three parts", "Jane van Doe", "Jane", "van Doe"},
		{"single name", "Jane", "Jane", "Contact"},
		{"empty", "", "Unknown", "Contact"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := SplitContactName(tt.input)
			if first != tt.first || last != tt.last {
				t.Errorf("SplitContactName(%q) = %q/%q, want %q/%q", tt.input, first, last, tt.first, tt.last)
			}
		})
	}
}
