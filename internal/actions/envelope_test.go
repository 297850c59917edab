package actions

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePropertiesList(t *testing.T) {
	event := []byte(`{
		"actionGroup": "enrichment",
		"apiPath": "/enrich",
		"httpMethod": "POST",
		"requestBody": {
			"content": {
				"application/json": {
					"properties": [
						{"name": "domain", "value": "acme.com"},
						{"name": "email", "value": "jane@acme.com"}
					]
				}
			}
		}
	}`)

	req, err := Parse(event)
	require.NoError(t, err)

	assert.Equal(t, "enrichment", req.ActionGroup)
	assert.Equal(t, "/enrich", req.APIPath)
	assert.Equal(t, "POST", req.HTTPMethod)
	assert.Equal(t, "acme.com", req.Field("domain"))
	assert.Equal(t, "jane@acme.com", req.Field("email"))
	assert.Empty(t, req.Field("missing"))
}

func TestParseDirectJSONBody(t *testing.T) {
	event := []byte(`{
		"actionGroup": "scraper",
		"apiPath": "/scrape",
		"httpMethod": "POST",
		"requestBody": {
			"content": {
				"application/json": {"url": "https://acme.com"}
			}
		}
	}`)

	req, err := Parse(event)
	require.NoError(t, err)
	assert.Equal(t, "https://acme.com", req.Field("url"))
}

func TestParseStringWrappedBody(t *testing.T) {
	event := []byte(`{
		"requestBody": {
			"content": {
				"application/json": "{\"url\": \"https://acme.com\"}"
			}
		}
	}`)

	req, err := Parse(event)
	require.NoError(t, err)
	assert.Equal(t, "https://acme.com", req.Field("url"))
}

func TestParseDirectInvocationFields(t *testing.T) {
	event := []byte(`{"lead_data": {"first_name": "Jane", "email": "jane@acme.com"}}`)

	req, err := Parse(event)
	require.NoError(t, err)

	raw := req.Field("lead_data")
	var lead map[string]string
	require.NoError(t, json.Unmarshal([]byte(raw), &lead))
	assert.Equal(t, "Jane", lead["first_name"])
}

func TestPropertiesWinOverDirectFields(t *testing.T) {
	event := []byte(`{
		"url": "https://stale.example",
		"requestBody": {
			"content": {
				"application/json": {
					"properties": [{"name": "url", "value": "https://acme.com"}]
				}
			}
		}
	}`)

	req, err := Parse(event)
	require.NoError(t, err)
	assert.Equal(t, "https://acme.com", req.Field("url"))
}

func TestParseRejectsMalformedEvent(t *testing.T) {
	_, err := Parse([]byte(`not json`))
	require.Error(t, err)
}

func TestRespondEchoesRouting(t *testing.T) {
	req := &Request{ActionGroup: "crm", APIPath: "/create-lead", HTTPMethod: "POST"}
	resp := Respond(req, 200, map[string]string{"lead_id": "42"})

	assert.Equal(t, "crm", resp.ActionGroup)
	assert.Equal(t, "/create-lead", resp.APIPath)
	assert.Equal(t, 200, resp.HTTPStatusCode)

	body := resp.ResponseBody["application/json"].Body
	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &decoded))
	assert.Equal(t, "42", decoded["lead_id"])
}

func TestRespondWithNilRequest(t *testing.T) {
	resp := Respond(nil, 500, map[string]string{"error": "boom"})
	assert.Equal(t, 500, resp.HTTPStatusCode)
	assert.Empty(t, resp.ActionGroup)
}
