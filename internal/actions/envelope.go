// Package actions parses and answers Bedrock agent action-group invocations.
// The agent delivers parameters either as a properties list under
// requestBody.content, as a direct JSON body, or (for direct lambda
// invocations) as top-level event fields; all three shapes are supported.
package actions

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Request is a parsed action-group invocation.
type Request struct {
	ActionGroup string
	APIPath     string
	HTTPMethod  string

	properties map[string]string
	bodyFields map[string]string
	direct     map[string]string
}

type envelope struct {
	ActionGroup string `json:"actionGroup"`
	APIPath     string `json:"apiPath"`
	HTTPMethod  string `json:"httpMethod"`
	RequestBody *struct {
		Content map[string]json.RawMessage `json:"content"`
	} `json:"requestBody"`
}

// Parse decodes a raw invocation event.
func Parse(data []byte) (*Request, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("actions: decode event: %w", err)
	}

	req := &Request{
		ActionGroup: env.ActionGroup,
		APIPath:     env.APIPath,
		HTTPMethod:  env.HTTPMethod,
		properties:  map[string]string{},
		bodyFields:  map[string]string{},
		direct:      map[string]string{},
	}

	if env.RequestBody != nil {
		if content, ok := env.RequestBody.Content["application/json"]; ok {
			parseContent(content, req)
		}
	}

	// Top-level fields for direct invocations.
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err == nil {
		for name, raw := range top {
			switch name {
			case "actionGroup", "apiPath", "httpMethod", "requestBody":
				continue
			}
			req.direct[name] = rawToString(raw)
		}
	}

	return req, nil
}

// parseContent handles the application/json content block: a properties list,
// a direct JSON object, or a JSON-encoded string holding either.
func parseContent(content json.RawMessage, req *Request) {
	// A string value wraps another JSON document.
	var asString string
	if err := json.Unmarshal(content, &asString); err == nil {
		content = json.RawMessage(asString)
	}

	var withProps struct {
		Properties []struct {
			Name  string          `json:"name"`
			Value json.RawMessage `json:"value"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(content, &withProps); err == nil && len(withProps.Properties) > 0 {
		for _, prop := range withProps.Properties {
			req.properties[prop.Name] = rawToString(prop.Value)
		}
		return
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(content, &fields); err == nil {
		for name, raw := range fields {
			req.bodyFields[name] = rawToString(raw)
		}
	}
}

// Field resolves a named parameter: properties first, then body fields, then
// top-level direct fields. Returns "" when absent.
func (r *Request) Field(name string) string {
	if v, ok := r.properties[name]; ok {
		return v
	}
	if v, ok := r.bodyFields[name]; ok {
		return v
	}
	return r.direct[name]
}

// rawToString unwraps JSON strings and leaves other values as compact JSON,
// so structured parameters (like lead_data objects) survive as parseable text.
func rawToString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// Response is the action-group response frame the agent expects.
type Response struct {
	ActionGroup    string                  `json:"actionGroup"`
	APIPath        string                  `json:"apiPath"`
	HTTPMethod     string                  `json:"httpMethod"`
	HTTPStatusCode int                     `json:"httpStatusCode"`
	ResponseBody   map[string]ResponseBody `json:"responseBody"`
}

// ResponseBody carries the serialized payload for one content type.
type ResponseBody struct {
	Body string `json:"body"`
}

// Respond builds a response frame echoing the request routing fields, with
// payload serialized as the application/json body.
func Respond(req *Request, statusCode int, payload any) Response {
	body, err := json.Marshal(payload)
	if err != nil {
		body = []byte(`{"error":"failed to serialize response"}`)
	}
	resp := Response{
		HTTPStatusCode: statusCode,
		ResponseBody: map[string]ResponseBody{
			"application/json": {Body: string(body)},
		},
	}
	if req != nil {
		resp.ActionGroup = req.ActionGroup
		resp.APIPath = req.APIPath
		resp.HTTPMethod = req.HTTPMethod
	}
	return resp
}
