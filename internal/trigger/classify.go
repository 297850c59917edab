package trigger

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Ordered content-field search lists. First populated field wins; the order is
// load-bearing for interoperability with third-party webhook shapes and must
// not be rearranged.
var (
	emailContentFields = []string{
		"text", "plain", "body-plain", "stripped-text",
		"subject", "from", "sender", "message", "content",
	}
	chatTextFields    = []string{"text", "message", "content"}
	genericTextFields = []string{"text", "message", "content", "body", "description"}
)

// Classify determines the trigger type from the event route and extracts the
// normalized text content. It never fails on malformed input: when nothing
// structured can be parsed it degrades to the rawest available string form of
// the body. Empty content is the caller's signal that extraction found nothing.
func Classify(evt Event) (Type, string) {
	switch {
	case strings.Contains(evt.Path, "/webhook/email"):
		return TypeEmail, extractEmailContent(evt.Body)
	case strings.Contains(evt.Path, "/webhook/slack"):
		return TypeChat, extractChatContent(evt.Body)
	default:
		return TypeGeneric, extractGenericContent(evt.Body)
	}
}

// extractEmailContent handles common email webhook formats. Subject and sender
// are always prefixed when present; the main content is the first populated
// field in the priority list.
func extractEmailContent(body string) string {
	payload := decodeStructured(body)

	var parts []string

	if subject := fieldText(payload, "subject"); subject != "" {
		parts = append(parts, "Subject: "+subject)
	}

	sender := fieldText(payload, "from")
	if sender == "" {
		sender = fieldText(payload, "sender")
	}
	if sender != "" {
		parts = append(parts, "From: "+sender)
	}

	for _, field := range emailContentFields {
		content, ok := payload[field].(string)
		if !ok {
			continue
		}
		if trimmed := strings.TrimSpace(content); trimmed != "" {
			parts = append(parts, "Content: "+trimmed)
			break
		}
	}

	if len(parts) == 0 {
		return "Raw content: " + body
	}
	return strings.Join(parts, "\n")
}

// extractChatContent handles Slack payloads: slash commands, the events API,
// and flat message shapes, in that order.
func extractChatContent(body string) string {
	payload := decodeStructured(body)

	// Slash commands (Slack usually sends these URL-encoded).
	if _, ok := payload["command"]; ok {
		command := fieldText(payload, "command")
		text := fieldText(payload, "text")
		user := fieldText(payload, "user_name")
		return fmt.Sprintf("Slack command %s from %s: %s", command, user, text)
	}

	// Events API.
	if rawEvent, ok := payload["event"]; ok {
		eventData, _ := rawEvent.(map[string]any)
		eventType := fieldText(eventData, "type")
		text := fieldText(eventData, "text")
		user := fieldText(eventData, "user")
		return fmt.Sprintf("Slack %s from %s: %s", eventType, user, text)
	}

	// Flat message shape.
	for _, field := range chatTextFields {
		if !truthy(payload[field]) {
			continue
		}
		user := fieldText(payload, "user_name")
		if user == "" {
			user = fieldText(payload, "user")
		}
		return fmt.Sprintf("Slack message from %s: %s", user, stringify(payload[field]))
	}

	return body
}

// extractGenericContent searches common text fields in a JSON payload, falling
// back to the re-serialized structure, then to the body as plain text.
func extractGenericContent(body string) string {
	var payload map[string]any
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return body
	}

	for _, field := range genericTextFields {
		if truthy(payload[field]) {
			return stringify(payload[field])
		}
	}

	serialized, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return body
	}
	return string(serialized)
}

// decodeStructured parses the body as JSON, then as URL-encoded form data.
// A body that is neither yields an empty map, leaving the caller's raw-body
// fallback to kick in.
func decodeStructured(body string) map[string]any {
	var payload map[string]any
	if err := json.Unmarshal([]byte(body), &payload); err == nil {
		return payload
	}
	return parseFormData(body)
}

// parseFormData decodes key=value pairs joined by '&' with percent-decoding.
// Malformed pairs are skipped rather than failing the whole parse.
func parseFormData(body string) map[string]any {
	result := make(map[string]any)
	for _, pair := range strings.Split(body, "&") {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		decodedKey, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}
		decodedValue, err := url.QueryUnescape(value)
		if err != nil {
			continue
		}
		result[decodedKey] = decodedValue
	}
	return result
}

func fieldText(payload map[string]any, key string) string {
	if payload == nil {
		return ""
	}
	v, ok := payload[key]
	if !ok || !truthy(v) {
		return ""
	}
	return stringify(v)
}

func truthy(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case string:
		return value != ""
	case bool:
		return value
	case float64:
		return value != 0
	default:
		return true
	}
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
