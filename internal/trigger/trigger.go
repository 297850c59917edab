// Package trigger classifies inbound webhook events and extracts a normalized
// text payload. Payload shapes vary wildly between email providers, Slack, and
// generic HTTP sources, so extraction is a heuristic field search with a fixed
// priority order per trigger type.
package trigger

// Type identifies which external source produced an inbound event.
type Type string

const (
	// TypeEmail is an inbound email webhook (Mailgun-style form or JSON).
	TypeEmail Type = "email"
	// TypeChat is a Slack webhook. The wire literal stays "slack" so session
	// ids and responses remain compatible with existing consumers.
	TypeChat Type = "slack"
	// TypeGeneric is any unrecognized source.
	TypeGeneric Type = "generic"
)

// Event is the transport-level view of an inbound request: the route that
// received it and the raw body. The body may be JSON, URL-encoded form data,
// or opaque text; Classify tolerates all three.
type Event struct {
	Path string
	Body string
}
