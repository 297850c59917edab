package trigger

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// SessionID derives a short correlation id for the downstream agent from the
// trigger type, the current second, and a trigger-specific identity hint
// (sender address for email, username for chat). Two events from the same
// sender within the same second share an id; that collision is the point, as
// they belong to the same logical exchange.
func SessionID(t Type, evt Event) string {
	return sessionIDAt(t, evt, time.Now())
}

func sessionIDAt(t Type, evt Event, now time.Time) string {
	parts := []string{string(t), strconv.FormatInt(now.Unix(), 10)}
	if hint := identityHint(t, evt.Body); hint != "" {
		parts = append(parts, hint)
	}

	digest := md5.Sum([]byte(strings.Join(parts, "-")))
	return string(t) + "-" + hex.EncodeToString(digest[:])[:8]
}

// identityHint pulls the sender/user field from a JSON body. Non-JSON bodies
// simply produce no hint.
func identityHint(t Type, body string) string {
	var payload map[string]any
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return ""
	}

	switch t {
	case TypeEmail:
		if sender := fieldText(payload, "from"); sender != "" {
			return sender
		}
		return fieldText(payload, "sender")
	case TypeChat:
		if user := fieldText(payload, "user_name"); user != "" {
			return user
		}
		return fieldText(payload, "user")
	default:
		return ""
	}
}
