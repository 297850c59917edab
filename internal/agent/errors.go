package agent

import (
	"errors"
	"strings"

	"github.com/aws/smithy-go"
)

// transientCodes are the service error codes treated as retryable: throttling,
// rate limiting, and downstream-dependency unavailability.
var transientCodes = map[string]struct{}{
	"throttlingexception":           {},
	"toomanyrequestsexception":      {},
	"dependencyfailedexception":     {},
	"serviceunavailableexception":   {},
	"servicequotaexceededexception": {},
}

// IsTransient reports whether err is a transient dependency error worth
// retrying. Stream errors are never transient: the invocation already
// succeeded and retrying would replay the agent call.
func IsTransient(err error) bool {
	var streamErr *StreamError
	if errors.As(err, &streamErr) {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		_, ok := transientCodes[strings.ToLower(apiErr.ErrorCode())]
		return ok
	}
	return false
}
