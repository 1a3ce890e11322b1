package ai

import "strings"

var recoverablePatterns = []string{
	"timeout",
	"timed out",
	"deadline exceeded",
	"rate limit",
	"rate_limit",
	"ratelimit",
	"requests per minute",
	"overloaded",
	"overloaded_error",
	"capacity",
	"server_error",
	"internal_server_error",
	"service unavailable",
	"connection reset",
	"500",
	"502",
	"503",
	"504",
	"529",
}

// IsRecoverable reports whether an AI-provider error is worth retrying:
// timeouts, rate limits, overload signals and transient server errors.
// Everything else (auth failures, invalid requests, schema errors)
// propagates immediately.
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range recoverablePatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
