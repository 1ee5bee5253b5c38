// Package classify maps raw generation and persistence errors into a closed
// failure taxonomy. Classification never fails: anything unrecognized lands
// in KindUnknown with the original message preserved.
package classify

import (
	"context"
	"errors"
	"net"
	"regexp"
)

// Kind identifies a failure category.
type Kind string

// The failure taxonomy.
const (
	KindRateLimit         Kind = "rate_limit"
	KindTimeout           Kind = "timeout"
	KindInvalidResponse   Kind = "invalid_response"
	KindValidationFailure Kind = "validation_failure"
	KindBudgetExceeded    Kind = "budget_exceeded"
	KindDependencyDown    Kind = "dependency_down"
	KindBrandVoiceLow     Kind = "brand_voice_low"
	KindDuplicateTitle    Kind = "duplicate_title"
	KindCapExceeded       Kind = "cap_exceeded"
	KindUnknown           Kind = "unknown"
)

// StatusError carries an HTTP status from an API error, for callers that can
// surface one. Classification uses it ahead of message matching.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string { return e.Message }

var (
	statusRe    = regexp.MustCompile(`\b(4\d\d|5\d\d)\b`)
	rateLimitRe = regexp.MustCompile(`(?i)rate.?limit|too many requests|quota exceeded`)
	timeoutRe   = regexp.MustCompile(`(?i)timeout|timed out|deadline exceeded|context canceled`)
	downRe      = regexp.MustCompile(`(?i)connection refused|no such host|service unavailable|bad gateway|EOF`)
	parseRe     = regexp.MustCompile(`(?i)unmarshal|invalid json|unexpected end of|parse|malformed`)
)

// Classify maps an error to its failure kind. Status codes win over message
// patterns: 429 is a rate limit even if the body says something else.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	if status, ok := statusOf(err); ok {
		switch {
		case status == 429:
			return KindRateLimit
		case status == 408 || status == 504:
			return KindTimeout
		case status >= 500:
			return KindDependencyDown
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	msg := err.Error()
	switch {
	case rateLimitRe.MatchString(msg):
		return KindRateLimit
	case timeoutRe.MatchString(msg):
		return KindTimeout
	case downRe.MatchString(msg):
		return KindDependencyDown
	case parseRe.MatchString(msg):
		return KindInvalidResponse
	}

	return KindUnknown
}

// statusOf extracts an HTTP status from a StatusError, or sniffs one out of
// the message ("API returned 429") as a fallback.
func statusOf(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status, true
	}

	m := statusRe.FindString(err.Error())
	if m == "" {
		return 0, false
	}
	// Regexp guarantees exactly three digits
	return int(m[0]-'0')*100 + int(m[1]-'0')*10 + int(m[2]-'0'), true
}

// CountsAgainstBreaker reports whether a failure kind should be recorded as a
// dependency failure. Validation and guardrail rejections are our problem,
// not the API's.
func CountsAgainstBreaker(k Kind) bool {
	switch k {
	case KindRateLimit, KindTimeout, KindDependencyDown:
		return true
	}
	return false
}
