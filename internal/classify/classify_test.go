package classify

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type fakeNetError struct{ timeout bool }

func (e *fakeNetError) Error() string   { return "dial tcp: i/o problem" }
func (e *fakeNetError) Timeout() bool   { return e.timeout }
func (e *fakeNetError) Temporary() bool { return false }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil error", nil, KindUnknown},
		{"status 429", &StatusError{Status: 429, Message: "slow down"}, KindRateLimit},
		{"status 429 with misleading body", &StatusError{Status: 429, Message: "invalid json"}, KindRateLimit},
		{"status 408", &StatusError{Status: 408, Message: "request timeout"}, KindTimeout},
		{"status 504", &StatusError{Status: 504, Message: "gateway timeout"}, KindTimeout},
		{"status 500", &StatusError{Status: 500, Message: "internal"}, KindDependencyDown},
		{"status 503", &StatusError{Status: 503, Message: "overloaded"}, KindDependencyDown},
		{"wrapped status error", fmt.Errorf("generate: %w", &StatusError{Status: 429, Message: "quota"}), KindRateLimit},
		{"status sniffed from message", errors.New("API returned 429 Too Many Requests"), KindRateLimit},
		{"deadline exceeded", context.DeadlineExceeded, KindTimeout},
		{"wrapped deadline", fmt.Errorf("generate: %w", context.DeadlineExceeded), KindTimeout},
		{"net timeout", &fakeNetError{timeout: true}, KindTimeout},
		{"rate limit message", errors.New("rate limit exceeded for model"), KindRateLimit},
		{"rate-limit hyphenated", errors.New("hit the rate-limit"), KindRateLimit},
		{"timeout message", errors.New("request timed out"), KindTimeout},
		{"connection refused", errors.New("dial tcp 127.0.0.1:443: connection refused"), KindDependencyDown},
		{"no such host", errors.New("lookup api.example.com: no such host"), KindDependencyDown},
		{"unmarshal failure", errors.New("unmarshal faq payload: unexpected end of JSON input"), KindInvalidResponse},
		{"parse failure", errors.New("parse completion: missing title"), KindInvalidResponse},
		{"unrecognized", errors.New("something odd happened"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestCountsAgainstBreaker(t *testing.T) {
	counts := []Kind{KindRateLimit, KindTimeout, KindDependencyDown}
	for _, k := range counts {
		if !CountsAgainstBreaker(k) {
			t.Errorf("CountsAgainstBreaker(%q) = false, want true", k)
		}
	}

	doesNot := []Kind{
		KindInvalidResponse, KindValidationFailure, KindBudgetExceeded,
		KindBrandVoiceLow, KindDuplicateTitle, KindCapExceeded, KindUnknown,
	}
	for _, k := range doesNot {
		if CountsAgainstBreaker(k) {
			t.Errorf("CountsAgainstBreaker(%q) = true, want false", k)
		}
	}
}
