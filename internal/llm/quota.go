package llm

import (
	"errors"
	"fmt"
	"strings"
)

// QuotaError marks an LLM failure caused by rate limiting or exhausted quota,
// so callers can answer with a "temporarily out of capacity" message instead
// of a generic failure.
type QuotaError struct {
	Err error
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("llm quota exhausted: %v", e.Err)
}

func (e *QuotaError) Unwrap() error {
	return e.Err
}

// quotaMarkers are substrings that provider SDKs put in quota and rate-limit
// error text. Matching on text is the only option when the error reaches us
// unwrapped through the agent library.
var quotaMarkers = []string{
	"insufficient_quota",
	"rate_limit",
	"ratelimiterror",
	"resource_exhausted",
	"resourceexhausted",
	"overloaded_error",
	"quota exceeded",
	"429",
}

// IsQuota reports whether err looks like a quota or rate-limit failure, either
// because it is (or wraps) a *QuotaError or because its text carries a known
// provider marker.
func IsQuota(err error) bool {
	if err == nil {
		return false
	}
	var qe *QuotaError
	if errors.As(err, &qe) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range quotaMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// WrapQuota converts err into a *QuotaError when it matches a quota marker,
// and returns it unchanged otherwise.
func WrapQuota(err error) error {
	if err == nil {
		return nil
	}
	var qe *QuotaError
	if errors.As(err, &qe) {
		return err
	}
	if IsQuota(err) {
		return &QuotaError{Err: err}
	}
	return err
}
