package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnavailable      = errors.New("server unavailable")
	ErrModelCheckFailed = errors.New("failed to check model availability")
	ErrGenerationFailed = errors.New("failed to generate photo")
	ErrUploadFailed     = errors.New("upload failed")
	ErrTrainingFailed   = errors.New("training failed to start")
	ErrQuotaExceeded    = errors.New("quota exceeded")
)

// ErrorCode is the backend's logical error code. The backend has sent it both
// as a string and as a number; both decode into this type.
type ErrorCode string

const (
	CodeReachTrainingLimitation   ErrorCode = "ReachTrainingLimitation"
	CodeReachGenerationLimitation ErrorCode = "ReachGenerationLimitation"
)

func (c *ErrorCode) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*c = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = ErrorCode(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("errorCode: unsupported value %s", b)
	}
	*c = ErrorCode(n.String())
	return nil
}

type QuotaKind string

const (
	QuotaTraining   QuotaKind = "training"
	QuotaGeneration QuotaKind = "generation"
)

// DefaultQuotaLimit is shown when the backend does not report a number.
const DefaultQuotaLimit = 2

// QuotaError reports a training or generation limit. Limit is the count the
// backend reported.
type QuotaError struct {
	Kind    QuotaKind
	Limit   int
	Message string
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s limit reached (limit %d)", e.Kind, e.Limit)
}

func (e *QuotaError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

func newQuotaError(kind QuotaKind, message string) *QuotaError {
	return &QuotaError{Kind: kind, Limit: parseLimit(message), Message: message}
}

// parseLimit takes the first integer in msg, or DefaultQuotaLimit.
func parseLimit(msg string) int {
	msg = strings.TrimSpace(msg)
	if n, err := strconv.Atoi(msg); err == nil && n > 0 {
		return n
	}
	start := strings.IndexAny(msg, "0123456789")
	if start < 0 {
		return DefaultQuotaLimit
	}
	end := start
	for end < len(msg) && msg[end] >= '0' && msg[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(msg[start:end])
	if err != nil || n <= 0 {
		return DefaultQuotaLimit
	}
	return n
}
