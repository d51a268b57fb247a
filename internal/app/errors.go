package app

import (
	"errors"

	"healthtrack/internal/domain"
	"healthtrack/internal/insight"
)

var (
	// ErrAIDisabled indicates that no generative-text service is configured.
	ErrAIDisabled = errors.New("ai insights are not configured")
)

// APIError wraps a failure of the generative-text service. It never affects
// the rule-based tips, which are computed independently.
type APIError struct {
	Err error
}

func (e *APIError) Error() string { return "ai insight: " + e.Err.Error() }

func (e *APIError) Unwrap() error { return e.Err }

// validationReason maps a validation failure to a short metric label.
func validationReason(err error) (field, reason string) {
	var ve *insight.ValidationError
	if !errors.As(err, &ve) {
		return "", "unknown"
	}
	switch {
	case errors.Is(err, insight.ErrEmptyInput):
		reason = "empty_input"
	case errors.Is(err, insight.ErrMalformedNumber):
		reason = "malformed_number"
	case errors.Is(err, insight.ErrMalformedBloodPressure):
		reason = "malformed_blood_pressure"
	case errors.Is(err, insight.ErrOutOfRange):
		reason = "out_of_range"
	case errors.Is(err, insight.ErrUnknownUnit):
		reason = "unknown_unit"
	case errors.Is(err, insight.ErrMalformedTimestamp):
		reason = "malformed_timestamp"
	case errors.Is(err, insight.ErrMissingOwner):
		reason = "missing_owner"
	default:
		reason = "invalid"
	}
	return ve.Field, reason
}

func storeKind(err error) string {
	return domain.StoreErrorKindOf(err).String()
}
