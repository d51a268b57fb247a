package insight

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"healthtrack/internal/domain"
)

var (
	// ErrEmptyInput indicates that no metric field was filled in.
	ErrEmptyInput = errors.New("at least one metric is required")
	// ErrMalformedNumber indicates a present field that is not a number.
	ErrMalformedNumber = errors.New("not a number")
	// ErrMalformedBloodPressure indicates a pressure not of the form "120/80".
	ErrMalformedBloodPressure = errors.New("must look like 120/80")
	// ErrOutOfRange indicates a number outside the plausible range of its metric.
	ErrOutOfRange = errors.New("out of range")
	// ErrUnknownUnit indicates a weight unit other than "kg" or "lb".
	ErrUnknownUnit = errors.New("unit must be \"kg\" or \"lb\"")
	// ErrMalformedTimestamp indicates a timestamp that is not RFC 3339.
	ErrMalformedTimestamp = errors.New("timestamp must be RFC 3339")
	// ErrMissingOwner indicates a reading without an owner.
	ErrMissingOwner = errors.New("owner is required")
)

// ValidationError reports which field of a RawReading was rejected and why.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Field is a form value as submitted. It decodes from a JSON string, number
// or null so both HTML forms and API clients can post readings.
type Field string

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = Field(v)
		return nil
	}
	*f = Field(s)
	return nil
}

func (f Field) blank() bool { return strings.TrimSpace(string(f)) == "" }

// RawReading is an unvalidated reading as entered by a user.
type RawReading struct {
	OwnerID       int64  `json:"-"`
	HeartRate     Field  `json:"heartRate"`
	BloodPressure Field  `json:"bloodPressure"`
	BloodOxygen   Field  `json:"bloodOxygen"`
	Weight        Field  `json:"weight"`
	WeightUnit    string `json:"weightUnit"`
	Temperature   Field  `json:"temperature"`
	BloodSugar    Field  `json:"bloodSugar"`
	Notes         string `json:"notes"`
	Timestamp     string `json:"timestamp"`
}

func (raw RawReading) empty() bool {
	return raw.HeartRate.blank() && raw.BloodPressure.blank() && raw.BloodOxygen.blank() &&
		raw.Weight.blank() && raw.Temperature.blank() && raw.BloodSugar.blank()
}

// Validate normalises raw into a Reading. Numeric strings are coerced, the
// weight is stored in kilograms and a missing timestamp defaults to now.
// All failures are *ValidationError.
func Validate(raw RawReading, now time.Time) (domain.Reading, error) {
	if raw.OwnerID == 0 {
		return domain.Reading{}, &ValidationError{Field: "ownerId", Err: ErrMissingOwner}
	}
	if raw.empty() {
		return domain.Reading{}, &ValidationError{Err: ErrEmptyInput}
	}

	r := domain.Reading{OwnerID: raw.OwnerID, Notes: strings.TrimSpace(raw.Notes)}
	var err error

	if r.HeartRate, err = intField(domain.MetricHeartRate, raw.HeartRate, 20, 250); err != nil {
		return domain.Reading{}, err
	}
	if r.BloodOxygen, err = intField(domain.MetricBloodOxygen, raw.BloodOxygen, 0, 100); err != nil {
		return domain.Reading{}, err
	}
	if !raw.BloodPressure.blank() {
		bp, ok := domain.ParseBloodPressure(string(raw.BloodPressure))
		if !ok {
			return domain.Reading{}, &ValidationError{Field: string(domain.MetricBloodPressure), Err: ErrMalformedBloodPressure}
		}
		s := fmt.Sprintf("%d/%d", bp.Systolic, bp.Diastolic)
		r.BloodPressure = &s
	}
	if r.Weight, err = floatField(domain.MetricWeight, raw.Weight); err != nil {
		return domain.Reading{}, err
	}
	if r.Weight != nil {
		if *r.Weight <= 0 {
			return domain.Reading{}, &ValidationError{Field: string(domain.MetricWeight), Err: ErrOutOfRange}
		}
		switch raw.WeightUnit {
		case "", "kg":
		case "lb":
			kg := domain.ConvertWeight(*r.Weight, "lb", "kg")
			r.Weight = &kg
		default:
			return domain.Reading{}, &ValidationError{Field: "weightUnit", Err: ErrUnknownUnit}
		}
	}
	if r.Temperature, err = floatField(domain.MetricTemperature, raw.Temperature); err != nil {
		return domain.Reading{}, err
	}
	if r.BloodSugar, err = floatField(domain.MetricBloodSugar, raw.BloodSugar); err != nil {
		return domain.Reading{}, err
	}

	if ts := strings.TrimSpace(raw.Timestamp); ts != "" {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return domain.Reading{}, &ValidationError{Field: "timestamp", Err: ErrMalformedTimestamp}
		}
		r.Timestamp = t.UTC()
	} else {
		r.Timestamp = now.UTC()
	}
	return r, nil
}

func intField(m domain.Metric, f Field, lo, hi int) (*int, error) {
	if f.blank() {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(f)))
	if err != nil {
		return nil, &ValidationError{Field: string(m), Err: ErrMalformedNumber}
	}
	if n < lo || n > hi {
		return nil, &ValidationError{Field: string(m), Err: fmt.Errorf("%w: want %d-%d", ErrOutOfRange, lo, hi)}
	}
	return &n, nil
}

func floatField(m domain.Metric, f Field) (*float64, error) {
	if f.blank() {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(f)), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, &ValidationError{Field: string(m), Err: ErrMalformedNumber}
	}
	return &v, nil
}
