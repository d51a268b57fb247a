package domain

import (
	"context"
	"time"
)

// Metric names a tracked vital sign. The string values double as the JSON
// field names of a Reading.
type Metric string

const (
	MetricHeartRate     Metric = "heartRate"
	MetricBloodPressure Metric = "bloodPressure"
	MetricBloodOxygen   Metric = "bloodOxygen"
	MetricWeight        Metric = "weight"
	MetricTemperature   Metric = "temperature"
	MetricBloodSugar    Metric = "bloodSugar"
)

// ParseMetric returns the Metric named by s.
func ParseMetric(s string) (Metric, bool) {
	switch m := Metric(s); m {
	case MetricHeartRate, MetricBloodPressure, MetricBloodOxygen,
		MetricWeight, MetricTemperature, MetricBloodSugar:
		return m, true
	}
	return "", false
}

// Reading is one submitted health record. Absent metrics are nil. A Reading
// is never modified after it has been created.
type Reading struct {
	ID            int64     `json:"id"`
	OwnerID       int64     `json:"ownerId"`
	HeartRate     *int      `json:"heartRate"`
	BloodPressure *string   `json:"bloodPressure"`
	BloodOxygen   *int      `json:"bloodOxygen"`
	Weight        *float64  `json:"weight"`
	Temperature   *float64  `json:"temperature"`
	BloodSugar    *float64  `json:"bloodSugar"`
	Notes         string    `json:"notes,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Value returns the numeric value of m for this reading. For blood pressure
// it is the systolic component; a malformed pressure string has no value.
func (r Reading) Value(m Metric) (float64, bool) {
	switch m {
	case MetricHeartRate:
		if r.HeartRate != nil {
			return float64(*r.HeartRate), true
		}
	case MetricBloodOxygen:
		if r.BloodOxygen != nil {
			return float64(*r.BloodOxygen), true
		}
	case MetricWeight:
		if r.Weight != nil {
			return *r.Weight, true
		}
	case MetricTemperature:
		if r.Temperature != nil {
			return *r.Temperature, true
		}
	case MetricBloodSugar:
		if r.BloodSugar != nil {
			return *r.BloodSugar, true
		}
	case MetricBloodPressure:
		if r.BloodPressure != nil {
			if bp, ok := ParseBloodPressure(*r.BloodPressure); ok {
				return float64(bp.Systolic), true
			}
		}
	}
	return 0, false
}

// HasMetrics reports whether at least one metric field is present.
func (r Reading) HasMetrics() bool {
	return r.HeartRate != nil || r.BloodPressure != nil || r.BloodOxygen != nil ||
		r.Weight != nil || r.Temperature != nil || r.BloodSugar != nil
}

// ReadingRepository is the port for reading persistence. Every call is
// scoped to a single owner.
type ReadingRepository interface {
	CreateReading(ctx context.Context, r Reading) (int64, error)
	// ListRecentReadings returns at most limit readings of ownerID, newest first.
	ListRecentReadings(ctx context.Context, ownerID int64, limit int) ([]Reading, error)
}
