package insight

import (
	"cmp"
	"fmt"
	"slices"

	"healthtrack/internal/domain"
)

// SummaryMetrics lists the metrics the Aggregator computes statistics for,
// in display order. Blood pressure is summarised by its latest value only.
var SummaryMetrics = []domain.Metric{
	domain.MetricHeartRate,
	domain.MetricBloodOxygen,
	domain.MetricWeight,
	domain.MetricTemperature,
	domain.MetricBloodSugar,
}

// ChartMetrics are the series drawn on the default dashboard chart.
var ChartMetrics = []domain.Metric{
	domain.MetricHeartRate,
	domain.MetricBloodOxygen,
	domain.MetricWeight,
}

type metricInfo struct {
	label     string
	precision int
}

var metricInfos = map[domain.Metric]metricInfo{
	domain.MetricHeartRate:     {"Heart Rate (bpm)", 0},
	domain.MetricBloodPressure: {"Blood Pressure (systolic mmHg)", 0},
	domain.MetricBloodOxygen:   {"Blood Oxygen (%)", 0},
	domain.MetricWeight:        {"Weight (kg)", 1},
	domain.MetricTemperature:   {"Temperature (°C)", 1},
	domain.MetricBloodSugar:    {"Blood Sugar (mg/dL)", 0},
}

// Label returns the human readable label of m, including its unit.
func Label(m domain.Metric) string {
	if info, ok := metricInfos[m]; ok {
		return info.label
	}
	return string(m)
}

// newestFirst returns a sorted copy of records, latest timestamp first.
func newestFirst(records []domain.Reading) []domain.Reading {
	out := slices.Clone(records)
	slices.SortFunc(out, func(a, b domain.Reading) int { return compareReadings(b, a) })
	return out
}

// oldestFirst returns a sorted copy of records, earliest timestamp first.
func oldestFirst(records []domain.Reading) []domain.Reading {
	out := slices.Clone(records)
	slices.SortFunc(out, compareReadings)
	return out
}

// compareReadings is a total order on readings: timestamp, then ID, then the
// field values. Ties never depend on input order.
func compareReadings(a, b domain.Reading) int {
	if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
		return c
	}
	if c := cmp.Compare(a.ID, b.ID); c != 0 {
		return c
	}
	return cmp.Compare(fingerprint(a), fingerprint(b))
}

func fingerprint(r domain.Reading) string {
	return fmt.Sprintf("%d|%s|%s|%s|%s|%s|%s|%s", r.OwnerID,
		optString(r.HeartRate), optString(r.BloodPressure), optString(r.BloodOxygen),
		optString(r.Weight), optString(r.Temperature), optString(r.BloodSugar), r.Notes)
}

func optString[T any](p *T) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprint(*p)
}
