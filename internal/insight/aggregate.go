package insight

import (
	"math"
	"time"

	"healthtrack/internal/domain"
)

// MetricSummary holds the statistics of one metric over a window. Average,
// Min and Max are nil when no reading in the window has the metric.
type MetricSummary struct {
	Metric      domain.Metric `json:"metric"`
	SampleCount int           `json:"sampleCount"`
	Average     *float64      `json:"average"`
	Min         *float64      `json:"min"`
	Max         *float64      `json:"max"`
}

// Available reports whether the summary has at least one sample.
func (m MetricSummary) Available() bool { return m.SampleCount > 0 }

// Summary is the Aggregator output. NoData marks an empty window, which is a
// normal state and not a failure.
type Summary struct {
	NoData              bool                            `json:"noData"`
	RecordCount         int                             `json:"recordCount"`
	Metrics             map[domain.Metric]MetricSummary `json:"metrics"`
	LatestBloodPressure *string                         `json:"latestBloodPressure"`
	LatestAt            *time.Time                      `json:"latestAt"`
}

// Metric returns the summary of m. Metrics outside SummaryMetrics report
// zero samples.
func (s Summary) Metric(m domain.Metric) MetricSummary {
	if ms, ok := s.Metrics[m]; ok {
		return ms
	}
	return MetricSummary{Metric: m}
}

// Summarize computes per-metric statistics over records. Absent values are
// excluded from both the sum and the count. The result depends only on the
// set of records, not on their order.
func Summarize(records []domain.Reading) Summary {
	sorted := newestFirst(records)

	s := Summary{
		NoData:      len(sorted) == 0,
		RecordCount: len(sorted),
		Metrics:     make(map[domain.Metric]MetricSummary, len(SummaryMetrics)),
	}
	for _, m := range SummaryMetrics {
		s.Metrics[m] = summarizeMetric(m, sorted)
	}
	if len(sorted) > 0 {
		at := sorted[0].Timestamp
		s.LatestAt = &at
	}
	for _, r := range sorted {
		if r.BloodPressure != nil {
			bp := *r.BloodPressure
			s.LatestBloodPressure = &bp
			break
		}
	}
	return s
}

func summarizeMetric(m domain.Metric, sorted []domain.Reading) MetricSummary {
	ms := MetricSummary{Metric: m}
	var sum, lo, hi float64
	for _, r := range sorted {
		v, ok := r.Value(m)
		if !ok {
			continue
		}
		if ms.SampleCount == 0 {
			lo, hi = v, v
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		sum += v
		ms.SampleCount++
	}
	if ms.SampleCount == 0 {
		return ms
	}
	// Rounding can push the mean one ulp outside [lo, hi].
	avg := math.Min(hi, math.Max(lo, sum/float64(ms.SampleCount)))
	ms.Average, ms.Min, ms.Max = &avg, &lo, &hi
	return ms
}
