package insight

import (
	"time"

	"healthtrack/internal/domain"
)

// ChartTitle is the heading of the dashboard chart.
const ChartTitle = "Health Metrics Over Time (Last 10 Records)"

// Series is one metric projected for a line chart. A nil value is a gap in
// the line, never a zero.
type Series struct {
	Metric domain.Metric `json:"metric"`
	Label  string        `json:"label"`
	Labels []string      `json:"labels"`
	Values []*float64    `json:"series"`
}

// Chart is several series sharing the same x axis.
type Chart struct {
	Title    string   `json:"title"`
	Labels   []string `json:"labels"`
	Datasets []Series `json:"datasets"`
}

// Project returns the values of metric over records, oldest first. Blood
// pressure projects its systolic component.
func Project(records []domain.Reading, metric domain.Metric) Series {
	sorted := oldestFirst(records)
	return projectSorted(sorted, chartLabels(sorted), metric)
}

// ProjectAll projects each metric over the same oldest-first ordering. With
// no metrics it uses ChartMetrics.
func ProjectAll(records []domain.Reading, metrics ...domain.Metric) Chart {
	if len(metrics) == 0 {
		metrics = ChartMetrics
	}
	sorted := oldestFirst(records)
	labels := chartLabels(sorted)
	c := Chart{Title: ChartTitle, Labels: labels, Datasets: make([]Series, 0, len(metrics))}
	for _, m := range metrics {
		c.Datasets = append(c.Datasets, projectSorted(sorted, labels, m))
	}
	return c
}

func projectSorted(sorted []domain.Reading, labels []string, metric domain.Metric) Series {
	s := Series{Metric: metric, Label: Label(metric), Labels: labels, Values: make([]*float64, len(sorted))}
	for i, r := range sorted {
		if v, ok := r.Value(metric); ok {
			s.Values[i] = &v
		}
	}
	return s
}

func chartLabels(sorted []domain.Reading) []string {
	labels := make([]string, len(sorted))
	for i, r := range sorted {
		labels[i] = r.Timestamp.UTC().Format(time.RFC3339)
	}
	return labels
}
