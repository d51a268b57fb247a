package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"healthtrack/internal/app"
	"healthtrack/internal/domain"
	"healthtrack/internal/insight"
	"healthtrack/internal/metrics"
)

func sampleReadings() []domain.Reading {
	return []domain.Reading{
		{ID: 3, OwnerID: 1, Timestamp: t0.Add(2 * time.Hour), HeartRate: intp(95), BloodPressure: strp("135/85"), BloodOxygen: intp(97)},
		{ID: 2, OwnerID: 1, Timestamp: t0.Add(time.Hour), HeartRate: intp(70), Weight: floatp(80)},
		{ID: 1, OwnerID: 1, Timestamp: t0, HeartRate: intp(65), BloodOxygen: intp(99)},
	}
}

func TestDashboard_OK(t *testing.T) {
	repo := &mockReadingRepo{
		listFn: func(_ context.Context, ownerID int64, limit int) ([]domain.Reading, error) {
			if ownerID != 1 {
				t.Fatalf("unexpected owner %d", ownerID)
			}
			if limit != 10 {
				t.Fatalf("expected summary window 10, got %d", limit)
			}
			return sampleReadings(), nil
		},
	}
	m := metrics.NewCollector("test", nil)
	svc := app.NewDashboardService(repo, zap.NewNop(), m, 10, 5)

	d, err := svc.Dashboard(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Insights.State != insight.StateOK {
		t.Fatalf("expected ok state, got %s", d.Insights.State)
	}
	if d.Insights.Title != "Your Health Insights (3 records analyzed):" {
		t.Errorf("unexpected title %q", d.Insights.Title)
	}
	if d.Summary == nil || d.Summary.RecordCount != 3 {
		t.Fatalf("unexpected summary: %+v", d.Summary)
	}
	if len(d.Chart.Datasets) != len(insight.ChartMetrics) {
		t.Errorf("expected %d datasets, got %d", len(insight.ChartMetrics), len(d.Chart.Datasets))
	}
	if d.Chart.Labels[0] != "2026-03-01T08:00:00Z" {
		t.Errorf("chart must start with the oldest reading, got %s", d.Chart.Labels[0])
	}
	// Latest reading has heart rate 95 and pressure 135/85.
	if len(d.Insights.Tips.Personalized) != 2 {
		t.Errorf("expected 2 personalized tips, got %v", d.Insights.Tips.Personalized)
	}
	if got := testutil.ToFloat64(m.TipsFired.WithLabelValues(string(insight.CategoryHeartRateHigh))); got != 1 {
		t.Errorf("tips fired = %v, want 1", got)
	}
}

func TestDashboard_NoData(t *testing.T) {
	svc := app.NewDashboardService(&mockReadingRepo{}, zap.NewNop(), nil, 10, 5)

	d, err := svc.Dashboard(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Insights.State != insight.StateNoData {
		t.Fatalf("expected no_data, got %s", d.Insights.State)
	}
	if d.Insights.Message != insight.MessageNoData {
		t.Errorf("unexpected message %q", d.Insights.Message)
	}
	if len(d.Insights.Tips.General) != len(insight.GenericTips) {
		t.Errorf("generic tips must always be present")
	}
}

func TestDashboard_StoreFailure(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"unavailable", errDB, insight.MessageLoadFailed},
		{"permission denied", permissionDenied(), insight.MessagePermissionDenied},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockReadingRepo{
				listFn: func(context.Context, int64, int) ([]domain.Reading, error) { return nil, tc.err },
			}
			svc := app.NewDashboardService(repo, zap.NewNop(), nil, 10, 5)

			d, err := svc.Dashboard(context.Background(), 1)
			if !errors.Is(err, errDB) {
				t.Fatalf("expected store error, got %v", err)
			}
			if d.Insights.State != insight.StateError {
				t.Fatalf("expected error state, got %s", d.Insights.State)
			}
			if d.Insights.Message != tc.message {
				t.Errorf("expected %q, got %q", tc.message, d.Insights.Message)
			}
			if d.Insights.Message == insight.MessageNoData {
				t.Error("a failure must not look like an empty history")
			}
			if len(d.Insights.Tips.Personalized) != 0 || len(d.Insights.Tips.General) != len(insight.GenericTips) {
				t.Errorf("expected generic tips only, got %+v", d.Insights.Tips)
			}
			if d.Summary != nil {
				t.Error("no summary on failure")
			}
		})
	}
}

func TestTips_UsesTipWindow(t *testing.T) {
	repo := &mockReadingRepo{
		listFn: func(_ context.Context, _ int64, limit int) ([]domain.Reading, error) {
			if limit != 5 {
				t.Fatalf("expected tip window 5, got %d", limit)
			}
			return sampleReadings(), nil
		},
	}
	svc := app.NewDashboardService(repo, zap.NewNop(), nil, 10, 5)

	advice, err := svc.Tips(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !advice.Has(insight.CategoryHeartRateHigh) || !advice.Has(insight.CategoryBloodPressureHigh) {
		t.Errorf("unexpected advice: %+v", advice.Personalized())
	}
}

func TestTips_StoreFailureFallsBackToGeneric(t *testing.T) {
	repo := &mockReadingRepo{
		listFn: func(context.Context, int64, int) ([]domain.Reading, error) { return nil, errDB },
	}
	svc := app.NewDashboardService(repo, zap.NewNop(), nil, 10, 5)

	advice, err := svc.Tips(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(advice.Personalized()) != 0 || len(advice.General()) != len(insight.GenericTips) {
		t.Errorf("expected generic tips only, got %+v", advice)
	}
}

func TestSummary(t *testing.T) {
	repo := &mockReadingRepo{
		listFn: func(context.Context, int64, int) ([]domain.Reading, error) { return sampleReadings(), nil },
	}
	svc := app.NewDashboardService(repo, zap.NewNop(), nil, 10, 5)

	s, err := svc.Summary(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hr := s.Metric(domain.MetricHeartRate)
	if hr.SampleCount != 3 || *hr.Min != 65 || *hr.Max != 95 {
		t.Errorf("unexpected heart rate summary: %+v", hr)
	}
	if s.LatestBloodPressure == nil || *s.LatestBloodPressure != "135/85" {
		t.Errorf("unexpected latest pressure: %v", s.LatestBloodPressure)
	}
}

func TestChart(t *testing.T) {
	repo := &mockReadingRepo{
		listFn: func(context.Context, int64, int) ([]domain.Reading, error) { return sampleReadings(), nil },
	}
	svc := app.NewDashboardService(repo, zap.NewNop(), nil, 10, 5)

	s, err := svc.Chart(context.Background(), 1, domain.MetricWeight)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Values) != 3 {
		t.Fatalf("expected 3 values, got %d", len(s.Values))
	}
	if s.Values[0] != nil || s.Values[1] == nil || *s.Values[1] != 80 || s.Values[2] != nil {
		t.Errorf("absent weights must be gaps: %v", s.Values)
	}
}

func TestChartAll(t *testing.T) {
	repo := &mockReadingRepo{
		listFn: func(context.Context, int64, int) ([]domain.Reading, error) { return sampleReadings(), nil },
	}
	svc := app.NewDashboardService(repo, zap.NewNop(), nil, 10, 5)

	c, err := svc.ChartAll(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Title != insight.ChartTitle || len(c.Labels) != 3 {
		t.Errorf("unexpected chart %+v", c)
	}
}
