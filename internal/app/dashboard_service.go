package app

import (
	"context"

	"go.uber.org/zap"

	"healthtrack/internal/domain"
	"healthtrack/internal/insight"
	"healthtrack/internal/metrics"
)

// DashboardService computes summaries, tips and chart series from the
// owner's most recent readings. It keeps no state between calls.
type DashboardService struct {
	repo          domain.ReadingRepository
	log           *zap.Logger
	metrics       *metrics.Collector
	summaryWindow int
	tipWindow     int
}

// NewDashboardService creates a DashboardService. summaryWindow readings
// feed the statistics and chart, tipWindow readings feed the tips.
func NewDashboardService(repo domain.ReadingRepository, log *zap.Logger, m *metrics.Collector, summaryWindow, tipWindow int) *DashboardService {
	return &DashboardService{repo: repo, log: log, metrics: m, summaryWindow: summaryWindow, tipWindow: tipWindow}
}

// Dashboard is everything the dashboard screen renders.
type Dashboard struct {
	Insights insight.DisplayPayload `json:"insights"`
	Summary  *insight.Summary       `json:"summary,omitempty"`
	Chart    insight.Chart          `json:"chart"`
}

// Dashboard builds the dashboard of ownerID. When the window cannot be
// fetched the returned Dashboard is in the error state and err is the cause;
// the Dashboard is always safe to render.
func (s *DashboardService) Dashboard(ctx context.Context, ownerID int64) (Dashboard, error) {
	window, err := s.window(ctx, ownerID, s.summaryWindow)
	if err != nil {
		return Dashboard{
			Insights: insight.FormatFailure(err, insight.DeriveTips(nil)),
			Chart:    insight.ProjectAll(nil),
		}, err
	}

	summary := insight.Summarize(window)
	// The tip window is a prefix of the summary window, so both share the
	// same latest reading and one fetch serves both.
	advice := s.tips(window)
	return Dashboard{
		Insights: insight.Format(summary, advice),
		Summary:  &summary,
		Chart:    insight.ProjectAll(window),
	}, nil
}

// Summary returns the aggregated statistics of ownerID's recent readings.
func (s *DashboardService) Summary(ctx context.Context, ownerID int64) (insight.Summary, error) {
	window, err := s.window(ctx, ownerID, s.summaryWindow)
	if err != nil {
		return insight.Summary{}, err
	}
	return insight.Summarize(window), nil
}

// Tips returns the advice for ownerID. On a store failure the generic tips
// are returned together with the error.
func (s *DashboardService) Tips(ctx context.Context, ownerID int64) (insight.AdviceList, error) {
	window, err := s.window(ctx, ownerID, s.tipWindow)
	if err != nil {
		return insight.DeriveTips(nil), err
	}
	return s.tips(window), nil
}

// Chart projects metric over ownerID's recent readings, oldest first.
func (s *DashboardService) Chart(ctx context.Context, ownerID int64, metric domain.Metric) (insight.Series, error) {
	window, err := s.window(ctx, ownerID, s.summaryWindow)
	if err != nil {
		return insight.Series{}, err
	}
	return insight.Project(window, metric), nil
}

// ChartAll projects the default chart metrics over ownerID's recent readings.
func (s *DashboardService) ChartAll(ctx context.Context, ownerID int64) (insight.Chart, error) {
	window, err := s.window(ctx, ownerID, s.summaryWindow)
	if err != nil {
		return insight.ProjectAll(nil), err
	}
	return insight.ProjectAll(window), nil
}

func (s *DashboardService) tips(window []domain.Reading) insight.AdviceList {
	advice := insight.DeriveTips(insight.Latest(window))
	for _, a := range advice.Personalized() {
		s.metrics.TipFired(string(a.Category))
	}
	return advice
}

func (s *DashboardService) window(ctx context.Context, ownerID int64, limit int) ([]domain.Reading, error) {
	window, err := s.repo.ListRecentReadings(ctx, ownerID, limit)
	if err != nil {
		s.metrics.StoreFailed("list", storeKind(err))
		s.log.Error("list readings", zap.Int64("owner", ownerID), zap.Int("limit", limit), zap.Error(err))
		return nil, err
	}
	return window, nil
}
