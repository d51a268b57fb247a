package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"healthtrack/internal/domain"
	"healthtrack/internal/insight"
	"healthtrack/internal/metrics"
)

// AIInsight is the answer of the generative-text service alongside the
// rule-based advice for the same window.
type AIInsight struct {
	Text string             `json:"text"`
	Tips insight.AdviceList `json:"tips"`
}

// InsightService asks a generative-text service for a free-form reading of
// the owner's recent metrics. gen may be nil when AI is not configured.
type InsightService struct {
	repo          domain.ReadingRepository
	gen           domain.InsightGenerator
	log           *zap.Logger
	metrics       *metrics.Collector
	summaryWindow int
}

// NewInsightService creates an InsightService.
func NewInsightService(repo domain.ReadingRepository, gen domain.InsightGenerator, log *zap.Logger, m *metrics.Collector, summaryWindow int) *InsightService {
	return &InsightService{repo: repo, gen: gen, log: log, metrics: m, summaryWindow: summaryWindow}
}

// Enabled reports whether a generator is configured.
func (s *InsightService) Enabled() bool { return s.gen != nil }

// Generate returns an AI insight for ownerID. Generator failures, and a
// missing generator, are returned as *APIError; the rule tips in the result
// are derived from the owner's readings regardless.
func (s *InsightService) Generate(ctx context.Context, ownerID int64) (AIInsight, error) {
	window, err := s.repo.ListRecentReadings(ctx, ownerID, s.summaryWindow)
	if err != nil {
		s.metrics.StoreFailed("list", storeKind(err))
		return AIInsight{Tips: insight.DeriveTips(nil)}, err
	}

	latest := insight.Latest(window)
	out := AIInsight{Tips: insight.DeriveTips(latest)}
	if s.gen == nil {
		s.metrics.AIInsight("disabled")
		return out, &APIError{Err: ErrAIDisabled}
	}
	if len(window) == 0 {
		s.metrics.AIInsight("no_data")
		out.Text = insight.MessageNoData
		return out, nil
	}

	text, err := s.gen.Generate(ctx, BuildPrompt(insight.Summarize(window), latest))
	if err != nil {
		s.metrics.AIInsight("failed")
		s.log.Warn("ai insight failed", zap.Int64("owner", ownerID), zap.Error(err))
		return out, &APIError{Err: err}
	}
	s.metrics.AIInsight("ok")
	out.Text = strings.TrimSpace(text)
	return out, nil
}

// BuildPrompt renders summary and the latest reading as plain text for a
// generative model. It carries statistics only, never notes or identities.
func BuildPrompt(summary insight.Summary, latest *domain.Reading) string {
	var b strings.Builder
	b.WriteString("You are a friendly wellness assistant. Based on the recent health readings below, ")
	b.WriteString("write a short, encouraging summary with two or three practical suggestions. ")
	b.WriteString("Do not diagnose conditions; recommend seeing a doctor for anything concerning.\n\n")
	fmt.Fprintf(&b, "Readings analyzed: %d\n", summary.RecordCount)

	for _, m := range insight.SummaryMetrics {
		ms := summary.Metric(m)
		if !ms.Available() {
			continue
		}
		fmt.Fprintf(&b, "%s: average %.1f, min %.1f, max %.1f over %d samples\n",
			insight.Label(m), *ms.Average, *ms.Min, *ms.Max, ms.SampleCount)
	}
	if summary.LatestBloodPressure != nil {
		fmt.Fprintf(&b, "Latest blood pressure: %s mmHg\n", *summary.LatestBloodPressure)
	}
	if latest != nil {
		fmt.Fprintf(&b, "Most recent reading taken at %s\n", latest.Timestamp.UTC().Format("2006-01-02 15:04 MST"))
	}
	return b.String()
}
