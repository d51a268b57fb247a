package adapthttp

import (
	"errors"
	"net/http"

	"healthtrack/internal/app"
	"healthtrack/internal/domain"
	"healthtrack/internal/insight"
)

const (
	msgAIUnavailable = "AI insights are unavailable right now. Please try again later."
	msgAIDisabled    = "AI insights are not configured."
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	d, err := s.dashboard.Dashboard(r.Context(), userFromContext(r).ID)
	if err != nil {
		writeJSON(w, storeStatus(err), d)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	summary, err := s.dashboard.Summary(r.Context(), userFromContext(r).ID)
	if err != nil {
		writeError(w, storeStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"summary": summary})
}

func (s *Server) handleTips(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	advice, err := s.dashboard.Tips(r.Context(), userFromContext(r).ID)
	if err != nil {
		writeJSON(w, storeStatus(err), map[string]any{"error": err.Error(), "tips": advice})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tips": advice})
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	owner := userFromContext(r).ID

	name := r.URL.Query().Get("metric")
	if name == "" {
		chart, err := s.dashboard.ChartAll(r.Context(), owner)
		if err != nil {
			writeError(w, storeStatus(err), err)
			return
		}
		writeJSON(w, http.StatusOK, chart)
		return
	}

	metric, ok := domain.ParseMetric(name)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unknown metric", "metric": name})
		return
	}
	series, err := s.dashboard.Chart(r.Context(), owner, metric)
	if err != nil {
		writeError(w, storeStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleAIInsight(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	out, err := s.insights.Generate(r.Context(), userFromContext(r).ID)

	var apiErr *app.APIError
	switch {
	case errors.Is(err, app.ErrAIDisabled):
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": msgAIDisabled, "tips": out.Tips})
	case errors.As(err, &apiErr):
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": msgAIUnavailable, "tips": out.Tips})
	case err != nil:
		writeJSON(w, storeStatus(err), map[string]any{"error": insight.FormatFailure(err, out.Tips).Message, "tips": out.Tips})
	default:
		writeJSON(w, http.StatusOK, out)
	}
}
