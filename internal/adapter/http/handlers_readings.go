package adapthttp

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"healthtrack/internal/insight"
)

func (s *Server) handleReadings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listReadings(w, r)
	case http.MethodPost:
		s.recordReading(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) listReadings(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	limit := min(intQuery(r, "limit", 10), 100)
	items, err := s.readings.ListRecent(r.Context(), user.ID, limit)
	if err != nil {
		writeError(w, storeStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// recordReading stores a reading and answers with the refreshed dashboard,
// so the client does not need a second round trip.
func (s *Server) recordReading(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)

	var raw insight.RawReading
	if err := parseJSON(r, &raw); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	raw.OwnerID = user.ID

	reading, err := s.readings.Record(r.Context(), raw)
	var ve *insight.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": ve.Error(), "field": ve.Field})
		return
	}
	if err != nil {
		writeError(w, storeStatus(err), err)
		return
	}

	// The reading is stored even if the refresh fails; the dashboard then
	// carries its own error state.
	dashboard, err := s.dashboard.Dashboard(r.Context(), user.ID)
	if err != nil {
		s.log.Warn("refresh dashboard after record",
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.Int64("owner", user.ID),
			zap.Int64("reading", reading.ID),
			zap.Error(err))
	}
	writeJSON(w, http.StatusCreated, map[string]any{"reading": reading, "dashboard": dashboard})
}
