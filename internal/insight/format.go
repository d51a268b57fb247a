package insight

import (
	"fmt"
	"strconv"

	"healthtrack/internal/domain"
)

// State tells the front end which of the three dashboard states to render.
type State string

const (
	StateOK     State = "ok"
	StateNoData State = "no_data"
	StateError  State = "error"
)

// User-facing messages. Each state has its own text; the no-data message is
// never reused for a failure.
const (
	MessageNoData           = "No health records found. Submit some data to get insights!"
	MessageLoadFailed       = "Error loading insights. Please try again."
	MessagePermissionDenied = "Your account is not permitted to read health records. This is a configuration problem, please contact the administrator."
	MessageLoggedOutInsight = "Login and submit data to get insights"
	MessageLoggedOutTips    = "Login to get personalized health tips"

	TipsTitle         = "Quick Health Tips:"
	PersonalizedTitle = "Personalized Suggestions:"
	GeneralTitle      = "General Tips:"
)

// Line is one row of the insights list.
type Line struct {
	Metric domain.Metric `json:"metric"`
	Label  string        `json:"label"`
	Text   string        `json:"text"`
}

// TipsSection is the rendered tip list.
type TipsSection struct {
	Title             string   `json:"title"`
	PersonalizedTitle string   `json:"personalizedTitle,omitempty"`
	Personalized      []string `json:"personalized"`
	GeneralTitle      string   `json:"generalTitle,omitempty"`
	General           []string `json:"general"`
}

// DisplayPayload is the presentation-ready result handed to the UI.
type DisplayPayload struct {
	State   State       `json:"state"`
	Title   string      `json:"title,omitempty"`
	Message string      `json:"message,omitempty"`
	Lines   []Line      `json:"lines"`
	Tips    TipsSection `json:"tips"`
}

// Format composes the display payload for a successfully fetched window.
func Format(summary Summary, advice AdviceList) DisplayPayload {
	p := DisplayPayload{Lines: []Line{}, Tips: formatTips(advice)}
	if summary.NoData {
		p.State = StateNoData
		p.Message = MessageNoData
		return p
	}

	p.State = StateOK
	noun := "records"
	if summary.RecordCount == 1 {
		noun = "record"
	}
	p.Title = fmt.Sprintf("Your Health Insights (%d %s analyzed):", summary.RecordCount, noun)

	for _, m := range []domain.Metric{domain.MetricHeartRate, domain.MetricBloodPressure, domain.MetricBloodOxygen, domain.MetricWeight, domain.MetricTemperature, domain.MetricBloodSugar} {
		if m == domain.MetricBloodPressure {
			latest := "N/A"
			if summary.LatestBloodPressure != nil {
				latest = *summary.LatestBloodPressure + " mmHg"
			}
			p.Lines = append(p.Lines, Line{Metric: m, Label: "Blood Pressure", Text: "Latest " + latest})
			continue
		}
		ms := summary.Metric(m)
		// Temperature and blood sugar are optional extras; only list them when recorded.
		if !ms.Available() && (m == domain.MetricTemperature || m == domain.MetricBloodSugar) {
			continue
		}
		p.Lines = append(p.Lines, Line{Metric: m, Label: Label(m), Text: statsText(ms)})
	}
	return p
}

// FormatFailure composes the payload shown when the window could not be
// fetched. Only generic tips are kept so no stale personalized advice is shown.
func FormatFailure(err error, advice AdviceList) DisplayPayload {
	msg := MessageLoadFailed
	if domain.StoreErrorKindOf(err) == domain.StorePermissionDenied {
		msg = MessagePermissionDenied
	}
	return DisplayPayload{
		State:   StateError,
		Message: msg,
		Lines:   []Line{},
		Tips:    formatTips(advice.General()),
	}
}

func statsText(ms MetricSummary) string {
	if !ms.Available() {
		return "Avg N/A, Min N/A, Max N/A"
	}
	prec := metricInfos[ms.Metric].precision
	return fmt.Sprintf("Avg %s, Min %s, Max %s",
		formatValue(*ms.Average, prec), formatValue(*ms.Min, prec), formatValue(*ms.Max, prec))
}

func formatValue(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func formatTips(advice AdviceList) TipsSection {
	ts := TipsSection{Title: TipsTitle, Personalized: []string{}, General: []string{}}
	for _, a := range advice {
		if a.Personalized {
			ts.Personalized = append(ts.Personalized, a.Text)
		} else {
			ts.General = append(ts.General, a.Text)
		}
	}
	if len(ts.Personalized) > 0 {
		ts.PersonalizedTitle = PersonalizedTitle
		ts.GeneralTitle = GeneralTitle
	}
	return ts
}
