package insight

import (
	"healthtrack/internal/domain"
)

// Category identifies the rule that produced an Advice.
type Category string

const (
	CategoryHeartRateHigh     Category = "heart_rate_high"
	CategoryHeartRateLow      Category = "heart_rate_low"
	CategoryOxygenLow         Category = "oxygen_low"
	CategoryBloodPressureHigh Category = "blood_pressure_high"
	CategoryBloodPressureLow  Category = "blood_pressure_low"
	CategoryWeightHigh        Category = "weight_high"
	CategoryGeneral           Category = "general"
)

// Advice is a single tip shown to the user.
type Advice struct {
	Text         string   `json:"text"`
	Category     Category `json:"category"`
	Personalized bool     `json:"personalized"`
}

// AdviceList holds personalized tips followed by the generic tips.
type AdviceList []Advice

// Personalized returns the entries derived from the user's readings.
func (l AdviceList) Personalized() AdviceList {
	var out AdviceList
	for _, a := range l {
		if a.Personalized {
			out = append(out, a)
		}
	}
	return out
}

// General returns the generic entries.
func (l AdviceList) General() AdviceList {
	var out AdviceList
	for _, a := range l {
		if !a.Personalized {
			out = append(out, a)
		}
	}
	return out
}

// Has reports whether an entry of category c is present.
func (l AdviceList) Has(c Category) bool {
	for _, a := range l {
		if a.Category == c {
			return true
		}
	}
	return false
}

// GenericTips are appended to every AdviceList, in this order.
var GenericTips = []string{
	"Aim for at least 30 minutes of moderate exercise most days of the week.",
	"Eat a balanced diet rich in fruits, vegetables, and whole grains.",
	"Stay hydrated by drinking plenty of water throughout the day.",
	"Prioritize 7-9 hours of quality sleep each night.",
	"Manage stress through meditation, deep breathing, or hobbies.",
	"Limit processed foods, sugary drinks, and excessive sodium intake.",
	"Regularly monitor your vital signs and consult a doctor for concerns.",
}

const (
	heartRateHigh = 90
	heartRateLow  = 60
	oxygenLow     = 95
	systolicHigh  = 130
	diastolicHigh = 80
	systolicLow   = 90
	diastolicLow  = 60
	weightHighKg  = 90.0
)

var tipText = map[Category]string{
	CategoryHeartRateHigh:     "Your recent heart rate is a bit high. Consider stress reduction techniques like deep breathing or meditation.",
	CategoryHeartRateLow:      "Your heart rate seems low. If you're not an athlete, consult a doctor if you feel symptoms like dizziness.",
	CategoryOxygenLow:         "Your recent blood oxygen is on the lower side. Try some deep breathing exercises throughout the day.",
	CategoryBloodPressureHigh: "Your recent blood pressure readings suggest you might be approaching or in the high range. Focus on a low-sodium diet and regular exercise.",
	CategoryBloodPressureLow:  "Your blood pressure appears low. Ensure you're well-hydrated and discuss with a doctor if you experience dizziness.",
	CategoryWeightHigh:        "Your recent weight reading is high. Focusing on a balanced diet and increasing physical activity can help.",
}

// Latest returns the reading with the greatest timestamp, or nil for an
// empty window.
func Latest(records []domain.Reading) *domain.Reading {
	if len(records) == 0 {
		return nil
	}
	latest := records[0]
	for _, r := range records[1:] {
		if compareReadings(r, latest) > 0 {
			latest = r
		}
	}
	return &latest
}

// DeriveTips evaluates the threshold rules against latest and appends the
// generic tips. A nil latest yields generic tips only.
func DeriveTips(latest *domain.Reading) AdviceList {
	out := make(AdviceList, 0, len(GenericTips)+4)
	for _, c := range firedRules(latest) {
		out = append(out, Advice{Text: tipText[c], Category: c, Personalized: true})
	}
	for _, t := range GenericTips {
		out = append(out, Advice{Text: t, Category: CategoryGeneral})
	}
	return out
}

func firedRules(r *domain.Reading) []Category {
	if r == nil {
		return nil
	}
	var fired []Category
	if hr := r.HeartRate; hr != nil {
		switch {
		case *hr > heartRateHigh:
			fired = append(fired, CategoryHeartRateHigh)
		case *hr > 0 && *hr < heartRateLow:
			fired = append(fired, CategoryHeartRateLow)
		}
	}
	if r.BloodOxygen != nil && *r.BloodOxygen < oxygenLow {
		fired = append(fired, CategoryOxygenLow)
	}
	if r.BloodPressure != nil {
		if bp, ok := domain.ParseBloodPressure(*r.BloodPressure); ok {
			switch {
			case bp.Systolic >= systolicHigh || bp.Diastolic >= diastolicHigh:
				fired = append(fired, CategoryBloodPressureHigh)
			case bp.Systolic < systolicLow || bp.Diastolic < diastolicLow:
				fired = append(fired, CategoryBloodPressureLow)
			}
		}
	}
	if r.Weight != nil && *r.Weight > weightHighKg {
		fired = append(fired, CategoryWeightHigh)
	}
	return fired
}
