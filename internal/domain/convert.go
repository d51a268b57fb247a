package domain

import (
	"strconv"
	"strings"
)

const kgToLb = 2.2046226218

// ConvertWeight converts a weight value between "kg" and "lb".
// Returns v unchanged if from == to or if the units are unrecognised.
func ConvertWeight(v float64, from, to string) float64 {
	if from == to {
		return v
	}
	if from == "kg" && to == "lb" {
		return v * kgToLb
	}
	if from == "lb" && to == "kg" {
		return v / kgToLb
	}
	return v
}

// BloodPressure is a parsed "<systolic>/<diastolic>" reading in mmHg.
type BloodPressure struct {
	Systolic  int
	Diastolic int
}

// ParseBloodPressure parses s as integer "/" integer. Surrounding whitespace
// is ignored. ok is false for anything else.
func ParseBloodPressure(s string) (bp BloodPressure, ok bool) {
	sys, dia, found := strings.Cut(strings.TrimSpace(s), "/")
	if !found {
		return BloodPressure{}, false
	}
	a, err := strconv.Atoi(strings.TrimSpace(sys))
	if err != nil {
		return BloodPressure{}, false
	}
	b, err := strconv.Atoi(strings.TrimSpace(dia))
	if err != nil {
		return BloodPressure{}, false
	}
	return BloodPressure{Systolic: a, Diastolic: b}, true
}
