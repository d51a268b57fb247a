package insight_test

import (
	"time"

	"healthtrack/internal/domain"
)

var t0 = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func at(hours int) time.Time { return t0.Add(time.Duration(hours) * time.Hour) }

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }
func strp(v string) *string     { return &v }

type readingOpt func(*domain.Reading)

func hr(v int) readingOpt         { return func(r *domain.Reading) { r.HeartRate = intp(v) } }
func bp(v string) readingOpt      { return func(r *domain.Reading) { r.BloodPressure = strp(v) } }
func oxygen(v int) readingOpt     { return func(r *domain.Reading) { r.BloodOxygen = intp(v) } }
func weight(v float64) readingOpt { return func(r *domain.Reading) { r.Weight = floatp(v) } }
func temp(v float64) readingOpt   { return func(r *domain.Reading) { r.Temperature = floatp(v) } }

func reading(id int64, ts time.Time, opts ...readingOpt) domain.Reading {
	r := domain.Reading{ID: id, OwnerID: 1, Timestamp: ts}
	for _, o := range opts {
		o(&r)
	}
	return r
}
