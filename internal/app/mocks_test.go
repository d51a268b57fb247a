package app_test

import (
	"context"
	"time"

	"healthtrack/internal/domain"
)

var t0 = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }
func strp(v string) *string     { return &v }

type mockReadingRepo struct {
	createFn func(ctx context.Context, r domain.Reading) (int64, error)
	listFn   func(ctx context.Context, ownerID int64, limit int) ([]domain.Reading, error)
}

func (m *mockReadingRepo) CreateReading(ctx context.Context, r domain.Reading) (int64, error) {
	if m.createFn != nil {
		return m.createFn(ctx, r)
	}
	return 1, nil
}

func (m *mockReadingRepo) ListRecentReadings(ctx context.Context, ownerID int64, limit int) ([]domain.Reading, error) {
	if m.listFn != nil {
		return m.listFn(ctx, ownerID, limit)
	}
	return nil, nil
}

type mockAds struct {
	enabled bool
	showFn  func(ctx context.Context) error
	calls   []string
}

func (m *mockAds) Enabled() bool  { return m.enabled }
func (m *mockAds) UnitID() string { return "test-unit" }

func (m *mockAds) Prepare(context.Context) error {
	m.calls = append(m.calls, "prepare")
	return nil
}

func (m *mockAds) Show(ctx context.Context) error {
	m.calls = append(m.calls, "show")
	if m.showFn != nil {
		return m.showFn(ctx)
	}
	return nil
}

type mockGenerator struct {
	generateFn func(ctx context.Context, prompt string) (string, error)
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, prompt)
	}
	return "", nil
}

func permissionDenied() error {
	return &domain.StoreError{Kind: domain.StorePermissionDenied, Op: "list", Err: errDB}
}
