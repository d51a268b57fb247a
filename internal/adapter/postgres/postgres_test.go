package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/lib/pq"

	"healthtrack/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.StoreErrorKind
	}{
		{"no rows", sql.ErrNoRows, domain.StoreNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", sql.ErrNoRows), domain.StoreNotFound},
		{"insufficient privilege", &pq.Error{Code: "42501"}, domain.StorePermissionDenied},
		{"bad password", &pq.Error{Code: "28P01"}, domain.StorePermissionDenied},
		{"undefined table", &pq.Error{Code: "42P01"}, domain.StoreUnavailable},
		{"connection refused", errors.New("dial tcp: connection refused"), domain.StoreUnavailable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := classify("op", tc.err)
			if got := domain.StoreErrorKindOf(err); got != tc.want {
				t.Errorf("kind = %v, want %v", got, tc.want)
			}
			if !errors.Is(err, tc.err) {
				t.Error("classified error must wrap the cause")
			}
		})
	}
	if classify("op", nil) != nil {
		t.Error("nil must stay nil")
	}
}

// TestReadingsRoundTrip runs against a real database when
// HEALTHTRACK_TEST_DATABASE_URL is set.
func TestReadingsRoundTrip(t *testing.T) {
	dsn := os.Getenv("HEALTHTRACK_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("HEALTHTRACK_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	u, err := db.Create(ctx, fmt.Sprintf("test-%d", time.Now().UnixNano()), "")
	if err != nil {
		t.Fatalf("Create user: %v", err)
	}

	hr := 72
	bp := "120/80"
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := db.CreateReading(ctx, domain.Reading{
			OwnerID:       u.ID,
			HeartRate:     &hr,
			BloodPressure: &bp,
			Timestamp:     base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("CreateReading: %v", err)
		}
	}

	got, err := db.ListRecentReadings(ctx, u.ID, 2)
	if err != nil {
		t.Fatalf("ListRecentReadings: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(got))
	}
	if !got[0].Timestamp.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("expected newest first, got %v", got[0].Timestamp)
	}
	if got[0].Weight != nil || got[0].HeartRate == nil || *got[0].HeartRate != 72 {
		t.Errorf("unexpected reading %+v", got[0])
	}

	if _, err := db.GetByID(ctx, -1); domain.StoreErrorKindOf(err) != domain.StoreNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}
