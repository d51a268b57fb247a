package postgres

import (
	"context"
	"database/sql"

	"healthtrack/internal/domain"
)

var _ domain.ReadingRepository = (*DB)(nil)

const readingColumns = "id, owner_id, heart_rate, blood_pressure, blood_oxygen, weight, temperature, blood_sugar, notes, recorded_at"

// CreateReading inserts r and returns its ID.
func (d *DB) CreateReading(ctx context.Context, r domain.Reading) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		`INSERT INTO readings(owner_id, heart_rate, blood_pressure, blood_oxygen, weight, temperature, blood_sugar, notes, recorded_at)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id;`,
		r.OwnerID, r.HeartRate, r.BloodPressure, r.BloodOxygen, r.Weight, r.Temperature, r.BloodSugar, r.Notes, r.Timestamp.UTC(),
	).Scan(&id)
	if err != nil {
		return 0, classify("create reading", err)
	}
	return id, nil
}

// ListRecentReadings returns up to limit readings of ownerID, newest first.
// A limit of zero or less returns every reading.
func (d *DB) ListRecentReadings(ctx context.Context, ownerID int64, limit int) ([]domain.Reading, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+readingColumns+" FROM readings WHERE owner_id = $1 ORDER BY recorded_at DESC, id DESC LIMIT $2;",
		ownerID, sql.NullInt64{Int64: int64(limit), Valid: limit > 0})
	if err != nil {
		return nil, classify("list readings", err)
	}
	defer rows.Close()

	out := make([]domain.Reading, 0, max(limit, 0))
	for rows.Next() {
		r, err := scanReading(rows)
		if err != nil {
			return nil, classify("list readings", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list readings", err)
	}
	return out, nil
}

func scanReading(rows *sql.Rows) (domain.Reading, error) {
	var (
		r                          domain.Reading
		heartRate, oxygen          sql.NullInt64
		pressure                   sql.NullString
		weight, temperature, sugar sql.NullFloat64
	)
	err := rows.Scan(&r.ID, &r.OwnerID, &heartRate, &pressure, &oxygen, &weight, &temperature, &sugar, &r.Notes, &r.Timestamp)
	if err != nil {
		return domain.Reading{}, err
	}
	r.HeartRate = nullInt(heartRate)
	r.BloodOxygen = nullInt(oxygen)
	if pressure.Valid {
		r.BloodPressure = &pressure.String
	}
	r.Weight = nullFloat(weight)
	r.Temperature = nullFloat(temperature)
	r.BloodSugar = nullFloat(sugar)
	r.Timestamp = r.Timestamp.UTC()
	return r, nil
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	return &n.Float64
}
