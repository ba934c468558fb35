package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rorymcdaniel/temperature-checker/internal/models"
)

type ReadingSQLite struct {
	db *sql.DB
}

func NewReadingSQLite(db *sql.DB) *ReadingSQLite { return &ReadingSQLite{db: db} }

var _ ReadingRepo = (*ReadingSQLite)(nil)

const (
	insertReadingSQL = `
		INSERT INTO temperature_readings (timestamp, current_temp, daily_high_forecast, daily_low_forecast, zip_code)
		VALUES (?, ?, ?, ?, ?)
	`
	selectRecentReadingsSQL = `
		SELECT id, timestamp, current_temp, daily_high_forecast, daily_low_forecast, zip_code
		FROM temperature_readings
		ORDER BY timestamp DESC
		LIMIT ?
	`
)

// Append records one weather snapshot. If at is zero the current time is used.
func (r *ReadingSQLite) Append(ctx context.Context, data models.WeatherData, zipCode string, at time.Time) error {
	if at.IsZero() {
		at = time.Now()
	}
	_, err := r.db.ExecContext(ctx, insertReadingSQL,
		at.UTC(),
		data.CurrentTemp,
		data.DailyHigh,
		data.DailyLow,
		zipCode,
	)
	if err != nil {
		return fmt.Errorf("insert temperature reading: %w", err)
	}
	return nil
}

// Recent returns the newest readings, most recent first.
func (r *ReadingSQLite) Recent(ctx context.Context, limit int) ([]models.TemperatureReading, error) {
	rows, err := r.db.QueryContext(ctx, selectRecentReadingsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("select recent readings: %w", err)
	}
	defer rows.Close()

	out := make([]models.TemperatureReading, 0, limit)
	for rows.Next() {
		var rd models.TemperatureReading
		if err := rows.Scan(&rd.ID, &rd.Timestamp, &rd.CurrentTemp, &rd.DailyHigh, &rd.DailyLow, &rd.ZipCode); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		rd.Timestamp = rd.Timestamp.UTC()
		out = append(out, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
