package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rorymcdaniel/temperature-checker/internal/models"
)

type NotificationSQLite struct {
	db *sql.DB
}

func NewNotificationSQLite(db *sql.DB) *NotificationSQLite { return &NotificationSQLite{db: db} }

var _ NotificationRepo = (*NotificationSQLite)(nil)

const (
	insertNotificationSQL = `
		INSERT INTO notifications (id, timestamp, notification_type, current_temp, forecast_high, forecast_low, message, sent_successfully, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	selectRecentNotificationsSQL = `
		SELECT id, timestamp, notification_type, current_temp, forecast_high, forecast_low, message, sent_successfully, error_message
		FROM notifications
		ORDER BY timestamp DESC
		LIMIT ?
	`
)

// Append inserts a new attempt record. If ID or Timestamp are empty, they're set.
func (r *NotificationSQLite) Append(ctx context.Context, n models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}

	var errMsg sql.NullString
	if n.ErrorMessage != "" {
		errMsg = sql.NullString{String: n.ErrorMessage, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, insertNotificationSQL,
		n.ID,
		n.Timestamp.UTC(),
		string(n.Type),
		n.CurrentTemp,
		n.ForecastHigh,
		n.ForecastLow,
		n.Message,
		n.Sent,
		errMsg,
	)
	if err != nil {
		return fmt.Errorf("insert notification record: %w", err)
	}
	return nil
}

// Recent returns the newest attempt records, most recent first.
func (r *NotificationSQLite) Recent(ctx context.Context, limit int) ([]models.Notification, error) {
	rows, err := r.db.QueryContext(ctx, selectRecentNotificationsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("select recent notifications: %w", err)
	}
	defer rows.Close()

	out := make([]models.Notification, 0, limit)
	for rows.Next() {
		var (
			n      models.Notification
			typ    string
			errMsg sql.NullString
		)
		if err := rows.Scan(&n.ID, &n.Timestamp, &typ, &n.CurrentTemp, &n.ForecastHigh, &n.ForecastLow, &n.Message, &n.Sent, &errMsg); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Type = models.NotificationType(typ)
		n.Timestamp = n.Timestamp.UTC()
		if errMsg.Valid {
			n.ErrorMessage = errMsg.String
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
