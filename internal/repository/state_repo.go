package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rorymcdaniel/temperature-checker/internal/models"
)

type StateSQLite struct {
	db *sql.DB
}

func NewStateSQLite(db *sql.DB) *StateSQLite {
	return &StateSQLite{db: db}
}

// constants and helpers for clarity and reuse
const (
	appStateRowID = 1

	selectStateSQL = `
		SELECT window_state, mode, last_notification_type, last_notification_time, updated_at
		FROM app_state WHERE id=?
	`

	upsertStateSQL = `
		INSERT INTO app_state (id, window_state, mode, last_notification_type, last_notification_time, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			window_state=excluded.window_state,
			mode=excluded.mode,
			last_notification_type=excluded.last_notification_type,
			last_notification_time=excluded.last_notification_time,
			updated_at=excluded.updated_at
	`
)

// defaultState is the fresh, not-yet-committed record used when the
// singleton row is absent.
func defaultState(defaultMode models.Mode) models.AppState {
	return models.AppState{
		WindowState: models.WindowClosed,
		Mode:        defaultMode,
	}
}

// Load fetches the single app_state row (id=1). When the row is absent
// it returns a default record (closed windows, the configured default
// mode, no notification history) without committing it.
func (r *StateSQLite) Load(ctx context.Context, defaultMode models.Mode) (models.AppState, error) {
	row := r.db.QueryRowContext(ctx, selectStateSQL, appStateRowID)
	st, err := scanState(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return defaultState(defaultMode), nil
		}
		return models.AppState{}, fmt.Errorf("load app state: %w", err)
	}
	return st, nil
}

// Update applies a partial update to the singleton row inside a single
// transaction (read, apply, upsert) so overlapping invocations cannot
// interleave their read-modify-write cycles.
func (r *StateSQLite) Update(ctx context.Context, upd StateUpdate) error {
	at := upd.At
	if at.IsZero() {
		at = time.Now()
	}
	at = at.UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin state update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	st, err := scanState(tx.QueryRowContext(ctx, selectStateSQL, appStateRowID))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("read state for update: %w", err)
		}
		st = defaultState(models.ModeCooling)
	}

	if upd.WindowState != nil {
		st.WindowState = *upd.WindowState
	}
	if upd.Mode != nil {
		st.Mode = *upd.Mode
	}
	if upd.LastNotification != nil {
		st.LastNotificationType = *upd.LastNotification
		st.LastNotificationTime = at
	}
	if upd.ClearLastNotification {
		st.LastNotificationType = ""
		st.LastNotificationTime = time.Time{}
	}
	st.UpdatedAt = at

	var notifType sql.NullString
	var notifTime sql.NullTime
	if st.LastNotificationType != "" {
		notifType = sql.NullString{String: string(st.LastNotificationType), Valid: true}
		notifTime = sql.NullTime{Time: st.LastNotificationTime.UTC(), Valid: true}
	}

	if _, err := tx.ExecContext(ctx, upsertStateSQL,
		appStateRowID,
		string(st.WindowState),
		string(st.Mode),
		notifType,
		notifTime,
		st.UpdatedAt,
	); err != nil {
		return fmt.Errorf("write app state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit state update: %w", err)
	}
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanState(row rowScanner) (models.AppState, error) {
	var (
		st        models.AppState
		window    string
		mode      string
		notifType sql.NullString
		notifTime sql.NullTime
	)
	if err := row.Scan(&window, &mode, &notifType, &notifTime, &st.UpdatedAt); err != nil {
		return models.AppState{}, err
	}
	st.WindowState = models.WindowState(window)
	st.Mode = models.Mode(mode)
	if notifType.Valid {
		st.LastNotificationType = models.NotificationType(notifType.String)
	}
	if notifTime.Valid {
		st.LastNotificationTime = notifTime.Time.UTC()
	}
	st.UpdatedAt = st.UpdatedAt.UTC()
	return st, nil
}
