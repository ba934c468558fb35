package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rorymcdaniel/temperature-checker/internal/models"
)

// StateUpdate is a partial update of the singleton app_state row.
// Nil fields are left untouched; updated_at is always stamped with At.
// Setting LastNotification also stamps last_notification_time with At;
// ClearLastNotification nulls both notification fields together.
type StateUpdate struct {
	WindowState           *models.WindowState
	Mode                  *models.Mode
	LastNotification      *models.NotificationType
	ClearLastNotification bool
	At                    time.Time
}

// StateRepo owns the singleton application state row.
type StateRepo interface {
	Load(ctx context.Context, defaultMode models.Mode) (models.AppState, error)
	Update(ctx context.Context, upd StateUpdate) error
}

// ReadingRepo is the append-only temperature reading history.
type ReadingRepo interface {
	Append(ctx context.Context, data models.WeatherData, zipCode string, at time.Time) error
	Recent(ctx context.Context, limit int) ([]models.TemperatureReading, error)
}

// NotificationRepo is the append-only record of notification attempts.
type NotificationRepo interface {
	Append(ctx context.Context, n models.Notification) error
	Recent(ctx context.Context, limit int) ([]models.Notification, error)
}

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

type Repository struct {
	StateRepo        StateRepo
	ReadingRepo      ReadingRepo
	NotificationRepo NotificationRepo
	Auth             Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		StateRepo:        NewStateSQLite(db),
		ReadingRepo:      NewReadingSQLite(db),
		NotificationRepo: NewNotificationSQLite(db),
		Auth:             NewUserRepository(db),
	}
}
