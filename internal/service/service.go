package service

import (
	"context"
	"time"

	"github.com/rorymcdaniel/temperature-checker/internal/config"
	"github.com/rorymcdaniel/temperature-checker/internal/logger"
	"github.com/rorymcdaniel/temperature-checker/internal/models"
	"github.com/rorymcdaniel/temperature-checker/internal/repository"
)

// WeatherSource fetches one snapshot of current + forecast temperature.
type WeatherSource interface {
	Fetch(ctx context.Context, zipCode string) (models.WeatherData, error)
}

// NotificationSender delivers a message to the configured recipient.
// A nil error means the message was accepted.
type NotificationSender interface {
	Send(ctx context.Context, message string) error
}

// Clock supplies the current time so decision logic is deterministic
// under test.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Checker runs one decision invocation: fetch, record, evaluate, notify.
type Checker interface {
	Run(ctx context.Context) error
}

// Admin force-sets window state or mode and clears notification history.
type Admin interface {
	SetWindowState(ctx context.Context, state models.WindowState) error
	SetMode(ctx context.Context, mode models.Mode) error
	ResetNotifications(ctx context.Context) error
	Status(ctx context.Context) (Status, error)
}

// Monitoring exposes read-only current state.
type Monitoring interface {
	GetState(ctx context.Context) (models.AppState, error)
}

// History exposes the append-only reading and notification logs.
type History interface {
	RecentReadings(ctx context.Context, limit int) ([]models.TemperatureReading, error)
	RecentNotifications(ctx context.Context, limit int) ([]models.Notification, error)
}

// Root Service aggregates all sub-services.
type Service struct {
	Checker
	Admin
	Monitoring
	History
	Authorization
}

// NewService wires repositories and collaborators into concrete services.
func NewService(repos *repository.Repository, weather WeatherSource, sender NotificationSender,
	cfg *config.Config, log *logger.Logger) *Service {
	clock := realClock{}
	return &Service{
		Checker:       NewCheckerService(repos, weather, sender, clock, cfg, log),
		Admin:         NewAdminService(repos, clock),
		Monitoring:    NewMonitoringService(repos.StateRepo, cfg.DefaultMode),
		History:       NewHistoryService(repos.ReadingRepo, repos.NotificationRepo),
		Authorization: NewAuthService(repos.Auth, cfg.AuthSigningKey),
	}
}
