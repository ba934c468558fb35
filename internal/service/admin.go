package service

import (
	"context"
	"fmt"

	"github.com/rorymcdaniel/temperature-checker/internal/models"
	"github.com/rorymcdaniel/temperature-checker/internal/repository"
)

// statusHistoryLimit bounds the history shown in a status dump.
const statusHistoryLimit = 3

// Status is the admin status dump: current state plus recent history.
type Status struct {
	State         models.AppState             `json:"state"`
	Readings      []models.TemperatureReading `json:"recent_readings"`
	Notifications []models.Notification       `json:"recent_notifications"`
}

// AdminService force-sets fields on the singleton state row. It is the
// only path allowed to change mode; the decision engine never does.
type AdminService struct {
	stateRepo     repository.StateRepo
	readings      repository.ReadingRepo
	notifications repository.NotificationRepo
	clock         Clock
}

func NewAdminService(repos *repository.Repository, clock Clock) *AdminService {
	return &AdminService{
		stateRepo:     repos.StateRepo,
		readings:      repos.ReadingRepo,
		notifications: repos.NotificationRepo,
		clock:         clock,
	}
}

// SetWindowState forces the recorded window position.
func (s *AdminService) SetWindowState(ctx context.Context, state models.WindowState) error {
	if !models.ValidWindowState(state) {
		return fmt.Errorf("invalid window state %q: must be %q or %q",
			state, models.WindowOpen, models.WindowClosed)
	}
	return s.stateRepo.Update(ctx, repository.StateUpdate{
		WindowState: &state,
		At:          s.clock.Now(),
	})
}

// SetMode forces the operating mode.
func (s *AdminService) SetMode(ctx context.Context, mode models.Mode) error {
	if !models.ValidMode(mode) {
		return fmt.Errorf("invalid mode %q: must be %q or %q",
			mode, models.ModeCooling, models.ModeHeating)
	}
	return s.stateRepo.Update(ctx, repository.StateUpdate{
		Mode: &mode,
		At:   s.clock.Now(),
	})
}

// ResetNotifications clears both last-notification fields so the next
// check may notify immediately.
func (s *AdminService) ResetNotifications(ctx context.Context) error {
	return s.stateRepo.Update(ctx, repository.StateUpdate{
		ClearLastNotification: true,
		At:                    s.clock.Now(),
	})
}

// Status returns the current state and the most recent history rows.
func (s *AdminService) Status(ctx context.Context) (Status, error) {
	state, err := s.stateRepo.Load(ctx, models.ModeCooling)
	if err != nil {
		return Status{}, fmt.Errorf("load state: %w", err)
	}
	readings, err := s.readings.Recent(ctx, statusHistoryLimit)
	if err != nil {
		return Status{}, fmt.Errorf("load recent readings: %w", err)
	}
	notifications, err := s.notifications.Recent(ctx, statusHistoryLimit)
	if err != nil {
		return Status{}, fmt.Errorf("load recent notifications: %w", err)
	}
	return Status{State: state, Readings: readings, Notifications: notifications}, nil
}
