package service

import (
	"context"
	"errors"

	"github.com/rorymcdaniel/temperature-checker/internal/models"
	"github.com/rorymcdaniel/temperature-checker/internal/repository"
)

// defaultHistoryLimit caps history queries that don't specify a limit.
const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 500
)

var errInvalidLimit = errors.New("invalid limit: must be positive")

type HistoryService struct {
	readings      repository.ReadingRepo
	notifications repository.NotificationRepo
}

func NewHistoryService(readings repository.ReadingRepo, notifications repository.NotificationRepo) *HistoryService {
	return &HistoryService{readings: readings, notifications: notifications}
}

func normalizeLimit(limit int) (int, error) {
	if limit < 0 {
		return 0, errInvalidLimit
	}
	if limit == 0 {
		return defaultHistoryLimit, nil
	}
	if limit > maxHistoryLimit {
		return maxHistoryLimit, nil
	}
	return limit, nil
}

// RecentReadings returns the newest temperature readings, most recent first.
func (s *HistoryService) RecentReadings(ctx context.Context, limit int) ([]models.TemperatureReading, error) {
	n, err := normalizeLimit(limit)
	if err != nil {
		return nil, err
	}
	return s.readings.Recent(ctx, n)
}

// RecentNotifications returns the newest attempt records, most recent first.
func (s *HistoryService) RecentNotifications(ctx context.Context, limit int) ([]models.Notification, error) {
	n, err := normalizeLimit(limit)
	if err != nil {
		return nil, err
	}
	return s.notifications.Recent(ctx, n)
}
