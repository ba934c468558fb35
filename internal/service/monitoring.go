package service

import (
	"context"

	"github.com/rorymcdaniel/temperature-checker/internal/models"
	"github.com/rorymcdaniel/temperature-checker/internal/repository"
)

type MonitoringService struct {
	stateRepo   repository.StateRepo
	defaultMode models.Mode
}

func NewMonitoringService(stateRepo repository.StateRepo, defaultMode models.Mode) *MonitoringService {
	return &MonitoringService{stateRepo: stateRepo, defaultMode: defaultMode}
}

// GetState returns the persisted application state, or the default
// record when nothing has been committed yet.
func (s *MonitoringService) GetState(ctx context.Context) (models.AppState, error) {
	return s.stateRepo.Load(ctx, s.defaultMode)
}
