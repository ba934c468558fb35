package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rorymcdaniel/temperature-checker/internal/config"
	"github.com/rorymcdaniel/temperature-checker/internal/logger"
	"github.com/rorymcdaniel/temperature-checker/internal/models"
	"github.com/rorymcdaniel/temperature-checker/internal/repository"
)

// duplicateSuppression is how long the same notification type is held
// back after a successful send. Fixed, not tied to how often the
// scheduler invokes the checker.
const duplicateSuppression = 30 * time.Minute

// CheckerService is the decision engine: it turns one weather snapshot
// plus the persisted state into at most one notification attempt.
type CheckerService struct {
	stateRepo     repository.StateRepo
	readings      repository.ReadingRepo
	notifications repository.NotificationRepo
	weather       WeatherSource
	sender        NotificationSender
	clock         Clock
	cfg           *config.Config
	log           *logger.Logger
}

func NewCheckerService(repos *repository.Repository, weather WeatherSource, sender NotificationSender,
	clock Clock, cfg *config.Config, log *logger.Logger) *CheckerService {
	return &CheckerService{
		stateRepo:     repos.StateRepo,
		readings:      repos.ReadingRepo,
		notifications: repos.NotificationRepo,
		weather:       weather,
		sender:        sender,
		clock:         clock,
		cfg:           cfg,
		log:           log,
	}
}

// Run performs one scheduled invocation. A weather failure aborts the
// run without touching any state; persistence failures are returned to
// the caller so the scheduler's alerting can react.
func (s *CheckerService) Run(ctx context.Context) error {
	s.log.Infow("starting temperature check", "zip_code", s.cfg.ZipCode)

	data, err := s.weather.Fetch(ctx, s.cfg.ZipCode)
	if err != nil {
		s.log.Errorw("failed to fetch weather data", "err", err)
		return nil
	}

	if err := s.readings.Append(ctx, data, s.cfg.ZipCode, s.clock.Now()); err != nil {
		return fmt.Errorf("record temperature reading: %w", err)
	}

	state, err := s.stateRepo.Load(ctx, s.cfg.DefaultMode)
	if err != nil {
		return fmt.Errorf("load app state: %w", err)
	}

	s.log.Infow("current conditions",
		"current_temp", data.CurrentTemp,
		"daily_high", data.DailyHigh,
		"daily_low", data.DailyLow,
		"mode", state.Mode,
		"windows", state.WindowState,
	)

	var proposed models.NotificationType
	switch state.Mode {
	case models.ModeCooling:
		proposed = evaluateCooling(data, state.WindowState, s.cfg.Thresholds)
	case models.ModeHeating:
		proposed = evaluateHeating(data, state.WindowState, s.cfg.Thresholds)
	}
	if proposed == "" {
		return nil
	}

	if !s.shouldNotify(proposed, state, s.clock.Now()) {
		return nil
	}

	return s.processNotification(ctx, proposed, data, state)
}

// evaluateCooling applies the cooling rule set. Temperature comparisons
// are inclusive; the forecast comparison is strict. The forecast gate
// on the close leg keeps a single hot moment from closing the windows
// when the day isn't forecast to stay hot.
func evaluateCooling(data models.WeatherData, windows models.WindowState, t config.Thresholds) models.NotificationType {
	switch {
	case windows == models.WindowOpen &&
		data.CurrentTemp >= t.CloseWindowsTemp &&
		data.DailyHigh > t.ForecastHighThreshold:
		return models.NotifyCloseWindows
	case windows == models.WindowClosed &&
		data.CurrentTemp <= t.OpenWindowsTemp:
		return models.NotifyOpenWindows
	}
	return ""
}

// evaluateHeating applies the heating rule set. Here the forecast gate
// sits on the open leg: only open up when the day won't warm past the
// point where the furnace would fight open windows.
func evaluateHeating(data models.WeatherData, windows models.WindowState, t config.Thresholds) models.NotificationType {
	switch {
	case windows == models.WindowOpen &&
		data.CurrentTemp <= t.HeatingCloseTemp:
		return models.NotifyCloseWindows
	case windows == models.WindowClosed &&
		data.CurrentTemp >= t.HeatingOpenTemp &&
		data.DailyHigh < t.HeatingForecastLowThreshold:
		return models.NotifyOpenWindows
	}
	return ""
}

// inQuietHours reports whether now falls inside the daily quiet window.
// Boundaries are zero-second instants and inclusive; a start later than
// the end wraps midnight (e.g. 22:30–07:00).
func inQuietHours(now time.Time, q config.QuietHours) bool {
	nowSec := now.Hour()*3600 + now.Minute()*60 + now.Second()
	startSec := q.StartHour*3600 + q.StartMinute*60
	endSec := q.EndHour*3600 + q.EndMinute*60

	if startSec > endSec {
		return nowSec >= startSec || nowSec <= endSec
	}
	return nowSec >= startSec && nowSec <= endSec
}

// shouldNotify gates a proposed notification on quiet hours and on
// same-type duplicate suppression. A different proposed type is never
// suppressed, regardless of recency.
func (s *CheckerService) shouldNotify(proposed models.NotificationType, state models.AppState, now time.Time) bool {
	if inQuietHours(now, s.cfg.Quiet) {
		s.log.Infow("in quiet hours, skipping notification", "type", proposed)
		return false
	}

	if state.LastNotificationType == proposed && !state.LastNotificationTime.IsZero() {
		if now.Sub(state.LastNotificationTime) < duplicateSuppression {
			s.log.Infow("same notification sent recently, skipping",
				"type", proposed,
				"last_sent", state.LastNotificationTime,
			)
			return false
		}
	}
	return true
}

// composeMessage builds the outgoing text from one of four fixed
// templates. Deterministic for a given (type, mode, snapshot).
func composeMessage(typ models.NotificationType, mode models.Mode, data models.WeatherData) string {
	var glyph, reason string
	if typ == models.NotifyCloseWindows {
		if mode == models.ModeCooling {
			glyph = "🌡️"
			reason = "Time to close the windows and turn on the AC!"
		} else {
			glyph = "🥶"
			reason = "Getting too cold! Time to close the windows and turn on heat."
		}
	} else {
		if mode == models.ModeCooling {
			glyph = "🌬️"
			reason = "Perfect time to open the windows and enjoy the fresh air!"
		} else {
			glyph = "☀️"
			reason = "Nice and warm! Perfect time to open the windows."
		}
	}

	action := "Close"
	if typ == models.NotifyOpenWindows {
		action = "Open"
	}

	return fmt.Sprintf("%s <b>%s Windows</b>\n\nCurrent temperature: %.1f°F\nDaily high forecast: %.1f°F\n\n%s",
		glyph, action, data.CurrentTemp, data.DailyHigh, reason)
}

// processNotification runs the commit protocol: compose, send, always
// record the attempt, and only on success flip window state and stamp
// the notification fields. A failed send leaves app_state untouched so
// the next invocation naturally retries.
func (s *CheckerService) processNotification(ctx context.Context, typ models.NotificationType,
	data models.WeatherData, state models.AppState) error {

	message := composeMessage(typ, state.Mode, data)
	sendErr := s.sender.Send(ctx, message)

	record := models.Notification{
		Timestamp:    s.clock.Now(),
		Type:         typ,
		CurrentTemp:  data.CurrentTemp,
		ForecastHigh: data.DailyHigh,
		ForecastLow:  data.DailyLow,
		Message:      message,
		Sent:         sendErr == nil,
	}
	if sendErr != nil {
		record.ErrorMessage = sendErr.Error()
	}
	if err := s.notifications.Append(ctx, record); err != nil {
		return fmt.Errorf("record notification attempt: %w", err)
	}

	if sendErr != nil {
		s.log.Errorw("notification send failed", "type", typ, "err", sendErr)
		return nil
	}

	newState := models.WindowClosed
	if typ == models.NotifyOpenWindows {
		newState = models.WindowOpen
	}
	upd := repository.StateUpdate{
		WindowState:      &newState,
		LastNotification: &typ,
		At:               s.clock.Now(),
	}
	if err := s.stateRepo.Update(ctx, upd); err != nil {
		return fmt.Errorf("commit app state after send: %w", err)
	}

	s.log.Infow("notification sent", "type", typ, "windows", newState)
	return nil
}
