package models

import "time"

// WindowState is the last known/commanded physical window position.
type WindowState string

const (
	WindowOpen   WindowState = "open"
	WindowClosed WindowState = "closed"
)

// Mode selects which threshold rule set applies.
type Mode string

const (
	ModeCooling Mode = "cooling"
	ModeHeating Mode = "heating"
)

// NotificationType is the kind of window notification sent to the user.
type NotificationType string

const (
	NotifyCloseWindows NotificationType = "close_windows"
	NotifyOpenWindows  NotificationType = "open_windows"
)

// AppState is the single persisted application state row.
// LastNotificationType and LastNotificationTime are set and cleared
// together: an empty type means LastNotificationTime is the zero time.
type AppState struct {
	WindowState          WindowState      `json:"window_state"`
	Mode                 Mode             `json:"mode"`
	LastNotificationType NotificationType `json:"last_notification_type,omitempty"`
	LastNotificationTime time.Time        `json:"last_notification_time,omitempty"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// WeatherData is one fetched set of current + forecast temperatures, °F.
type WeatherData struct {
	CurrentTemp float64 `json:"current_temp"`
	DailyHigh   float64 `json:"daily_high"`
	DailyLow    float64 `json:"daily_low"`
}

// TemperatureReading is an append-only audit record of one weather fetch.
type TemperatureReading struct {
	ID          int64     `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	CurrentTemp float64   `json:"current_temp"`
	DailyHigh   float64   `json:"daily_high_forecast"`
	DailyLow    float64   `json:"daily_low_forecast"`
	ZipCode     string    `json:"zip_code"`
}

// Notification is an append-only record of one attempted send.
type Notification struct {
	ID           string           `json:"id"`
	Timestamp    time.Time        `json:"timestamp"`
	Type         NotificationType `json:"notification_type"`
	CurrentTemp  float64          `json:"current_temp"`
	ForecastHigh float64          `json:"forecast_high"`
	ForecastLow  float64          `json:"forecast_low"`
	Message      string           `json:"message"`
	Sent         bool             `json:"sent_successfully"`
	ErrorMessage string           `json:"error_message,omitempty"`
}

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// ValidWindowState reports whether s is one of the two known positions.
func ValidWindowState(s WindowState) bool {
	return s == WindowOpen || s == WindowClosed
}

// ValidMode reports whether m is a known operating mode.
func ValidMode(m Mode) bool {
	return m == ModeCooling || m == ModeHeating
}
