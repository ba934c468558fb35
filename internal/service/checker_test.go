package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rorymcdaniel/temperature-checker/internal/config"
	"github.com/rorymcdaniel/temperature-checker/internal/logger"
	"github.com/rorymcdaniel/temperature-checker/internal/models"
	"github.com/rorymcdaniel/temperature-checker/internal/repository"
)

// ---- fakes ----

type fakeStateRepo struct {
	loadResp    models.AppState
	loadErr     error
	updateErr   error
	loadCalls   int
	updateCalls []repository.StateUpdate
}

func (f *fakeStateRepo) Load(ctx context.Context, defaultMode models.Mode) (models.AppState, error) {
	f.loadCalls++
	return f.loadResp, f.loadErr
}
func (f *fakeStateRepo) Update(ctx context.Context, upd repository.StateUpdate) error {
	f.updateCalls = append(f.updateCalls, upd)
	return f.updateErr
}

type fakeReadingRepo struct {
	appendErr   error
	appendCalls int
	lastData    models.WeatherData
	lastZip     string
	stored      []models.TemperatureReading
	recentLimit int
	recentErr   error
}

func (f *fakeReadingRepo) Append(ctx context.Context, data models.WeatherData, zipCode string, at time.Time) error {
	f.appendCalls++
	f.lastData = data
	f.lastZip = zipCode
	return f.appendErr
}
func (f *fakeReadingRepo) Recent(ctx context.Context, limit int) ([]models.TemperatureReading, error) {
	f.recentLimit = limit
	return f.stored, f.recentErr
}

type fakeNotificationRepo struct {
	appendErr   error
	records     []models.Notification
	recentLimit int
	recentErr   error
}

func (f *fakeNotificationRepo) Append(ctx context.Context, n models.Notification) error {
	f.records = append(f.records, n)
	return f.appendErr
}
func (f *fakeNotificationRepo) Recent(ctx context.Context, limit int) ([]models.Notification, error) {
	f.recentLimit = limit
	return f.records, f.recentErr
}

type fakeWeather struct {
	data models.WeatherData
	err  error
}

func (f *fakeWeather) Fetch(ctx context.Context, zipCode string) (models.WeatherData, error) {
	return f.data, f.err
}

type fakeSender struct {
	err      error
	messages []string
}

func (f *fakeSender) Send(ctx context.Context, message string) error {
	f.messages = append(f.messages, message)
	return f.err
}

type fakeClock struct {
	now time.Time
}

func (f fakeClock) Now() time.Time { return f.now }

// ---- helpers ----

func testConfig() *config.Config {
	return &config.Config{
		ZipCode:     "45056",
		DefaultMode: models.ModeCooling,
		Thresholds: config.Thresholds{
			CloseWindowsTemp:            78,
			OpenWindowsTemp:             76,
			ForecastHighThreshold:       80,
			HeatingCloseTemp:            55,
			HeatingOpenTemp:             65,
			HeatingForecastLowThreshold: 70,
		},
		Quiet: config.QuietHours{StartHour: 22, StartMinute: 30, EndHour: 7, EndMinute: 0},
	}
}

type checkerFixture struct {
	states        *fakeStateRepo
	readings      *fakeReadingRepo
	notifications *fakeNotificationRepo
	weather       *fakeWeather
	sender        *fakeSender
	svc           *CheckerService
}

// midday is well outside the default quiet window.
var midday = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newCheckerFixture(state models.AppState, data models.WeatherData, now time.Time) *checkerFixture {
	f := &checkerFixture{
		states:        &fakeStateRepo{loadResp: state},
		readings:      &fakeReadingRepo{},
		notifications: &fakeNotificationRepo{},
		weather:       &fakeWeather{data: data},
		sender:        &fakeSender{},
	}
	f.svc = &CheckerService{
		stateRepo:     f.states,
		readings:      f.readings,
		notifications: f.notifications,
		weather:       f.weather,
		sender:        f.sender,
		clock:         fakeClock{now: now},
		cfg:           testConfig(),
		log:           logger.Get(logger.ErrorLevel),
	}
	return f
}

func weather(current, high, low float64) models.WeatherData {
	return models.WeatherData{CurrentTemp: current, DailyHigh: high, DailyLow: low}
}

// ---- rule evaluation ----

func TestEvaluateCooling(t *testing.T) {
	th := testConfig().Thresholds

	tests := []struct {
		name    string
		data    models.WeatherData
		windows models.WindowState
		want    models.NotificationType
	}{
		{"close when hot and forecast hot", weather(78, 85, 65), models.WindowOpen, models.NotifyCloseWindows},
		{"close boundary inclusive on current temp", weather(78, 81, 65), models.WindowOpen, models.NotifyCloseWindows},
		{"forecast boundary is strict", weather(85, 80, 65), models.WindowOpen, ""},
		{"no close when already closed", weather(90, 95, 65), models.WindowClosed, ""},
		{"open when cool enough", weather(75, 85, 65), models.WindowClosed, models.NotifyOpenWindows},
		{"open boundary inclusive", weather(76, 85, 65), models.WindowClosed, models.NotifyOpenWindows},
		{"no open when already open", weather(70, 85, 65), models.WindowOpen, ""},
		{"dead band between thresholds", weather(77, 85, 65), models.WindowClosed, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evaluateCooling(tt.data, tt.windows, th); got != tt.want {
				t.Fatalf("evaluateCooling() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEvaluateHeating(t *testing.T) {
	th := testConfig().Thresholds

	tests := []struct {
		name    string
		data    models.WeatherData
		windows models.WindowState
		want    models.NotificationType
	}{
		{"close when too cold", weather(50, 60, 40), models.WindowOpen, models.NotifyCloseWindows},
		{"close boundary inclusive", weather(55, 60, 40), models.WindowOpen, models.NotifyCloseWindows},
		{"no close when already closed", weather(40, 60, 30), models.WindowClosed, ""},
		{"open when warm and day stays cool", weather(66, 69, 50), models.WindowClosed, models.NotifyOpenWindows},
		{"open boundary inclusive on current temp", weather(65, 69, 50), models.WindowClosed, models.NotifyOpenWindows},
		{"forecast boundary is strict", weather(68, 70, 50), models.WindowClosed, ""},
		{"forecast too warm blocks open", weather(68, 80, 50), models.WindowClosed, ""},
		{"no open when already open", weather(68, 69, 50), models.WindowOpen, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evaluateHeating(tt.data, tt.windows, th); got != tt.want {
				t.Fatalf("evaluateHeating() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---- temporal gating ----

func TestInQuietHours_WrapsMidnight(t *testing.T) {
	q := config.QuietHours{StartHour: 22, StartMinute: 30, EndHour: 7, EndMinute: 0}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"late evening is quiet", time.Date(2024, 6, 15, 23, 0, 0, 0, time.UTC), true},
		{"start boundary inclusive", time.Date(2024, 6, 15, 22, 30, 0, 0, time.UTC), true},
		{"just before start is not quiet", time.Date(2024, 6, 15, 22, 29, 0, 0, time.UTC), false},
		{"end boundary inclusive", time.Date(2024, 6, 15, 7, 0, 0, 0, time.UTC), true},
		{"just after end is not quiet", time.Date(2024, 6, 15, 7, 1, 0, 0, time.UTC), false},
		{"midnight is quiet", time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), true},
		{"midday is not quiet", midday, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inQuietHours(tt.now, q); got != tt.want {
				t.Fatalf("inQuietHours(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestInQuietHours_NonWrapping(t *testing.T) {
	q := config.QuietHours{StartHour: 12, StartMinute: 0, EndHour: 14, EndMinute: 0}

	if !inQuietHours(time.Date(2024, 6, 15, 13, 0, 0, 0, time.UTC), q) {
		t.Fatalf("13:00 should be inside 12:00-14:00")
	}
	if inQuietHours(time.Date(2024, 6, 15, 14, 0, 1, 0, time.UTC), q) {
		t.Fatalf("14:00:01 should be outside 12:00-14:00")
	}
	if inQuietHours(time.Date(2024, 6, 15, 11, 59, 59, 0, time.UTC), q) {
		t.Fatalf("11:59:59 should be outside 12:00-14:00")
	}
}

func TestShouldNotify_DuplicateSuppression(t *testing.T) {
	f := newCheckerFixture(models.AppState{}, models.WeatherData{}, midday)

	tests := []struct {
		name     string
		proposed models.NotificationType
		lastType models.NotificationType
		lastAge  time.Duration
		want     bool
	}{
		{"same type just sent", models.NotifyCloseWindows, models.NotifyCloseWindows, time.Minute, false},
		{"same type just inside window", models.NotifyCloseWindows, models.NotifyCloseWindows, 30*time.Minute - time.Second, false},
		{"same type at exactly the window", models.NotifyCloseWindows, models.NotifyCloseWindows, 30 * time.Minute, true},
		{"same type past the window", models.NotifyCloseWindows, models.NotifyCloseWindows, 30*time.Minute + time.Second, true},
		{"different type is never suppressed", models.NotifyOpenWindows, models.NotifyCloseWindows, time.Minute, true},
		{"no prior record", models.NotifyCloseWindows, "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := models.AppState{LastNotificationType: tt.lastType}
			if tt.lastType != "" {
				state.LastNotificationTime = midday.Add(-tt.lastAge)
			}
			if got := f.svc.shouldNotify(tt.proposed, state, midday); got != tt.want {
				t.Fatalf("shouldNotify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldNotify_QuietHoursSuppressUnconditionally(t *testing.T) {
	f := newCheckerFixture(models.AppState{}, models.WeatherData{}, midday)
	night := time.Date(2024, 6, 15, 23, 0, 0, 0, time.UTC)

	if f.svc.shouldNotify(models.NotifyCloseWindows, models.AppState{}, night) {
		t.Fatalf("expected suppression during quiet hours even with no prior notification")
	}
}

// ---- message composition ----

func TestComposeMessage_Templates(t *testing.T) {
	data := weather(78, 85, 65)

	tests := []struct {
		name       string
		typ        models.NotificationType
		mode       models.Mode
		wantPrefix string
		wantReason string
	}{
		{"cooling close", models.NotifyCloseWindows, models.ModeCooling, "🌡️ <b>Close Windows</b>", "Time to close the windows and turn on the AC!"},
		{"cooling open", models.NotifyOpenWindows, models.ModeCooling, "🌬️ <b>Open Windows</b>", "Perfect time to open the windows and enjoy the fresh air!"},
		{"heating close", models.NotifyCloseWindows, models.ModeHeating, "🥶 <b>Close Windows</b>", "Getting too cold! Time to close the windows and turn on heat."},
		{"heating open", models.NotifyOpenWindows, models.ModeHeating, "☀️ <b>Open Windows</b>", "Nice and warm! Perfect time to open the windows."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := composeMessage(tt.typ, tt.mode, data)
			if !strings.HasPrefix(got, tt.wantPrefix) {
				t.Fatalf("message %q does not start with %q", got, tt.wantPrefix)
			}
			if !strings.HasSuffix(got, tt.wantReason) {
				t.Fatalf("message %q does not end with %q", got, tt.wantReason)
			}
			if !strings.Contains(got, "Current temperature: 78.0°F") {
				t.Fatalf("message %q missing current temperature line", got)
			}
			if !strings.Contains(got, "Daily high forecast: 85.0°F") {
				t.Fatalf("message %q missing forecast line", got)
			}
		})
	}
}

func TestComposeMessage_Golden(t *testing.T) {
	got := composeMessage(models.NotifyCloseWindows, models.ModeCooling, weather(78, 85, 65))
	want := "🌡️ <b>Close Windows</b>\n\nCurrent temperature: 78.0°F\nDaily high forecast: 85.0°F\n\nTime to close the windows and turn on the AC!"
	if got != want {
		t.Fatalf("composeMessage() =\n%q\nwant\n%q", got, want)
	}
}

// ---- end-to-end invocations ----

func TestRun_CoolingCloseCommits(t *testing.T) {
	state := models.AppState{WindowState: models.WindowOpen, Mode: models.ModeCooling}
	f := newCheckerFixture(state, weather(78, 85, 65), midday)

	if err := f.svc.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if f.readings.appendCalls != 1 {
		t.Fatalf("expected 1 reading append, got %d", f.readings.appendCalls)
	}
	if f.readings.lastZip != "45056" {
		t.Fatalf("reading recorded with zip %q", f.readings.lastZip)
	}
	if len(f.sender.messages) != 1 {
		t.Fatalf("expected 1 send, got %d", len(f.sender.messages))
	}
	if len(f.notifications.records) != 1 {
		t.Fatalf("expected 1 notification record, got %d", len(f.notifications.records))
	}
	rec := f.notifications.records[0]
	if rec.Type != models.NotifyCloseWindows || !rec.Sent {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.CurrentTemp != 78 || rec.ForecastHigh != 85 || rec.ForecastLow != 65 {
		t.Fatalf("record temps wrong: %+v", rec)
	}

	if len(f.states.updateCalls) != 1 {
		t.Fatalf("expected 1 state update, got %d", len(f.states.updateCalls))
	}
	upd := f.states.updateCalls[0]
	if upd.WindowState == nil || *upd.WindowState != models.WindowClosed {
		t.Fatalf("expected window state committed to closed, got %+v", upd)
	}
	if upd.LastNotification == nil || *upd.LastNotification != models.NotifyCloseWindows {
		t.Fatalf("expected last notification committed, got %+v", upd)
	}
	if !upd.At.Equal(midday) {
		t.Fatalf("expected update stamped with clock time, got %v", upd.At)
	}
}

func TestRun_HeatingOpenBlockedByForecast(t *testing.T) {
	state := models.AppState{WindowState: models.WindowClosed, Mode: models.ModeHeating}
	f := newCheckerFixture(state, weather(68, 80, 50), midday)

	if err := f.svc.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if f.readings.appendCalls != 1 {
		t.Fatalf("reading should still be recorded, got %d appends", f.readings.appendCalls)
	}
	if len(f.sender.messages) != 0 {
		t.Fatalf("no send expected, got %v", f.sender.messages)
	}
	if len(f.notifications.records) != 0 {
		t.Fatalf("no notification record expected, got %d", len(f.notifications.records))
	}
	if len(f.states.updateCalls) != 0 {
		t.Fatalf("state must be unchanged, got %d updates", len(f.states.updateCalls))
	}
}

func TestRun_WeatherFailureAbortsCleanly(t *testing.T) {
	f := newCheckerFixture(models.AppState{}, models.WeatherData{}, midday)
	f.weather.err = errors.New("api unreachable")

	if err := f.svc.Run(context.Background()); err != nil {
		t.Fatalf("weather failure must be recovered locally, got %v", err)
	}

	if f.readings.appendCalls != 0 {
		t.Fatalf("no reading should be recorded on fetch failure")
	}
	if f.states.loadCalls != 0 {
		t.Fatalf("state should not be read on fetch failure")
	}
	if len(f.states.updateCalls) != 0 || len(f.notifications.records) != 0 {
		t.Fatalf("nothing should be written on fetch failure")
	}
}

func TestRun_SendFailureLeavesStateUntouched(t *testing.T) {
	state := models.AppState{WindowState: models.WindowOpen, Mode: models.ModeCooling}
	f := newCheckerFixture(state, weather(78, 85, 65), midday)
	f.sender.err = errors.New("telegram down")

	if err := f.svc.Run(context.Background()); err != nil {
		t.Fatalf("send failure must be recovered locally, got %v", err)
	}

	if len(f.notifications.records) != 1 {
		t.Fatalf("failed attempt must still be recorded, got %d", len(f.notifications.records))
	}
	rec := f.notifications.records[0]
	if rec.Sent {
		t.Fatalf("record should be marked unsent")
	}
	if rec.ErrorMessage != "telegram down" {
		t.Fatalf("record error = %q", rec.ErrorMessage)
	}
	if len(f.states.updateCalls) != 0 {
		t.Fatalf("app state must be untouched after failed send")
	}
}

func TestRun_QuietHoursSuppressesSend(t *testing.T) {
	state := models.AppState{WindowState: models.WindowOpen, Mode: models.ModeCooling}
	night := time.Date(2024, 6, 15, 23, 0, 0, 0, time.UTC)
	f := newCheckerFixture(state, weather(78, 85, 65), night)

	if err := f.svc.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if f.readings.appendCalls != 1 {
		t.Fatalf("reading must still be recorded during quiet hours")
	}
	if len(f.sender.messages) != 0 || len(f.notifications.records) != 0 || len(f.states.updateCalls) != 0 {
		t.Fatalf("quiet hours must suppress the whole commit protocol")
	}
}

func TestRun_ReadingPersistenceErrorIsFatal(t *testing.T) {
	f := newCheckerFixture(models.AppState{}, weather(70, 75, 60), midday)
	f.readings.appendErr = errors.New("disk full")

	if err := f.svc.Run(context.Background()); err == nil {
		t.Fatalf("persistence errors must propagate")
	}
}

func TestRun_StateLoadErrorIsFatal(t *testing.T) {
	f := newCheckerFixture(models.AppState{}, weather(70, 75, 60), midday)
	f.states.loadErr = errors.New("db locked")

	if err := f.svc.Run(context.Background()); err == nil {
		t.Fatalf("persistence errors must propagate")
	}
}

func TestRun_CommitErrorIsFatal(t *testing.T) {
	state := models.AppState{WindowState: models.WindowOpen, Mode: models.ModeCooling}
	f := newCheckerFixture(state, weather(78, 85, 65), midday)
	f.states.updateErr = errors.New("db locked")

	if err := f.svc.Run(context.Background()); err == nil {
		t.Fatalf("commit errors must propagate")
	}
}
