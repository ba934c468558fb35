package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rorymcdaniel/temperature-checker/internal/models"
	"github.com/rorymcdaniel/temperature-checker/internal/service"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockChecker struct {
	runErr    error
	runCalled int
}

func (m *mockChecker) Run(ctx context.Context) error {
	m.runCalled++
	return m.runErr
}

type mockAdmin struct {
	setWindowErr error
	setModeErr   error
	resetErr     error
	statusResp   service.Status
	statusErr    error

	lastWindowState models.WindowState
	lastMode        models.Mode
	resetCalled     int
}

func (m *mockAdmin) SetWindowState(ctx context.Context, state models.WindowState) error {
	m.lastWindowState = state
	return m.setWindowErr
}
func (m *mockAdmin) SetMode(ctx context.Context, mode models.Mode) error {
	m.lastMode = mode
	return m.setModeErr
}
func (m *mockAdmin) ResetNotifications(ctx context.Context) error {
	m.resetCalled++
	return m.resetErr
}
func (m *mockAdmin) Status(ctx context.Context) (service.Status, error) {
	return m.statusResp, m.statusErr
}

type mockMonitoring struct {
	state    models.AppState
	stateErr error
}

func (m *mockMonitoring) GetState(ctx context.Context) (models.AppState, error) {
	return m.state, m.stateErr
}

type mockHistory struct {
	readings      []models.TemperatureReading
	readingsErr   error
	notifications []models.Notification
	notifErr      error

	lastReadingsLimit int
	lastNotifLimit    int
}

func (m *mockHistory) RecentReadings(ctx context.Context, limit int) ([]models.TemperatureReading, error) {
	m.lastReadingsLimit = limit
	return m.readings, m.readingsErr
}
func (m *mockHistory) RecentNotifications(ctx context.Context, limit int) ([]models.Notification, error) {
	m.lastNotifLimit = limit
	return m.notifications, m.notifErr
}

// newMockServices assembles a service aggregate from the mocks,
// defaulting any nil field to a zero-value mock.
func newMockServices(auth *mockAuth, checker *mockChecker, admin *mockAdmin,
	mon *mockMonitoring, hist *mockHistory) *service.Service {
	if auth == nil {
		auth = &mockAuth{}
	}
	if checker == nil {
		checker = &mockChecker{}
	}
	if admin == nil {
		admin = &mockAdmin{}
	}
	if mon == nil {
		mon = &mockMonitoring{}
	}
	if hist == nil {
		hist = &mockHistory{}
	}
	return &service.Service{
		Checker:       checker,
		Admin:         admin,
		Monitoring:    mon,
		History:       hist,
		Authorization: auth,
	}
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
