package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/rorymcdaniel/temperature-checker/internal/models"
	"github.com/rorymcdaniel/temperature-checker/internal/service"
)

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil)

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", defaultInterval},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=90s", defaultInterval},
		{"interval_ms_too_large", "/ws?interval_ms=90000", defaultInterval},
		{"interval_invalid_string", "/ws?interval=bogus", defaultInterval},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"invalid_interval_falls_back_to_ms", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.u, nil)
			c, _ := gin.CreateTestContext(w)
			c.Request = req
			if got := h.parseInterval(c); got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

func wsDial(t *testing.T, srv *httptest.Server, rawQuery string) *websocket.Conn {
	t.Helper()

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	u.RawQuery = rawQuery

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	return conn
}

func TestWebSocket_StateStream_InitialAndPeriodic(t *testing.T) {
	mon := &mockMonitoring{state: models.AppState{
		WindowState:          models.WindowOpen,
		Mode:                 models.ModeCooling,
		LastNotificationType: models.NotifyOpenWindows,
	}}
	s := newMockServices(nil, nil, nil, mon, nil)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s, nil)
	r.GET("/ws", h.wsConnect)

	srv := httptest.NewServer(r)
	defer srv.Close()

	conn := wsDial(t, srv, "interval_ms=20")
	defer conn.Close()

	type envelope struct {
		Type  string          `json:"type"`
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}

	// Initial state arrives before the first tick.
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if env.Type != "state" || len(env.Data) == 0 {
		t.Fatalf("bad envelope: %+v", env)
	}
	var st models.AppState
	if err := json.Unmarshal(env.Data, &st); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	if st.WindowState != models.WindowOpen || st.Mode != models.ModeCooling {
		t.Fatalf("unexpected state: %+v", st)
	}

	// And a periodic tick after it.
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	env = envelope{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read second: %v", err)
	}
	if env.Type != "state" {
		t.Fatalf("expected type=state, got %+v", env)
	}
}

func TestWebSocket_InitialGetStateError_Closes(t *testing.T) {
	mon := &mockMonitoring{stateErr: errors.New("boom")}
	s := newMockServices(nil, nil, nil, mon, nil)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s, nil)
	r.GET("/ws", h.wsConnect)

	srv := httptest.NewServer(r)
	defer srv.Close()

	conn := wsDial(t, srv, "")
	defer conn.Close()

	// The server closes right after the initial state load fails.
	_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	var raw json.RawMessage
	if err := conn.ReadJSON(&raw); err == nil {
		t.Fatalf("expected read error (closed), got message: %s", string(raw))
	}
}
