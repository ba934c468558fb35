package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const requestTimeout = 10 * time.Second

// ErrMissingCredentials is returned before any network call when the
// bot token or chat id is not configured.
var ErrMissingCredentials = errors.New("telegram credentials not provided")

// Telegram sends messages to a fixed chat via the Bot API.
type Telegram struct {
	token      string
	chatID     string
	httpClient *http.Client
	baseURL    string
}

func NewTelegram(token, chatID string) *Telegram {
	return &Telegram{
		token:      token,
		chatID:     chatID,
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    "https://api.telegram.org",
	}
}

// Send delivers one HTML-formatted message. A nil return means the Bot
// API accepted the message; any error is an ordinary send failure.
func (t *Telegram) Send(ctx context.Context, message string) error {
	if t.token == "" || t.chatID == "" {
		return ErrMissingCredentials
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	form := url.Values{}
	form.Set("chat_id", t.chatID)
	form.Set("text", message)
	form.Set("parse_mode", "HTML")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram api status %d: %s", resp.StatusCode, string(b))
	}
	return nil
}
