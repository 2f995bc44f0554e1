package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
)

// defaultAPIBase is the Telegram Bot API endpoint.
const defaultAPIBase = "https://api.telegram.org"

// Telegram delivers messages to a chat via the Bot API sendMessage method.
// Transient failures (network errors, 5xx, rate limits) are retried with
// backoff; client-side rejections are not.
type Telegram struct {
	token   string
	chatID  string
	apiBase string
	client  *http.Client
}

// NewTelegram creates a notifier for the given bot token and chat id.
func NewTelegram(token, chatID string, timeout time.Duration) *Telegram {
	return &Telegram{
		token:   token,
		chatID:  chatID,
		apiBase: defaultAPIBase,
		client:  &http.Client{Timeout: timeout},
	}
}

// WithAPIBase overrides the Bot API endpoint, used in tests.
func (t *Telegram) WithAPIBase(base string) *Telegram {
	t.apiBase = base
	return t
}

// errPermanent marks delivery failures that retrying cannot fix
var errPermanent = errors.New("permanent delivery error")

// Send delivers one message, link previews disabled.
func (t *Telegram) Send(ctx context.Context, text string) error {
	retrier := repeater.NewBackoff(3, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	err := retrier.Do(ctx, func() error {
		return t.sendMessage(ctx, text)
	}, errPermanent)
	if err != nil {
		return fmt.Errorf("deliver telegram message: %w", err)
	}
	lgr.Printf("[DEBUG] telegram message delivered, %d chars", len(text))
	return nil
}

func (t *Telegram) sendMessage(ctx context.Context, text string) error {
	payload := map[string]any{
		"chat_id":                  t.chatID,
		"text":                     text,
		"disable_web_page_preview": true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal message: %w: %w", err, errPermanent)
	}

	url := t.apiBase + "/bot" + t.token + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w: %w", err, errPermanent)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("post message: %w", err) // retry network errors
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 16*1024))
	var apiErr struct {
		Description string `json:"description"`
	}
	_ = json.Unmarshal(respBody, &apiErr)

	// 429 and server-side errors are worth retrying, the rest are not
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("telegram api status %d: %s", resp.StatusCode, apiErr.Description)
	}
	return fmt.Errorf("telegram api status %d: %s: %w", resp.StatusCode, apiErr.Description, errPermanent)
}
