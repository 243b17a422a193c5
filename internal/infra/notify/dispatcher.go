package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"fieldbook/internal/pkg/config"
)

// Notification is the structured event sent to players on match
// cancellations and reminders.
type Notification struct {
	PlayerIDs []string          `json:"player_ids"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Data      map[string]string `json:"data,omitempty"`
}

// Dispatcher delivers notifications. Delivery is best-effort: callers treat a
// false return as logged-and-ignored, never as a reason to roll back.
type Dispatcher interface {
	SendNotification(ctx context.Context, n Notification) bool
}

type HTTPDispatcher struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPDispatcher(cfg config.NotifierConfig) *HTTPDispatcher {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &HTTPDispatcher{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (d *HTTPDispatcher) SendNotification(ctx context.Context, n Notification) bool {
	if d.baseURL == "" || len(n.PlayerIDs) == 0 {
		return false
	}

	payload, err := json.Marshal(n)
	if err != nil {
		slog.Error("failed to encode notification", "error", err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/notifications", d.baseURL), bytes.NewReader(payload))
	if err != nil {
		slog.Error("failed to build notification request", "error", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		slog.Warn("notification delivery failed", "error", err, "title", n.Title)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		slog.Warn("notification rejected", "status", resp.StatusCode, "title", n.Title)
		return false
	}
	return true
}

// NopDispatcher drops notifications; used when no notifier is configured.
type NopDispatcher struct{}

func (NopDispatcher) SendNotification(context.Context, Notification) bool { return false }
