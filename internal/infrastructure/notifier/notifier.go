package notifier

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/tradelink/settlement-service/internal/domain"
)

// HTTPNotifier posts notifications to the notification service. Delivery is
// fire-and-forget: every call returns immediately and failures are only
// logged, never surfaced to the settlement flow.
type HTTPNotifier struct {
	baseURL string
	client  *http.Client
}

func NewHTTPNotifier(baseURL string) *HTTPNotifier {
	return &HTTPNotifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type notificationPayload struct {
	UserID       string `json:"user_id,omitempty"`
	Role         string `json:"role,omitempty"`
	Type         string `json:"type"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	ResourceType string `json:"resource_type"`
	ResourceID   string `json:"resource_id"`
}

func (n *HTTPNotifier) Notify(notification domain.Notification) {
	n.post("/api/v1/notifications", notificationPayload{
		UserID:       notification.UserID,
		Type:         notification.Type,
		Title:        notification.Title,
		Message:      notification.Message,
		ResourceType: notification.ResourceType,
		ResourceID:   notification.ResourceID,
	})
}

func (n *HTTPNotifier) NotifyRole(role string, notification domain.Notification) {
	n.post("/api/v1/notifications/roles", notificationPayload{
		Role:         role,
		Type:         notification.Type,
		Title:        notification.Title,
		Message:      notification.Message,
		ResourceType: notification.ResourceType,
		ResourceID:   notification.ResourceID,
	})
}

func (n *HTTPNotifier) post(path string, payload notificationPayload) {
	go func() {
		body, err := json.Marshal(payload)
		if err != nil {
			slog.Error("failed to marshal notification", "error", err.Error())
			return
		}

		req, err := http.NewRequest(http.MethodPost, n.baseURL+path, bytes.NewBuffer(body))
		if err != nil {
			slog.Error("failed to create notification request", "error", err.Error())
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.client.Do(req)
		if err != nil {
			slog.Error("notification delivery failed", "error", err.Error())
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			slog.Error("notification service returned error", "status", resp.StatusCode)
		}
	}()
}
