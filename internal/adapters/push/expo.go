// Package push contains the push-delivery transports used by the notification dispatcher.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/SscSPs/pocket_wallet/internal/apperrors"
	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	"github.com/SscSPs/pocket_wallet/internal/core/ports"
)

// DefaultExpoPushURL is the Expo push gateway endpoint.
const DefaultExpoPushURL = "https://exp.host/--/api/v2/push/send"

// ExpoTransport delivers messages through the Expo push gateway.
type ExpoTransport struct {
	url    string
	client *http.Client
}

var _ ports.PushTransport = (*ExpoTransport)(nil)

// NewExpoTransport creates a transport posting to url. A nil client means http.DefaultClient;
// deadlines come from the context passed to Send.
func NewExpoTransport(url string, client *http.Client) *ExpoTransport {
	if url == "" {
		url = DefaultExpoPushURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &ExpoTransport{url: url, client: client}
}

type expoMessage struct {
	To    string            `json:"to"`
	Sound string            `json:"sound"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

type expoResponse struct {
	Data struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"data"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (t *ExpoTransport) Send(ctx context.Context, msg domain.PushMessage) error {
	payload, err := json.Marshal(expoMessage{
		To:    msg.To,
		Sound: "default",
		Title: msg.Title,
		Body:  msg.Body,
		Data:  msg.Data,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal expo message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build expo request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: expo request failed: %w", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: expo returned status %d", apperrors.ErrUpstream, resp.StatusCode)
	}

	var parsed expoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("%w: unreadable expo response: %w", apperrors.ErrUpstream, err)
	}
	if len(parsed.Errors) > 0 {
		return fmt.Errorf("%w: expo error %s: %s", apperrors.ErrUpstream, parsed.Errors[0].Code, parsed.Errors[0].Message)
	}
	if parsed.Data.Status == "error" {
		return fmt.Errorf("%w: expo rejected message: %s", apperrors.ErrUpstream, parsed.Data.Message)
	}
	return nil
}
