// Package push sends mobile notifications to drivers through the
// notification gateway.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

const serviceName = "push gateway"

// Client implements ports.NotificationService over the notification
// gateway's HTTP API. Delivery is best effort; callers fire notifications
// outside their transactions.
type Client struct {
	session *http.Client
	baseURL string
	apiKey  string
}

// NewClient creates a push gateway client for the given base URL.
func NewClient(baseURL, apiKey string) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("push gateway base URL is empty")
	}

	return &Client{
		session: &http.Client{Timeout: 5 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}, nil
}

type pushDTO struct {
	DriverID string `json:"driverId"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}

// SendPush delivers a notification to the driver's registered devices.
func (c *Client) SendPush(ctx context.Context, driverID kernel.UUID, title, body string) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if title == "" {
		return errs.NewValueIsRequiredError("title")
	}

	payload, err := json.Marshal(pushDTO{
		DriverID: driverID.String(),
		Title:    title,
		Body:     body,
	})
	if err != nil {
		return errs.NewUpstreamFailureErrorWithCause(serviceName, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/notifications", bytes.NewReader(payload))
	if err != nil {
		return errs.NewUpstreamFailureErrorWithCause(serviceName, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.session.Do(req)
	if err != nil {
		return errs.NewUpstreamFailureErrorWithCause(serviceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return errs.NewUpstreamFailureError(serviceName, resp.Status)
	}

	return nil
}
