// Package orderapi is the HTTP client for the order backend that owns
// packages. Dispatch never stores package details; every read goes to this
// client and every lifecycle milestone is reported back through it.
package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

const serviceName = "order service"

// Client implements ports.OrderService over the order backend's internal
// HTTP API. It is safe for concurrent use.
type Client struct {
	session *http.Client
	baseURL string
	apiKey  string
}

// NewClient creates an order backend client for the given base URL.
func NewClient(baseURL, apiKey string) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("order api base URL is empty")
	}

	return &Client{
		session: &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}, nil
}

type packageAddressDTO struct {
	Text      string  `json:"text"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type packageDTO struct {
	ID             string            `json:"id"`
	TrackingNumber string            `json:"trackingNumber"`
	IsExpress      bool              `json:"isExpress"`
	PickUpStart    time.Time         `json:"pickUpStart"`
	PickUp         packageAddressDTO `json:"pickUp"`
	DropOff        packageAddressDTO `json:"dropOff"`
}

type linkageDTO struct {
	AssignmentID string `json:"assignmentId"`
	DriverID     string `json:"driverId"`
	DriverName   string `json:"driverName"`
	DriverPhone  string `json:"driverPhone"`
}

type eventDTO struct {
	Event        string `json:"event"`
	AssignmentID string `json:"assignmentId"`
}

// GetPackage fetches one package by id.
func (c *Client) GetPackage(ctx context.Context, packageID string) (*ports.Package, error) {
	if packageID == "" {
		return nil, errs.NewValueIsRequiredError("packageID")
	}

	endpoint := c.baseURL + "/internal/v1/packages/" + url.PathEscape(packageID)

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		var statusErr *httpStatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return nil, errs.NewObjectNotFoundError("package", packageID)
		}
		return nil, errs.NewUpstreamFailureErrorWithCause(serviceName, err)
	}
	defer resp.Body.Close()

	var dto packageDTO
	if err = json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return nil, errs.NewUpstreamFailureErrorWithCause(serviceName, err)
	}

	return toPackage(dto)
}

// GetDispatchablePackages lists the placed packages awaiting a driver,
// ordered by pick up start.
func (c *Client) GetDispatchablePackages(ctx context.Context) ([]*ports.Package, error) {
	endpoint := c.baseURL + "/internal/v1/packages?status=PLACED&sort=pickUpStart"

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return nil, errs.NewUpstreamFailureErrorWithCause(serviceName, err)
	}
	defer resp.Body.Close()

	var dtos []packageDTO
	if err = json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, errs.NewUpstreamFailureErrorWithCause(serviceName, err)
	}

	packages := make([]*ports.Package, 0, len(dtos))
	for _, dto := range dtos {
		pkg, pkgErr := toPackage(dto)
		if pkgErr != nil {
			return nil, pkgErr
		}
		packages = append(packages, pkg)
	}

	return packages, nil
}

// SetLinkage records the assignment and driver on a package.
func (c *Client) SetLinkage(ctx context.Context, packageID string, linkage ports.PackageLinkage) error {
	if packageID == "" {
		return errs.NewValueIsRequiredError("packageID")
	}

	body, err := json.Marshal(linkageDTO{
		AssignmentID: linkage.AssignmentID.String(),
		DriverID:     linkage.DriverID.String(),
		DriverName:   linkage.DriverName,
		DriverPhone:  linkage.DriverPhone,
	})
	if err != nil {
		return errs.NewUpstreamFailureErrorWithCause(serviceName, err)
	}

	endpoint := c.baseURL + "/internal/v1/packages/" + url.PathEscape(packageID) + "/linkage"
	return c.send(ctx, http.MethodPut, endpoint, body)
}

// ClearLinkage detaches a package from its assignment.
func (c *Client) ClearLinkage(ctx context.Context, packageID string) error {
	if packageID == "" {
		return errs.NewValueIsRequiredError("packageID")
	}

	endpoint := c.baseURL + "/internal/v1/packages/" + url.PathEscape(packageID) + "/linkage"
	return c.send(ctx, http.MethodDelete, endpoint, nil)
}

// SendEvent reports a delivery milestone for a package, tagged with the
// assignment it happened under.
func (c *Client) SendEvent(ctx context.Context, packageID string, event ports.PackageEvent,
	assignmentID kernel.UUID) error {
	if packageID == "" {
		return errs.NewValueIsRequiredError("packageID")
	}

	body, err := json.Marshal(eventDTO{Event: string(event), AssignmentID: assignmentID.String()})
	if err != nil {
		return errs.NewUpstreamFailureErrorWithCause(serviceName, err)
	}

	endpoint := c.baseURL + "/internal/v1/packages/" + url.PathEscape(packageID) + "/events"
	return c.send(ctx, http.MethodPost, endpoint, body)
}

// send executes a mutating request once. Writes are not retried; the caller
// owns idempotency.
func (c *Client) send(ctx context.Context, method, endpoint string, body []byte) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := c.newRequest(ctx, method, endpoint, reader)
	if err != nil {
		return errs.NewUpstreamFailureErrorWithCause(serviceName, err)
	}

	resp, err := c.do(req)
	if err != nil {
		return errs.NewUpstreamFailureErrorWithCause(serviceName, err)
	}
	resp.Body.Close()

	return nil
}

func (c *Client) newRequest(
	ctx context.Context, method string, endpoint string, body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 5xx responses)
// using exponential backoff while respecting context cancellation.
func (c *Client) doWithRetry(
	ctx context.Context, makeReq func() (*http.Request, error),
) (*http.Response, error) {
	const maxAttempts = 3
	backoff := 200 * time.Millisecond

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := c.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var statusErr *httpStatusError
		if errors.As(err, &statusErr) {
			switch statusErr.Code {
			case http.StatusTooManyRequests, http.StatusInternalServerError,
				http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
				retry = true
			}
		}

		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("code %d: %s", e.Code, e.Body)
}

func toPackage(dto packageDTO) (*ports.Package, error) {
	pickUp, err := kernel.NewCoordinates(dto.PickUp.Latitude, dto.PickUp.Longitude)
	if err != nil {
		return nil, errs.NewUpstreamFailureErrorWithCause(serviceName, err)
	}

	dropOff, err := kernel.NewCoordinates(dto.DropOff.Latitude, dto.DropOff.Longitude)
	if err != nil {
		return nil, errs.NewUpstreamFailureErrorWithCause(serviceName, err)
	}

	return &ports.Package{
		ID:             dto.ID,
		TrackingNumber: dto.TrackingNumber,
		IsExpress:      dto.IsExpress,
		PickUpStart:    dto.PickUpStart,
		PickUp:         ports.PackageAddress{Text: dto.PickUp.Text, Coordinates: pickUp},
		DropOff:        ports.PackageAddress{Text: dto.DropOff.Text, Coordinates: dropOff},
	}, nil
}
