package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/DevLaukey/cesi-delivery-ms/internal/apperr"
)

// Client talks to the identity collaborator: token verification for
// incoming requests and best-effort state pushes so the wider platform
// sees courier availability and location.
type Client struct {
	baseURL  string
	http     *http.Client
	failures prometheus.Counter
}

func New(baseURL string, httpClient *http.Client, failures prometheus.Counter) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     httpClient,
		failures: failures,
	}
}

type verifyResponse struct {
	CourierID string `json:"courier_id"`
}

// VerifyToken resolves a bearer token to a courier ID. Bad or expired
// tokens map to ErrUnauthorized; an unreachable identity service maps
// to ErrDependencyUnavailable so callers answer 503, not 401.
func (c *Client) VerifyToken(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/verify", nil)
	if err != nil {
		return "", fmt.Errorf("identity: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", c.unavailable("verify token", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", apperr.ErrUnauthorized
	default:
		return "", c.unavailable("verify token", fmt.Errorf("status %d", resp.StatusCode))
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", c.unavailable("verify token", fmt.Errorf("decode: %w", err))
	}
	if body.CourierID == "" {
		return "", apperr.ErrUnauthorized
	}
	return body.CourierID, nil
}

type availabilityPush struct {
	IsAvailable bool `json:"is_available"`
}

// PushAvailability mirrors a local availability change to the platform.
func (c *Client) PushAvailability(ctx context.Context, courierID string, available bool) error {
	return c.push(ctx, "/couriers/"+courierID+"/availability", availabilityPush{IsAvailable: available})
}

type locationPush struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PushLocation mirrors a courier location update to the platform.
func (c *Client) PushLocation(ctx context.Context, courierID string, lat, lng float64) error {
	return c.push(ctx, "/couriers/"+courierID+"/location", locationPush{Latitude: lat, Longitude: lng})
}

func (c *Client) push(ctx context.Context, path string, body any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("identity: encode push: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("identity: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return c.unavailable("push "+path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return c.unavailable("push "+path, fmt.Errorf("status %d", resp.StatusCode))
	}
	return nil
}

func (c *Client) unavailable(op string, err error) error {
	if c.failures != nil {
		c.failures.Inc()
	}
	return fmt.Errorf("identity: %s: %v: %w", op, err, apperr.ErrDependencyUnavailable)
}
