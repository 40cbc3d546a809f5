package restaurant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/DevLaukey/cesi-delivery-ms/internal/apperr"
	"github.com/DevLaukey/cesi-delivery-ms/internal/domain"
)

// Client resolves restaurant metadata for order enrichment and pushes
// pickup notifications. All methods are best-effort from the caller's
// point of view: a failure never blocks an order transition.
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

type bulkRequest struct {
	IDs []string `json:"ids"`
}

type restaurantDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`
	Phone       string `json:"phone,omitempty"`
	CuisineType string `json:"cuisine_type,omitempty"`
}

// BulkGet resolves many restaurants in one round trip. IDs the
// collaborator does not know are simply absent from the result map.
func (c *Client) BulkGet(ctx context.Context, ids []string) (map[string]domain.Restaurant, error) {
	if len(ids) == 0 {
		return map[string]domain.Restaurant{}, nil
	}

	raw, err := json.Marshal(bulkRequest{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("restaurant: encode bulk request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/restaurants/bulk", bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("restaurant: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.unavailable("bulk get", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.unavailable("bulk get", fmt.Errorf("status %d", resp.StatusCode))
	}

	var dtos []restaurantDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, c.unavailable("bulk get", fmt.Errorf("decode: %w", err))
	}

	out := make(map[string]domain.Restaurant, len(dtos))
	for _, d := range dtos {
		out[d.ID] = domain.Restaurant{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			Address:     d.Address,
			Phone:       d.Phone,
			CuisineType: d.CuisineType,
		}
	}
	return out, nil
}

type pickupNotification struct {
	OrderID   string `json:"order_id"`
	CourierID string `json:"courier_id"`
}

// NotifyPickup tells the restaurant its order left the premises.
// Callers invoke it off the request path and only log the error.
func (c *Client) NotifyPickup(ctx context.Context, restaurantID, orderID, courierID string) error {
	raw, err := json.Marshal(pickupNotification{OrderID: orderID, CourierID: courierID})
	if err != nil {
		return fmt.Errorf("restaurant: encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/restaurants/"+restaurantID+"/pickup-notifications", bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("restaurant: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return c.unavailable("notify pickup", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return c.unavailable("notify pickup", fmt.Errorf("status %d", resp.StatusCode))
	}
	return nil
}

func (c *Client) unavailable(op string, err error) error {
	if c.failures != nil {
		c.failures.Inc()
	}
	return fmt.Errorf("restaurant: %s: %v: %w", op, err, apperr.ErrDependencyUnavailable)
}
