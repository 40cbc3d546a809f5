package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/DevLaukey/cesi-delivery-ms/internal/apperr"
	"github.com/DevLaukey/cesi-delivery-ms/internal/domain"
)

// Client is the order-ledger collaborator: the source of truth for
// order records. It exposes read-by-id, list-all, and a conditional
// update keyed by version. Calls carry a hard timeout via the injected
// http.Client and are never retried here.
type Client struct {
	baseURL  string
	http     *http.Client
	failures prometheus.Counter
}

// New creates a ledger client. The http.Client's Timeout bounds every
// call; pass one configured from Gateway settings.
func New(baseURL string, httpClient *http.Client, failures prometheus.Counter) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     httpClient,
		failures: failures,
	}
}

// GetByID fetches an order by ID. Missing orders map to ErrNotFound.
func (c *Client) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/orders/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("ledger: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.unavailable("get order", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("ledger: order %s: %w", id, apperr.ErrNotFound)
	default:
		return nil, c.unavailable("get order", fmt.Errorf("status %d", resp.StatusCode))
	}

	var dto orderDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return nil, c.unavailable("get order", fmt.Errorf("decode: %w", err))
	}
	o := dto.toDomain()
	return &o, nil
}

// List fetches all orders. Filtering (by status, courier) happens
// client-side in the query service.
func (c *Client) List(ctx context.Context) ([]domain.Order, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/orders", nil)
	if err != nil {
		return nil, fmt.Errorf("ledger: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.unavailable("list orders", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.unavailable("list orders", fmt.Errorf("status %d", resp.StatusCode))
	}

	var dtos []orderDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, c.unavailable("list orders", fmt.Errorf("decode: %w", err))
	}

	out := make([]domain.Order, 0, len(dtos))
	for _, dto := range dtos {
		out = append(out, dto.toDomain())
	}
	return out, nil
}

// ConditionalUpdate writes the order back if and only if the stored
// version still equals expectedVersion. The ledger performs the
// compare-and-swap atomically; a mismatch comes back as ErrConflict and
// the caller must re-read before retrying. Replaying the same write
// with a stale version is rejected, never silently reapplied.
func (c *Client) ConditionalUpdate(ctx context.Context, o *domain.Order, expectedVersion int64) (*domain.Order, error) {
	body := conditionalUpdateDTO{
		Order:           toWire(o),
		ExpectedVersion: expectedVersion,
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("ledger: encode order %s: %w", o.ID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		c.baseURL+"/orders/"+o.ID, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("ledger: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.unavailable("update order", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("ledger: order %s: %w", o.ID, apperr.ErrNotFound)
	case http.StatusConflict, http.StatusPreconditionFailed:
		return nil, fmt.Errorf("ledger: order %s version %d: %w", o.ID, expectedVersion, apperr.ErrConflict)
	default:
		return nil, c.unavailable("update order", fmt.Errorf("status %d", resp.StatusCode))
	}

	var dto orderDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return nil, c.unavailable("update order", fmt.Errorf("decode: %w", err))
	}
	updated := dto.toDomain()
	return &updated, nil
}

func (c *Client) unavailable(op string, err error) error {
	if c.failures != nil {
		c.failures.Inc()
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("ledger: %s: %w", op, err)
	}
	return fmt.Errorf("ledger: %s: %v: %w", op, err, apperr.ErrDependencyUnavailable)
}
