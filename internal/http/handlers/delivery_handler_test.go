package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevLaukey/cesi-delivery-ms/internal/apperr"
	"github.com/DevLaukey/cesi-delivery-ms/internal/domain"
	"github.com/DevLaukey/cesi-delivery-ms/internal/http/middleware"
	"github.com/DevLaukey/cesi-delivery-ms/internal/logx"
	"github.com/DevLaukey/cesi-delivery-ms/internal/pricing"
	"github.com/DevLaukey/cesi-delivery-ms/internal/service/query"
)

type stubAssignmentUsecase struct {
	claimFn    func(ctx context.Context, orderID, courierID string) (*domain.Order, error)
	pickupFn   func(ctx context.Context, orderID, courierID, notes string) (*domain.Order, error)
	completeFn func(ctx context.Context, orderID, courierID, notes, proof string) (*domain.Order, error)
	rejectFn   func(ctx context.Context, orderID, courierID, reason string) (*domain.Order, error)
}

func (s *stubAssignmentUsecase) Claim(ctx context.Context, orderID, courierID string) (*domain.Order, error) {
	if s.claimFn == nil {
		panic("Claim not expected in this test")
	}
	return s.claimFn(ctx, orderID, courierID)
}

func (s *stubAssignmentUsecase) MarkPickedUp(ctx context.Context, orderID, courierID, notes string) (*domain.Order, error) {
	if s.pickupFn == nil {
		panic("MarkPickedUp not expected in this test")
	}
	return s.pickupFn(ctx, orderID, courierID, notes)
}

func (s *stubAssignmentUsecase) Complete(ctx context.Context, orderID, courierID, notes, proof string) (*domain.Order, error) {
	if s.completeFn == nil {
		panic("Complete not expected in this test")
	}
	return s.completeFn(ctx, orderID, courierID, notes, proof)
}

func (s *stubAssignmentUsecase) Reject(ctx context.Context, orderID, courierID, reason string) (*domain.Order, error) {
	if s.rejectFn == nil {
		panic("Reject not expected in this test")
	}
	return s.rejectFn(ctx, orderID, courierID, reason)
}

type stubQueryUsecase struct {
	availableFn func(ctx context.Context, courierID string, page, limit int) (query.Page, error)
	mineFn      func(ctx context.Context, courierID string, status domain.OrderStatus, page, limit int) (query.Page, error)
}

func (s *stubQueryUsecase) ListAvailable(ctx context.Context, courierID string, page, limit int) (query.Page, error) {
	if s.availableFn == nil {
		panic("ListAvailable not expected in this test")
	}
	return s.availableFn(ctx, courierID, page, limit)
}

func (s *stubQueryUsecase) ListForCourier(ctx context.Context, courierID string, status domain.OrderStatus, page, limit int) (query.Page, error) {
	if s.mineFn == nil {
		panic("ListForCourier not expected in this test")
	}
	return s.mineFn(ctx, courierID, status, page, limit)
}

// authedRequest builds a request carrying the authenticated courier and,
// optionally, a chi orderID route parameter.
func authedRequest(method, target, courierID, orderID, body string) *http.Request {
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")

	ctx := middleware.WithCourierID(req.Context(), courierID)
	if orderID != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("orderID", orderID)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func confirmedOrder(id string) *domain.Order {
	return &domain.Order{
		ID:              id,
		Status:          domain.StatusConfirmed,
		RestaurantID:    "rest-1",
		CustomerID:      "cust-1",
		TotalAmount:     42.0,
		DeliveryAddress: "12 Rue de la Paix",
		CreatedAt:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Version:         3,
	}
}

func TestDeliveryHandler_Claim_OK(t *testing.T) {
	t.Parallel()

	accepted := time.Date(2025, 6, 1, 12, 5, 0, 0, time.UTC)
	courier := "courier-7"

	uc := &stubAssignmentUsecase{
		claimFn: func(ctx context.Context, orderID, courierID string) (*domain.Order, error) {
			require.Equal(t, "order-123", orderID)
			require.Equal(t, courier, courierID)
			o := confirmedOrder(orderID)
			o.Status = domain.StatusOutForDelivery
			o.CourierID = &courier
			o.DeliveryFee = 6.70
			o.AcceptedAt = &accepted
			o.Version = 4
			return o, nil
		},
	}

	h := NewDeliveryHandler(uc, nil, logx.Nop())
	rr := httptest.NewRecorder()
	h.Claim(rr, authedRequest(http.MethodPost, "/deliveries/order-123/claim", courier, "order-123", ""))

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ID          string  `json:"id"`
			Status      string  `json:"status"`
			CourierID   *string `json:"courier_id"`
			DeliveryFee float64 `json:"delivery_fee"`
			Version     int64   `json:"version"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "order-123", resp.Data.ID)
	assert.Equal(t, "out_for_delivery", resp.Data.Status)
	require.NotNil(t, resp.Data.CourierID)
	assert.Equal(t, courier, *resp.Data.CourierID)
	assert.InDelta(t, 6.70, resp.Data.DeliveryFee, 1e-9)
	assert.Equal(t, int64(4), resp.Data.Version)
}

func TestDeliveryHandler_Claim_OrderTaken(t *testing.T) {
	t.Parallel()

	uc := &stubAssignmentUsecase{
		claimFn: func(ctx context.Context, orderID, courierID string) (*domain.Order, error) {
			return nil, apperr.ErrOrderNotAvailable
		},
	}

	h := NewDeliveryHandler(uc, nil, logx.Nop())
	rr := httptest.NewRecorder()
	h.Claim(rr, authedRequest(http.MethodPost, "/deliveries/order-123/claim", "courier-7", "order-123", ""))

	require.Equal(t, http.StatusConflict, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":{"kind":"order_not_available","message":"order is not available"}}`, rr.Body.String())
}

func TestDeliveryHandler_Claim_CourierNotAvailable(t *testing.T) {
	t.Parallel()

	uc := &stubAssignmentUsecase{
		claimFn: func(ctx context.Context, orderID, courierID string) (*domain.Order, error) {
			return nil, apperr.ErrNotAvailable
		},
	}

	h := NewDeliveryHandler(uc, nil, logx.Nop())
	rr := httptest.NewRecorder()
	h.Claim(rr, authedRequest(http.MethodPost, "/deliveries/order-123/claim", "courier-7", "order-123", ""))

	require.Equal(t, http.StatusForbidden, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":{"kind":"not_available","message":"courier is not available for work"}}`, rr.Body.String())
}

func TestDeliveryHandler_Claim_ConflictAfterRetry(t *testing.T) {
	t.Parallel()

	uc := &stubAssignmentUsecase{
		claimFn: func(ctx context.Context, orderID, courierID string) (*domain.Order, error) {
			return nil, apperr.ErrConflict
		},
	}

	h := NewDeliveryHandler(uc, nil, logx.Nop())
	rr := httptest.NewRecorder()
	h.Claim(rr, authedRequest(http.MethodPost, "/deliveries/order-123/claim", "courier-7", "order-123", ""))

	require.Equal(t, http.StatusConflict, rr.Code)

	var resp struct {
		Success bool      `json:"success"`
		Error   errorBody `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "conflict", resp.Error.Kind)
}

func TestDeliveryHandler_Claim_LedgerDown(t *testing.T) {
	t.Parallel()

	uc := &stubAssignmentUsecase{
		claimFn: func(ctx context.Context, orderID, courierID string) (*domain.Order, error) {
			return nil, apperr.ErrDependencyUnavailable
		},
	}

	h := NewDeliveryHandler(uc, nil, logx.Nop())
	rr := httptest.NewRecorder()
	h.Claim(rr, authedRequest(http.MethodPost, "/deliveries/order-123/claim", "courier-7", "order-123", ""))

	require.Equal(t, http.StatusServiceUnavailable, rr.Code)

	var resp struct {
		Error errorBody `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "dependency_unavailable", resp.Error.Kind)
}

func TestDeliveryHandler_Claim_MissingAuthContext(t *testing.T) {
	t.Parallel()

	uc := &stubAssignmentUsecase{}

	h := NewDeliveryHandler(uc, nil, logx.Nop())
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/deliveries/order-123/claim", nil)
	h.Claim(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestDeliveryHandler_Pickup_OK(t *testing.T) {
	t.Parallel()

	courier := "courier-7"
	uc := &stubAssignmentUsecase{
		pickupFn: func(ctx context.Context, orderID, courierID, notes string) (*domain.Order, error) {
			require.Equal(t, "order-123", orderID)
			require.Equal(t, courier, courierID)
			require.Equal(t, "left at counter", notes)
			o := confirmedOrder(orderID)
			o.Status = domain.StatusOutForDelivery
			o.CourierID = &courier
			o.PickupNotes = notes
			pickedUp := time.Date(2025, 6, 1, 12, 20, 0, 0, time.UTC)
			o.PickedUpAt = &pickedUp
			o.Version = 5
			return o, nil
		},
	}

	h := NewDeliveryHandler(uc, nil, logx.Nop())
	rr := httptest.NewRecorder()
	h.Pickup(rr, authedRequest(http.MethodPost, "/deliveries/order-123/pickup", courier, "order-123", `{"pickup_notes":"left at counter"}`))

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data struct {
			Status     string  `json:"status"`
			PickedUpAt *string `json:"picked_up_at"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "out_for_delivery", resp.Data.Status)
	require.NotNil(t, resp.Data.PickedUpAt)
}

func TestDeliveryHandler_Pickup_WrongCourier(t *testing.T) {
	t.Parallel()

	uc := &stubAssignmentUsecase{
		pickupFn: func(ctx context.Context, orderID, courierID, notes string) (*domain.Order, error) {
			return nil, apperr.ErrNotAssignedCourier
		},
	}

	h := NewDeliveryHandler(uc, nil, logx.Nop())
	rr := httptest.NewRecorder()
	h.Pickup(rr, authedRequest(http.MethodPost, "/deliveries/order-123/pickup", "courier-9", "order-123", `{}`))

	require.Equal(t, http.StatusForbidden, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":{"kind":"not_assigned_courier","message":"not the assigned courier"}}`, rr.Body.String())
}

func TestDeliveryHandler_Pickup_InvalidJSON(t *testing.T) {
	t.Parallel()

	uc := &stubAssignmentUsecase{
		pickupFn: func(ctx context.Context, orderID, courierID, notes string) (*domain.Order, error) {
			require.FailNow(t, "usecase must not be called on invalid json")
			return nil, nil
		},
	}

	h := NewDeliveryHandler(uc, nil, logx.Nop())
	rr := httptest.NewRecorder()
	h.Pickup(rr, authedRequest(http.MethodPost, "/deliveries/order-123/pickup", "courier-7", "order-123", `{"pickup_notes":`))

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp struct {
		Error errorBody `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "validation_error", resp.Error.Kind)
}

func TestDeliveryHandler_Complete_OK(t *testing.T) {
	t.Parallel()

	courier := "courier-7"
	uc := &stubAssignmentUsecase{
		completeFn: func(ctx context.Context, orderID, courierID, notes, proof string) (*domain.Order, error) {
			require.Equal(t, "door code 4821", notes)
			require.Equal(t, "photo-url", proof)
			o := confirmedOrder(orderID)
			o.Status = domain.StatusDelivered
			o.CourierID = &courier
			o.DeliveryNotes = notes
			o.ProofOfDelivery = proof
			delivered := time.Date(2025, 6, 1, 12, 40, 0, 0, time.UTC)
			o.DeliveredAt = &delivered
			o.Version = 6
			return o, nil
		},
	}

	h := NewDeliveryHandler(uc, nil, logx.Nop())
	rr := httptest.NewRecorder()
	h.Complete(rr, authedRequest(http.MethodPost, "/deliveries/order-123/complete", courier, "order-123",
		`{"delivery_notes":"door code 4821","proof_of_delivery":"photo-url"}`))

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data struct {
			Status          string `json:"status"`
			ProofOfDelivery string `json:"proof_of_delivery"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "delivered", resp.Data.Status)
	assert.Equal(t, "photo-url", resp.Data.ProofOfDelivery)
}

func TestDeliveryHandler_Complete_NotPickedUp(t *testing.T) {
	t.Parallel()

	uc := &stubAssignmentUsecase{
		completeFn: func(ctx context.Context, orderID, courierID, notes, proof string) (*domain.Order, error) {
			return nil, apperr.ErrValidation
		},
	}

	h := NewDeliveryHandler(uc, nil, logx.Nop())
	rr := httptest.NewRecorder()
	h.Complete(rr, authedRequest(http.MethodPost, "/deliveries/order-123/complete", "courier-7", "order-123", `{}`))

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeliveryHandler_Reject_OK(t *testing.T) {
	t.Parallel()

	uc := &stubAssignmentUsecase{
		rejectFn: func(ctx context.Context, orderID, courierID, reason string) (*domain.Order, error) {
			require.Equal(t, "restaurant closed", reason)
			o := confirmedOrder(orderID)
			o.Version = 4
			return o, nil
		},
	}

	h := NewDeliveryHandler(uc, nil, logx.Nop())
	rr := httptest.NewRecorder()
	h.Reject(rr, authedRequest(http.MethodPost, "/deliveries/order-123/reject", "courier-7", "order-123", `{"reason":"restaurant closed"}`))

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data struct {
			Status    string  `json:"status"`
			CourierID *string `json:"courier_id"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "confirmed", resp.Data.Status)
	assert.Nil(t, resp.Data.CourierID)
}

func TestDeliveryHandler_Reject_EmptyReason(t *testing.T) {
	t.Parallel()

	uc := &stubAssignmentUsecase{
		rejectFn: func(ctx context.Context, orderID, courierID, reason string) (*domain.Order, error) {
			return nil, apperr.ErrValidation
		},
	}

	h := NewDeliveryHandler(uc, nil, logx.Nop())
	rr := httptest.NewRecorder()
	h.Reject(rr, authedRequest(http.MethodPost, "/deliveries/order-123/reject", "courier-7", "order-123", `{"reason":""}`))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":{"kind":"validation_error","message":"invalid input"}}`, rr.Body.String())
}

func TestDeliveryHandler_Available_OK(t *testing.T) {
	t.Parallel()

	rest := &domain.Restaurant{ID: "rest-1", Name: "Chez Marcel"}
	q := &stubQueryUsecase{
		availableFn: func(ctx context.Context, courierID string, page, limit int) (query.Page, error) {
			require.Equal(t, "courier-7", courierID)
			require.Equal(t, 2, page)
			require.Equal(t, 5, limit)
			o := confirmedOrder("order-123")
			return query.Page{
				Items: []query.EnrichedOrder{{
					Order:      *o,
					Restaurant: rest,
					Quote: pricing.Quote{
						DistanceKm:  4.2,
						Fee:         5.95,
						Priority:    domain.PriorityNormal,
						EstimateLo:  23,
						EstimateHi:  38,
						VehicleType: domain.VehicleBike,
					},
				}},
				Page:  2,
				Limit: 5,
				Total: 6,
				Pages: 2,
			}, nil
		},
	}

	h := NewDeliveryHandler(nil, q, logx.Nop())
	rr := httptest.NewRecorder()
	h.Available(rr, authedRequest(http.MethodGet, "/deliveries/available?page=2&limit=5", "courier-7", "", ""))

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Items []struct {
				Order struct {
					ID string `json:"id"`
				} `json:"order"`
				Restaurant *struct {
					Name string `json:"name"`
				} `json:"restaurant"`
				Quote struct {
					DeliveryFee float64 `json:"delivery_fee"`
					Priority    string  `json:"priority"`
				} `json:"quote"`
			} `json:"items"`
			Pagination struct {
				Page  int `json:"page"`
				Limit int `json:"limit"`
				Total int `json:"total"`
				Pages int `json:"pages"`
			} `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data.Items, 1)
	assert.Equal(t, "order-123", resp.Data.Items[0].Order.ID)
	require.NotNil(t, resp.Data.Items[0].Restaurant)
	assert.Equal(t, "Chez Marcel", resp.Data.Items[0].Restaurant.Name)
	assert.InDelta(t, 5.95, resp.Data.Items[0].Quote.DeliveryFee, 1e-9)
	assert.Equal(t, "normal", resp.Data.Items[0].Quote.Priority)
	assert.Equal(t, 2, resp.Data.Pagination.Page)
	assert.Equal(t, 6, resp.Data.Pagination.Total)
	assert.Equal(t, 2, resp.Data.Pagination.Pages)
}

func TestDeliveryHandler_Available_GateRejects(t *testing.T) {
	t.Parallel()

	q := &stubQueryUsecase{
		availableFn: func(ctx context.Context, courierID string, page, limit int) (query.Page, error) {
			return query.Page{}, apperr.ErrNotAvailable
		},
	}

	h := NewDeliveryHandler(nil, q, logx.Nop())
	rr := httptest.NewRecorder()
	h.Available(rr, authedRequest(http.MethodGet, "/deliveries/available", "courier-7", "", ""))

	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestDeliveryHandler_Available_EmptyPage(t *testing.T) {
	t.Parallel()

	q := &stubQueryUsecase{
		availableFn: func(ctx context.Context, courierID string, page, limit int) (query.Page, error) {
			return query.Page{Items: nil, Page: 1, Limit: 10, Total: 0, Pages: 0}, nil
		},
	}

	h := NewDeliveryHandler(nil, q, logx.Nop())
	rr := httptest.NewRecorder()
	h.Available(rr, authedRequest(http.MethodGet, "/deliveries/available", "courier-7", "", ""))

	assert.Equal(t, http.StatusOK, rr.Code)
	// An empty page still serializes items as [], never null.
	assert.JSONEq(t, `{"success":true,"data":{"items":[],"pagination":{"page":1,"limit":10,"total":0,"pages":0}}}`, rr.Body.String())
}

func TestDeliveryHandler_History_StatusFilter(t *testing.T) {
	t.Parallel()

	q := &stubQueryUsecase{
		mineFn: func(ctx context.Context, courierID string, status domain.OrderStatus, page, limit int) (query.Page, error) {
			require.Equal(t, domain.StatusDelivered, status)
			return query.Page{Items: nil, Page: 1, Limit: 10}, nil
		},
	}

	h := NewDeliveryHandler(nil, q, logx.Nop())
	rr := httptest.NewRecorder()
	h.History(rr, authedRequest(http.MethodGet, "/deliveries/mine?status=delivered", "courier-7", "", ""))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestDeliveryHandler_History_UnknownStatus(t *testing.T) {
	t.Parallel()

	q := &stubQueryUsecase{
		mineFn: func(ctx context.Context, courierID string, status domain.OrderStatus, page, limit int) (query.Page, error) {
			require.FailNow(t, "usecase must not be called with an unknown status")
			return query.Page{}, nil
		},
	}

	h := NewDeliveryHandler(nil, q, logx.Nop())
	rr := httptest.NewRecorder()
	h.History(rr, authedRequest(http.MethodGet, "/deliveries/mine?status=teleported", "courier-7", "", ""))

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeliveryHandler_History_InternalError(t *testing.T) {
	t.Parallel()

	q := &stubQueryUsecase{
		mineFn: func(ctx context.Context, courierID string, status domain.OrderStatus, page, limit int) (query.Page, error) {
			return query.Page{}, errors.New("boom")
		},
	}

	h := NewDeliveryHandler(nil, q, logx.Nop())
	rr := httptest.NewRecorder()
	h.History(rr, authedRequest(http.MethodGet, "/deliveries/mine", "courier-7", "", ""))

	require.Equal(t, http.StatusInternalServerError, rr.Code)

	var resp struct {
		Error errorBody `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "internal", resp.Error.Kind)
	assert.Equal(t, "internal error", resp.Error.Message)
}
