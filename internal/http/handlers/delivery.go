package handlers

import (
	"net/http"
	"strconv"

	"github.com/DevLaukey/cesi-delivery-ms/internal/domain"
	"github.com/DevLaukey/cesi-delivery-ms/internal/logx"
)

// DeliveryHandler serves the order-assignment surface: listing claimable
// orders, claiming, pickup, completion and rejection.
type DeliveryHandler struct {
	usecase assignmentUsecase
	query   queryUsecase
	logger  logx.Logger
}

func NewDeliveryHandler(usecase assignmentUsecase, query queryUsecase, logger logx.Logger) *DeliveryHandler {
	return &DeliveryHandler{usecase: usecase, query: query, logger: logger}
}

// Available handles GET /deliveries/available.
func (h *DeliveryHandler) Available(w http.ResponseWriter, r *http.Request) {
	courierID, ok := courierFromCtx(h.logger, w, r)
	if !ok {
		return
	}
	page, limit := pageParams(r)

	result, err := h.query.ListAvailable(r.Context(), courierID, page, limit)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, pageToResponse(result))
}

// History handles GET /deliveries/mine.
func (h *DeliveryHandler) History(w http.ResponseWriter, r *http.Request) {
	courierID, ok := courierFromCtx(h.logger, w, r)
	if !ok {
		return
	}
	page, limit := pageParams(r)

	var status domain.OrderStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status = domain.OrderStatus(raw)
		if !status.Valid() {
			writeError(h.logger, w, r, http.StatusBadRequest, "validation_error", "unknown status")
			return
		}
	}

	result, err := h.query.ListForCourier(r.Context(), courierID, status, page, limit)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, pageToResponse(result))
}

// Claim handles POST /deliveries/{orderID}/claim.
func (h *DeliveryHandler) Claim(w http.ResponseWriter, r *http.Request) {
	courierID, ok := courierFromCtx(h.logger, w, r)
	if !ok {
		return
	}

	order, err := h.usecase.Claim(r.Context(), orderIDFromURL(r), courierID)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderToResponse(order))
}

// Pickup handles POST /deliveries/{orderID}/pickup.
func (h *DeliveryHandler) Pickup(w http.ResponseWriter, r *http.Request) {
	courierID, ok := courierFromCtx(h.logger, w, r)
	if !ok {
		return
	}

	var req pickupRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	order, err := h.usecase.MarkPickedUp(r.Context(), orderIDFromURL(r), courierID, req.PickupNotes)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderToResponse(order))
}

// Complete handles POST /deliveries/{orderID}/complete.
func (h *DeliveryHandler) Complete(w http.ResponseWriter, r *http.Request) {
	courierID, ok := courierFromCtx(h.logger, w, r)
	if !ok {
		return
	}

	var req completeRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	order, err := h.usecase.Complete(r.Context(), orderIDFromURL(r), courierID, req.DeliveryNotes, req.ProofOfDelivery)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderToResponse(order))
}

// Reject handles POST /deliveries/{orderID}/reject.
func (h *DeliveryHandler) Reject(w http.ResponseWriter, r *http.Request) {
	courierID, ok := courierFromCtx(h.logger, w, r)
	if !ok {
		return
	}

	var req rejectRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	order, err := h.usecase.Reject(r.Context(), orderIDFromURL(r), courierID, req.Reason)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderToResponse(order))
}

// pageParams reads ?page and ?limit. Out-of-range values are clamped
// by the query service, not rejected here.
func pageParams(r *http.Request) (int, int) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return page, limit
}
