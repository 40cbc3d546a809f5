package handlers

import (
	"net/http"
	"strconv"

	"github.com/DevLaukey/cesi-delivery-ms/internal/domain"
	"github.com/DevLaukey/cesi-delivery-ms/internal/logx"
	"github.com/DevLaukey/cesi-delivery-ms/internal/service/courier"
)

// CourierHandler serves the courier profile surface. The courier always
// acts on their own record; the id comes from the auth middleware, never
// from the URL.
type CourierHandler struct {
	usecase courierUsecase
	logger  logx.Logger
}

func NewCourierHandler(usecase courierUsecase, logger logx.Logger) *CourierHandler {
	return &CourierHandler{usecase: usecase, logger: logger}
}

// Onboard handles POST /couriers.
func (h *CourierHandler) Onboard(w http.ResponseWriter, r *http.Request) {
	courierID, ok := courierFromCtx(h.logger, w, r)
	if !ok {
		return
	}

	var req onboardRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	d, err := h.usecase.Onboard(r.Context(), courier.OnboardInput{
		CourierID:             courierID,
		Phone:                 req.Phone,
		LicenseNumber:         req.LicenseNumber,
		VehicleType:           domain.VehicleType(req.VehicleType),
		VehicleMake:           req.VehicleMake,
		VehicleModel:          req.VehicleModel,
		VehicleYear:           req.VehicleYear,
		LicensePlate:          req.LicensePlate,
		InsuranceNumber:       req.InsuranceNumber,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
	})
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusCreated, driverToResponse(d))
}

// Profile handles GET /couriers/me.
func (h *CourierHandler) Profile(w http.ResponseWriter, r *http.Request) {
	courierID, ok := courierFromCtx(h.logger, w, r)
	if !ok {
		return
	}

	d, err := h.usecase.Get(r.Context(), courierID)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, driverToResponse(d))
}

// Update handles PATCH /couriers/me.
func (h *CourierHandler) Update(w http.ResponseWriter, r *http.Request) {
	courierID, ok := courierFromCtx(h.logger, w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	d, err := h.usecase.Update(r.Context(), domain.PartialDriverUpdate{
		ID:                    courierID,
		Phone:                 req.Phone,
		VehicleMake:           req.VehicleMake,
		VehicleModel:          req.VehicleModel,
		VehicleYear:           req.VehicleYear,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
	})
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, driverToResponse(d))
}

// Availability handles PUT /couriers/me/availability.
func (h *CourierHandler) Availability(w http.ResponseWriter, r *http.Request) {
	courierID, ok := courierFromCtx(h.logger, w, r)
	if !ok {
		return
	}

	var req availabilityRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	d, err := h.usecase.SetAvailability(r.Context(), courierID, req.IsAvailable)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, driverToResponse(d))
}

// Location handles PUT /couriers/me/location.
func (h *CourierHandler) Location(w http.ResponseWriter, r *http.Request) {
	courierID, ok := courierFromCtx(h.logger, w, r)
	if !ok {
		return
	}

	var req locationRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	loc, err := h.usecase.UpdateLocation(r.Context(), courierID, req.Latitude, req.Longitude)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, locationToResponse(loc))
}

// Stats handles GET /couriers/me/stats.
func (h *CourierHandler) Stats(w http.ResponseWriter, r *http.Request) {
	courierID, ok := courierFromCtx(h.logger, w, r)
	if !ok {
		return
	}

	stats, err := h.usecase.Stats(r.Context(), courierID)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, statsToResponse(stats))
}

// Earnings handles GET /couriers/me/earnings.
func (h *CourierHandler) Earnings(w http.ResponseWriter, r *http.Request) {
	courierID, ok := courierFromCtx(h.logger, w, r)
	if !ok {
		return
	}
	// Out-of-range limits are clamped by the service, not rejected here.
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	earnings, err := h.usecase.Earnings(r.Context(), courierID, limit)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, earningsToResponse(earnings))
}
