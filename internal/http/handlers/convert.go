package handlers

import (
	"github.com/DevLaukey/cesi-delivery-ms/internal/domain"
	"github.com/DevLaukey/cesi-delivery-ms/internal/pricing"
	"github.com/DevLaukey/cesi-delivery-ms/internal/service/query"
)

func orderToResponse(o *domain.Order) orderResponse {
	items := make([]itemDTO, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, itemDTO{Name: it.Name, Quantity: it.Quantity, Price: it.Price})
	}
	return orderResponse{
		ID:              o.ID,
		Status:          string(o.Status),
		RestaurantID:    o.RestaurantID,
		CustomerID:      o.CustomerID,
		CourierID:       o.CourierID,
		TotalAmount:     o.TotalAmount,
		DeliveryFee:     o.DeliveryFee,
		DeliveryAddress: o.DeliveryAddress,
		Items:           items,
		PickupNotes:     o.PickupNotes,
		DeliveryNotes:   o.DeliveryNotes,
		ProofOfDelivery: o.ProofOfDelivery,
		RejectionReason: o.RejectionReason,
		CreatedAt:       o.CreatedAt,
		AcceptedAt:      o.AcceptedAt,
		PickedUpAt:      o.PickedUpAt,
		DeliveredAt:     o.DeliveredAt,
		RejectedAt:      o.RejectedAt,
		Version:         o.Version,
	}
}

func quoteToResponse(q pricing.Quote) quoteResponse {
	return quoteResponse{
		DeliveryFee:         q.Fee,
		DistanceKm:          q.DistanceKm,
		Priority:            string(q.Priority),
		EstimatedMinutesMin: q.EstimateLo,
		EstimatedMinutesMax: q.EstimateHi,
		VehicleType:         string(q.VehicleType),
	}
}

func restaurantToResponse(r *domain.Restaurant) *restaurantResponse {
	if r == nil {
		return nil
	}
	return &restaurantResponse{
		ID:          r.ID,
		Name:        r.Name,
		Address:     r.Address,
		Phone:       r.Phone,
		CuisineType: r.CuisineType,
	}
}

func pageToResponse(p query.Page) listResponse {
	items := make([]enrichedOrderResponse, 0, len(p.Items))
	for i := range p.Items {
		item := &p.Items[i]
		items = append(items, enrichedOrderResponse{
			Order:      orderToResponse(&item.Order),
			Restaurant: restaurantToResponse(item.Restaurant),
			Quote:      quoteToResponse(item.Quote),
		})
	}
	return listResponse{
		Items: items,
		Pagination: paginationResponse{
			Page:  p.Page,
			Limit: p.Limit,
			Total: p.Total,
			Pages: p.Pages,
		},
	}
}

func driverToResponse(d *domain.Driver) driverResponse {
	resp := driverResponse{
		ID:                    d.ID,
		Phone:                 d.Phone,
		LicenseNumber:         d.LicenseNumber,
		VehicleType:           string(d.VehicleType),
		VehicleMake:           d.VehicleMake,
		VehicleModel:          d.VehicleModel,
		VehicleYear:           d.VehicleYear,
		LicensePlate:          d.LicensePlate,
		InsuranceNumber:       d.InsuranceNumber,
		EmergencyContactName:  d.EmergencyContactName,
		EmergencyContactPhone: d.EmergencyContactPhone,
		Status:                string(d.Status),
		IsAvailable:           d.IsAvailable,
	}
	if d.Location != nil {
		resp.Location = &locationResponse{
			Latitude:  d.Location.Latitude,
			Longitude: d.Location.Longitude,
			UpdatedAt: d.Location.UpdatedAt,
		}
	}
	return resp
}

func locationToResponse(l *domain.Location) locationResponse {
	return locationResponse{
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		UpdatedAt: l.UpdatedAt,
	}
}

func earningsToResponse(earnings []domain.Earning) []earningResponse {
	items := make([]earningResponse, 0, len(earnings))
	for _, e := range earnings {
		items = append(items, earningResponse{
			OrderID:     e.OrderID,
			Fee:         e.Fee,
			DeliveredAt: e.DeliveredAt,
		})
	}
	return items
}

func statsToResponse(s *domain.DriverStats) statsResponse {
	return statsResponse{
		TotalDeliveries: s.TotalDeliveries,
		TotalEarnings:   s.TotalEarnings,
		LastDeliveredAt: s.LastDeliveredAt,
	}
}
