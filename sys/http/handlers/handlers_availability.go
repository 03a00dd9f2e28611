package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"shiningstar-api/res/geo"
	"shiningstar-api/res/pricing"
	"shiningstar-api/res/scheduling"
	"shiningstar-api/res/store"
)

const maxAvailabilityRangeDays = 31

// orderConflictChecker adapts the order store to the slot generator's
// conflict interface
type orderConflictChecker struct {
	orders store.OrderStore
}

func (c orderConflictChecker) HasConflict(ctx context.Context, date time.Time, startTime, endTime string) (bool, error) {
	return c.orders.HasSlotConflict(ctx, date, startTime, endTime)
}

type availabilityRequest struct {
	StartDate  string              `json:"startDate"` // YYYY-MM-DD
	EndDate    string              `json:"endDate"`
	Selections []pricing.Selection `json:"selections"`
	Location   *geo.Coordinates    `json:"location,omitempty"`
}

type availabilityResponse struct {
	Days              []scheduling.DayAvailability `json:"days"`
	EstimatedDuration int                          `json:"estimatedDuration"`
}

// handleAvailability generates bookable slots for the requested range. When
// the request carries coordinates, the service-area gate runs first so
// customers outside the radius see the distance instead of a calendar.
func (h *Handler) handleAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Location != nil {
		if err := h.ServiceArea.Check(*req.Location); err != nil {
			var outside *geo.OutsideServiceAreaError
			if errors.As(err, &outside) {
				respondWithJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
					"error": map[string]interface{}{
						"code":        "OUTSIDE_SERVICE_AREA",
						"message":     outside.Error(),
						"distance":    outside.Distance,
						"radiusMiles": outside.RadiusMiles,
					},
				})
				return
			}
			respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not check service area")
			return
		}
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		// Default to today through two weeks out when no range is given
		if req.StartDate != "" {
			respondWithError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid startDate, expected YYYY-MM-DD")
			return
		}
		start = time.Now()
	}

	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		if req.EndDate != "" {
			respondWithError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid endDate, expected YYYY-MM-DD")
			return
		}
		end = start.AddDate(0, 0, 13)
	}

	if end.Before(start) {
		respondWithError(w, http.StatusBadRequest, "BAD_REQUEST", "endDate precedes startDate")
		return
	}
	if end.Sub(start) > maxAvailabilityRangeDays*24*time.Hour {
		respondWithError(w, http.StatusBadRequest, "BAD_REQUEST", "Date range too large")
		return
	}

	catalog, err := h.Store.Services().Catalog(r.Context())
	if err != nil {
		h.Logger.Printf("Error loading catalog for availability: %s", err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not load availability")
		return
	}

	duration := scheduling.EstimateDuration(catalog, req.Selections)

	generator := scheduling.NewGenerator(h.BusinessHours, orderConflictChecker{orders: h.Store.Orders()})
	days, err := generator.GenerateSlots(r.Context(), start, end, duration)
	if err != nil {
		h.Logger.Printf("Error generating slots: %s", err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not load availability")
		return
	}

	respondWithJSON(w, http.StatusOK, availabilityResponse{
		Days:              days,
		EstimatedDuration: duration,
	})
}
