package handlers

import (
	"net/http"
	"testing"

	"shiningstar-api/res/geo"
	"shiningstar-api/res/pricing"
)

func TestHandleAvailability(t *testing.T) {
	t.Run("closed weekday yields a day with no slots", func(t *testing.T) {
		router := newTestRouter(seededFakeStore(), nil)

		// 2026-03-15 is a Sunday
		recorder := doJSON(t, router, http.MethodPost, "/api/availability", availabilityRequest{
			StartDate: "2026-03-15",
			EndDate:   "2026-03-15",
		})
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
		}

		var response availabilityResponse
		decodeBody(t, recorder, &response)

		if len(response.Days) != 1 {
			t.Fatalf("expected 1 day, got %d", len(response.Days))
		}
		day := response.Days[0]
		if len(day.Slots) != 0 {
			t.Errorf("expected no slots on Sunday, got %d", len(day.Slots))
		}
		if day.HasAvailability {
			t.Error("expected hasAvailability=false on a closed day")
		}
	})

	t.Run("open weekday yields hourly slots within business hours", func(t *testing.T) {
		router := newTestRouter(seededFakeStore(), nil)

		// window-cleaning x1: 30min base + 30min buffer = 60min per slot
		recorder := doJSON(t, router, http.MethodPost, "/api/availability", availabilityRequest{
			StartDate: "2026-03-16", // Monday
			EndDate:   "2026-03-16",
			Selections: []pricing.Selection{
				{ServiceID: "window-cleaning", Quantity: 1, Frequency: pricing.FrequencyOneTime},
			},
		})
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
		}

		var response availabilityResponse
		decodeBody(t, recorder, &response)

		if response.EstimatedDuration != 60 {
			t.Errorf("estimatedDuration = %d, want 60", response.EstimatedDuration)
		}
		if len(response.Days) != 1 {
			t.Fatalf("expected 1 day, got %d", len(response.Days))
		}

		day := response.Days[0]
		if !day.HasAvailability {
			t.Error("expected availability on an open Monday")
		}
		// 08:00 through 17:00 starts, each one-hour slot ending by 18:00
		if len(day.Slots) != 10 {
			t.Fatalf("expected 10 slots, got %d", len(day.Slots))
		}
		if day.Slots[0].StartTime != "08:00" || day.Slots[0].EndTime != "09:00" {
			t.Errorf("first slot = %s-%s, want 08:00-09:00", day.Slots[0].StartTime, day.Slots[0].EndTime)
		}
		if day.Slots[9].StartTime != "17:00" || day.Slots[9].EndTime != "18:00" {
			t.Errorf("last slot = %s-%s, want 17:00-18:00", day.Slots[9].StartTime, day.Slots[9].EndTime)
		}
	})

	t.Run("long jobs discard slots ending past closing", func(t *testing.T) {
		router := newTestRouter(seededFakeStore(), nil)

		// deep-cleaning x1: 180min base + 30min buffer = 210min
		recorder := doJSON(t, router, http.MethodPost, "/api/availability", availabilityRequest{
			StartDate: "2026-03-16",
			EndDate:   "2026-03-16",
			Selections: []pricing.Selection{
				{ServiceID: "deep-cleaning", Quantity: 1, Frequency: pricing.FrequencyOneTime},
			},
		})
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}

		var response availabilityResponse
		decodeBody(t, recorder, &response)

		if response.EstimatedDuration != 210 {
			t.Errorf("estimatedDuration = %d, want 210", response.EstimatedDuration)
		}
		// last viable start is 14:30 rounded down to hourly candidates: 14:00
		day := response.Days[0]
		if len(day.Slots) != 7 {
			t.Fatalf("expected 7 slots, got %d", len(day.Slots))
		}
		last := day.Slots[len(day.Slots)-1]
		if last.StartTime != "14:00" || last.EndTime != "17:30" {
			t.Errorf("last slot = %s-%s, want 14:00-17:30", last.StartTime, last.EndTime)
		}
	})

	t.Run("booked windows are marked unavailable", func(t *testing.T) {
		f := seededFakeStore()
		f.booked["2026-03-16 09:00"] = true
		router := newTestRouter(f, nil)

		recorder := doJSON(t, router, http.MethodPost, "/api/availability", availabilityRequest{
			StartDate: "2026-03-16",
			EndDate:   "2026-03-16",
			Selections: []pricing.Selection{
				{ServiceID: "window-cleaning", Quantity: 1, Frequency: pricing.FrequencyOneTime},
			},
		})
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}

		var response availabilityResponse
		decodeBody(t, recorder, &response)

		for _, slot := range response.Days[0].Slots {
			if slot.StartTime == "09:00" && slot.IsAvailable {
				t.Error("expected 09:00 slot to be unavailable")
			}
			if slot.StartTime == "10:00" && !slot.IsAvailable {
				t.Error("expected 10:00 slot to stay available")
			}
		}
	})

	t.Run("location outside the service area is refused with distance", func(t *testing.T) {
		router := newTestRouter(seededFakeStore(), nil)

		// Manhattan, roughly 80 miles from the Philadelphia center
		recorder := doJSON(t, router, http.MethodPost, "/api/availability", availabilityRequest{
			StartDate: "2026-03-16",
			EndDate:   "2026-03-16",
			Location:  &geo.Coordinates{Lat: 40.7128, Lng: -74.0060},
		})
		if recorder.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d: %s", recorder.Code, recorder.Body.String())
		}

		var payload struct {
			Error struct {
				Code        string  `json:"code"`
				Distance    float64 `json:"distance"`
				RadiusMiles float64 `json:"radiusMiles"`
			} `json:"error"`
		}
		decodeBody(t, recorder, &payload)

		if payload.Error.Code != "OUTSIDE_SERVICE_AREA" {
			t.Errorf("error code = %q, want OUTSIDE_SERVICE_AREA", payload.Error.Code)
		}
		if payload.Error.Distance <= 10 {
			t.Errorf("distance = %.1f, want > 10", payload.Error.Distance)
		}
		if payload.Error.RadiusMiles != 10 {
			t.Errorf("radiusMiles = %.1f, want 10", payload.Error.RadiusMiles)
		}
	})

	t.Run("location inside the service area passes the gate", func(t *testing.T) {
		router := newTestRouter(seededFakeStore(), nil)

		recorder := doJSON(t, router, http.MethodPost, "/api/availability", availabilityRequest{
			StartDate: "2026-03-16",
			EndDate:   "2026-03-16",
			Location:  &geo.Coordinates{Lat: 39.95, Lng: -75.17},
		})
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
		}
	})

	t.Run("reversed range rejected", func(t *testing.T) {
		router := newTestRouter(seededFakeStore(), nil)

		recorder := doJSON(t, router, http.MethodPost, "/api/availability", availabilityRequest{
			StartDate: "2026-03-20",
			EndDate:   "2026-03-16",
		})
		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", recorder.Code)
		}
	})

	t.Run("oversized range rejected", func(t *testing.T) {
		router := newTestRouter(seededFakeStore(), nil)

		recorder := doJSON(t, router, http.MethodPost, "/api/availability", availabilityRequest{
			StartDate: "2026-03-01",
			EndDate:   "2026-05-01",
		})
		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", recorder.Code)
		}
	})
}
