package handlers

import (
	"net/http"
	"time"
)

// handleListServices returns the active catalog with pricing rules
func (h *Handler) handleListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.Store.Services().List(r.Context(), true)
	if err != nil {
		h.Logger.Printf("Error listing services: %s", err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not load services")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"services": services})
}

// handleListPackages returns the active bundle packages
func (h *Handler) handleListPackages(w http.ResponseWriter, r *http.Request) {
	packages, err := h.Store.Packages().List(r.Context(), true)
	if err != nil {
		h.Logger.Printf("Error listing packages: %s", err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not load packages")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"packages": packages})
}

type portfolioItemResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// handleListPortfolio returns the published portfolio entries with signed
// image URLs when cloud storage is configured
func (h *Handler) handleListPortfolio(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.Portfolio().List(r.Context(), true)
	if err != nil {
		h.Logger.Printf("Error listing portfolio items: %s", err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not load portfolio")
		return
	}

	response := make([]portfolioItemResponse, 0, len(items))
	for _, item := range items {
		entry := portfolioItemResponse{
			ID:          item.ID,
			Title:       item.Title,
			Description: item.Description,
			Category:    item.Category,
		}

		if h.Storage != nil && item.ImagePath != "" {
			url, err := h.Storage.GenerateSignedURL(r.Context(), item.ImagePath, 1*time.Hour)
			if err != nil {
				h.Logger.Printf("Error signing portfolio image URL for %s: %s", item.ID, err)
			} else {
				entry.ImageURL = url
			}
		}

		response = append(response, entry)
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"items": response})
}
