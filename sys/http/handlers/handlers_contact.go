package handlers

import (
	"net/http"
	"net/mail"
	"strings"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`

	// Honeypot field, hidden on the real form. Bots fill it in.
	Website string `json:"website"`
}

// handleContact forwards a contact form submission to the office inbox.
// Protected by the Redis rate limit on the route plus a honeypot field;
// honeypot hits return 200 so bots learn nothing.
func (h *Handler) handleContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Website != "" {
		h.Logger.Printf("Contact honeypot tripped from %s", r.RemoteAddr)
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "received"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Message == "" {
		respondWithError(w, http.StatusBadRequest, "BAD_REQUEST", "Name and message are required")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		respondWithError(w, http.StatusBadRequest, "BAD_REQUEST", "A valid email address is required")
		return
	}

	if h.MailService != nil {
		if err := h.MailService.SendContactMessage(r.Context(), req.Name, req.Email, req.Phone, req.Message); err != nil {
			h.Logger.Printf("Error sending contact message: %s", err)
			respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not send your message, please try again")
			return
		}
	}

	if h.NotificationService != nil {
		if err := h.NotificationService.NotifyContactRequest(r.Context(), req.Name, req.Email, req.Message); err != nil {
			h.Logger.Printf("Warning: Failed to send contact notification: %v", err)
		}
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "received"})
}
