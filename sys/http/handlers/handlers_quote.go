package handlers

import (
	"errors"
	"net/http"

	"shiningstar-api/res/pricing"
)

// handleQuote prices a cart in best-effort mode. Unknown service ids are
// skipped so a stale frontend catalog never breaks the live preview.
func (h *Handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	catalog, input, err := h.buildQuoteInput(r.Context(), req)
	if err != nil {
		h.Logger.Printf("Error building quote input: %s", err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not compute quote")
		return
	}

	quote, err := pricing.ComputeQuote(catalog, input, false)
	if err != nil {
		h.Logger.Printf("Error computing quote: %s", err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not compute quote")
		return
	}

	respondWithJSON(w, http.StatusOK, quote)
}

type quoteVerifyRequest struct {
	quoteRequest
	ClientTotal float64 `json:"clientTotal"`
}

type quoteVerifyResponse struct {
	Verified    bool           `json:"verified"`
	ServerTotal float64        `json:"serverTotal"`
	Quote       *pricing.Quote `json:"quote"`
}

// handleQuoteVerify recomputes the quote server-side in strict mode and
// compares against the client-submitted total. Order and payment paths refuse
// carts that fail this check.
func (h *Handler) handleQuoteVerify(w http.ResponseWriter, r *http.Request) {
	var req quoteVerifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	quote, _ := h.strictQuote(w, r, req.quoteRequest)
	if quote == nil {
		return
	}

	verified := pricing.Verified(quote.Total, req.ClientTotal)
	if !verified {
		h.Logger.Printf("Quote verification mismatch: server=%.2f client=%.2f", quote.Total, req.ClientTotal)
	}

	respondWithJSON(w, http.StatusOK, quoteVerifyResponse{
		Verified:    verified,
		ServerTotal: quote.Total,
		Quote:       quote,
	})
}

// strictQuote computes a strict-mode quote for the cart, writing the error
// response itself and returning nil when the cart cannot be priced.
func (h *Handler) strictQuote(w http.ResponseWriter, r *http.Request, req quoteRequest) (*pricing.Quote, error) {
	if len(req.Selections) == 0 {
		respondWithError(w, http.StatusBadRequest, "BAD_REQUEST", "At least one service selection is required")
		return nil, nil
	}

	catalog, input, err := h.buildQuoteInput(r.Context(), req)
	if err != nil {
		h.Logger.Printf("Error building quote input: %s", err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not compute quote")
		return nil, err
	}

	quote, err := pricing.ComputeQuote(catalog, input, true)
	if err != nil {
		var notFound *pricing.ServiceNotFoundError
		if errors.As(err, &notFound) {
			respondWithError(w, http.StatusBadRequest, "UNKNOWN_SERVICE", "Unknown service: "+notFound.ServiceID)
			return nil, err
		}
		h.Logger.Printf("Error computing quote: %s", err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not compute quote")
		return nil, err
	}

	return quote, nil
}
