package handlers

import (
	"net/http"
	"time"

	"shiningstar-api/res/store"
)

type invoiceResponse struct {
	ID            string     `json:"id"`
	InvoiceNumber string     `json:"invoiceNumber"`
	OrderID       string     `json:"orderId"`
	Status        string     `json:"status"`
	Subtotal      float64    `json:"subtotal"`
	Tax           float64    `json:"tax"`
	Discount      float64    `json:"discount"`
	Total         float64    `json:"total"`
	IsDeposit     bool       `json:"isDeposit"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	IssueDate     time.Time  `json:"issueDate"`
	PaidDate      *time.Time `json:"paidDate,omitempty"`
}

// handleListInvoices returns the authenticated customer's invoices
func (h *Handler) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Sign in to view your invoices")
		return
	}

	customer, err := h.Store.Customers().GetByUser(r.Context(), user.ID)
	if err != nil {
		// A signed-in user with no bookings yet has no customer record
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"invoices": []invoiceResponse{}})
		return
	}

	invoices, err := h.Store.Invoices().GetByCustomer(r.Context(), customer.ID)
	if err != nil {
		h.Logger.Printf("Error listing invoices for customer %s: %s", customer.ID, err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not load invoices")
		return
	}

	response := make([]invoiceResponse, 0, len(invoices))
	for _, invoice := range invoices {
		response = append(response, invoiceResponseFrom(invoice))
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"invoices": response})
}

func invoiceResponseFrom(invoice *store.Invoice) invoiceResponse {
	return invoiceResponse{
		ID:            invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		OrderID:       invoice.OrderID,
		Status:        string(invoice.Status),
		Subtotal:      invoice.Subtotal,
		Tax:           invoice.Tax,
		Discount:      invoice.Discount,
		Total:         invoice.Total,
		IsDeposit:     invoice.IsDeposit,
		PaymentMethod: invoice.PaymentMethod,
		IssueDate:     invoice.IssueDate,
		PaidDate:      invoice.PaidDate,
	}
}
