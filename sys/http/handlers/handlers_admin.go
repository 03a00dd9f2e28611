package handlers

import (
	"net/http"
	"strconv"
	"time"

	"shiningstar-api/res/storage"
	"shiningstar-api/res/store"

	"github.com/google/uuid"
)

// handleAdminListOrders returns orders across all customers, filterable by
// status and scheduled-date range
func (h *Handler) handleAdminListOrders(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	filters := store.OrderFilters{Limit: queryInt(r, "limit", 50)}
	if status := r.URL.Query().Get("status"); status != "" {
		orderStatus := store.OrderStatus(status)
		filters.Status = &orderStatus
	}
	if from := r.URL.Query().Get("from"); from != "" {
		if parsed, err := time.Parse("2006-01-02", from); err == nil {
			filters.StartDate = &parsed
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if parsed, err := time.Parse("2006-01-02", to); err == nil {
			filters.EndDate = &parsed
		}
	}

	orders, err := h.Store.Orders().ListAll(r.Context(), filters)
	if err != nil {
		h.Logger.Printf("Error listing orders: %s", err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not load orders")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

type orderStatusRequest struct {
	Status store.OrderStatus `json:"status"`
}

// handleAdminUpdateOrderStatus moves an order through its lifecycle. Draft is
// the creation-only state and cannot be re-entered; cancelling releases the
// order's slot for new bookings.
func (h *Handler) handleAdminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	var req orderStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	switch req.Status {
	case store.OrderStatusConfirmed, store.OrderStatusPaid, store.OrderStatusCompleted, store.OrderStatusCancelled:
	default:
		respondWithError(w, http.StatusBadRequest, "BAD_REQUEST", "status must be one of confirmed, paid, completed, cancelled")
		return
	}

	orderID := pathParam(r, "orderID")
	if _, err := h.Store.Orders().Get(r.Context(), orderID); err != nil {
		respondWithError(w, http.StatusNotFound, "NOT_FOUND", "Order not found")
		return
	}

	if err := h.Store.Orders().UpdateStatus(r.Context(), orderID, req.Status); err != nil {
		h.Logger.Printf("Error updating status of order %s: %s", orderID, err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not update order status")
		return
	}

	order, err := h.Store.Orders().Get(r.Context(), orderID)
	if err != nil {
		h.Logger.Printf("Error reloading order %s: %s", orderID, err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not update order status")
		return
	}

	respondWithJSON(w, http.StatusOK, orderResponseFrom(order))
}

// handleAdminListCustomers returns customers, searchable by name or email
func (h *Handler) handleAdminListCustomers(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	filters := store.CustomerFilters{
		Search: r.URL.Query().Get("search"),
		Limit:  queryInt(r, "limit", 50),
	}

	customers, err := h.Store.Customers().ListAll(r.Context(), filters)
	if err != nil {
		h.Logger.Printf("Error listing customers: %s", err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not load customers")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"customers": customers})
}

// handleAdminCreateService adds a catalog entry
func (h *Handler) handleAdminCreateService(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	var service store.Service
	if !decodeJSON(w, r, &service) {
		return
	}
	if service.ID == "" || service.Name == "" || service.BasePrice <= 0 {
		respondWithError(w, http.StatusBadRequest, "BAD_REQUEST", "id, name and a positive basePrice are required")
		return
	}

	if err := h.Store.Services().Create(r.Context(), &service); err != nil {
		h.Logger.Printf("Error creating service: %s", err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not create service")
		return
	}

	respondWithJSON(w, http.StatusCreated, service)
}

// handleAdminUpdateService updates a catalog entry
func (h *Handler) handleAdminUpdateService(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	var service store.Service
	if !decodeJSON(w, r, &service) {
		return
	}
	service.ID = pathParam(r, "serviceID")

	if err := h.Store.Services().Update(r.Context(), &service); err != nil {
		h.Logger.Printf("Error updating service %s: %s", service.ID, err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not update service")
		return
	}

	respondWithJSON(w, http.StatusOK, service)
}

// handleAdminCreateCoupon adds a discount code
func (h *Handler) handleAdminCreateCoupon(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	var coupon store.Coupon
	if !decodeJSON(w, r, &coupon) {
		return
	}
	if coupon.Code == "" || coupon.DiscountValue <= 0 {
		respondWithError(w, http.StatusBadRequest, "BAD_REQUEST", "code and a positive discountValue are required")
		return
	}
	coupon.UsedCount = 0

	if err := h.Store.Coupons().Create(r.Context(), &coupon); err != nil {
		if err == store.ErrUniqueViolation {
			respondWithError(w, http.StatusConflict, "DUPLICATE", "Coupon code already exists")
			return
		}
		h.Logger.Printf("Error creating coupon: %s", err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not create coupon")
		return
	}

	respondWithJSON(w, http.StatusCreated, coupon)
}

// handleAdminCreatePortfolioItem uploads a showcase image to cloud storage
// and records the entry
func (h *Handler) handleAdminCreatePortfolioItem(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}
	if h.Storage == nil {
		respondWithError(w, http.StatusServiceUnavailable, "STORAGE_DISABLED", "Image storage is not configured")
		return
	}

	// 10MB in-memory cap, matching the storage layer's size limit
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		respondWithError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid multipart form")
		return
	}

	title := r.FormValue("title")
	if title == "" {
		respondWithError(w, http.StatusBadRequest, "BAD_REQUEST", "title is required")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "BAD_REQUEST", "image file is required")
		return
	}
	defer file.Close()

	itemID := uuid.New().String()
	objectPath := storage.BuildPortfolioImagePath(itemID, r.FormValue("label"), header.Filename)

	imagePath, err := h.Storage.UploadImage(r.Context(), file, header, objectPath)
	if err != nil {
		h.Logger.Printf("Error uploading portfolio image: %s", err)
		respondWithError(w, http.StatusBadRequest, "UPLOAD_FAILED", err.Error())
		return
	}

	item := &store.PortfolioItem{
		ID:          itemID,
		Title:       title,
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		ImagePath:   imagePath,
		IsPublished: r.FormValue("published") != "false",
	}
	if err := h.Store.Portfolio().Create(r.Context(), item); err != nil {
		h.Logger.Printf("Error creating portfolio item: %s", err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not create portfolio item")
		return
	}

	respondWithJSON(w, http.StatusCreated, item)
}

// handleAdminDeletePortfolioItem removes the entry and its stored image
func (h *Handler) handleAdminDeletePortfolioItem(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	itemID := pathParam(r, "itemID")
	item, err := h.Store.Portfolio().Get(r.Context(), itemID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "NOT_FOUND", "Portfolio item not found")
		return
	}

	if h.Storage != nil && item.ImagePath != "" {
		if err := h.Storage.DeleteFile(r.Context(), item.ImagePath); err != nil {
			h.Logger.Printf("Warning: Failed to delete portfolio image %s: %v", item.ImagePath, err)
		}
	}

	if err := h.Store.Portfolio().Delete(r.Context(), itemID); err != nil {
		h.Logger.Printf("Error deleting portfolio item %s: %s", itemID, err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not delete portfolio item")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
