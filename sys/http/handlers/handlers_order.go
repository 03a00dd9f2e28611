package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"shiningstar-api/res/geo"
	"shiningstar-api/res/mail"
	"shiningstar-api/res/pricing"
	"shiningstar-api/res/scheduling"
	"shiningstar-api/res/store"

	"github.com/google/uuid"
)

type createOrderRequest struct {
	quoteRequest

	ClientTotal float64 `json:"clientTotal"`

	Customer struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
	} `json:"customer"`

	Address struct {
		Street    string  `json:"street"`
		City      string  `json:"city"`
		State     string  `json:"state"`
		ZipCode   string  `json:"zipCode"`
		Latitude  float64 `json:"lat"`
		Longitude float64 `json:"lng"`
	} `json:"address"`

	Slot struct {
		Date      string `json:"date"` // YYYY-MM-DD
		StartTime string `json:"startTime"`
	} `json:"slot"`
}

type orderResponse struct {
	ID            string  `json:"id"`
	Status        string  `json:"status"`
	Subtotal      float64 `json:"subtotal"`
	Discount      float64 `json:"discount"`
	Tax           float64 `json:"tax"`
	Deposit       float64 `json:"deposit"`
	Total         float64 `json:"total"`
	ScheduledDate string  `json:"scheduledDate"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
}

// handleCreateOrder books a cleaning: strict quote recompute with a hard
// block on client/server total mismatch, service-area gate, slot validation,
// then customer/address/order persistence in the store.
func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()

	// 1. Recompute the quote server-side. The client total must match within
	// a cent; a tampered or stale cart never reaches persistence.

	quote, _ := h.strictQuote(w, r, req.quoteRequest)
	if quote == nil {
		return
	}

	if !pricing.Verified(quote.Total, req.ClientTotal) {
		h.Logger.Printf("Order rejected, quote mismatch: server=%.2f client=%.2f", quote.Total, req.ClientTotal)
		respondWithError(w, http.StatusConflict, "QUOTE_MISMATCH", fmt.Sprintf("Quoted total is %.2f, please refresh your quote", quote.Total))
		return
	}

	// 2. Service-area gate on the delivery address

	coords := geo.Coordinates{Lat: req.Address.Latitude, Lng: req.Address.Longitude}
	if err := h.ServiceArea.Check(coords); err != nil {
		var outside *geo.OutsideServiceAreaError
		if errors.As(err, &outside) {
			respondWithError(w, http.StatusUnprocessableEntity, "OUTSIDE_SERVICE_AREA", outside.Error())
			return
		}
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not check service area")
		return
	}

	// 3. Validate the chosen slot against business hours

	scheduledDate, err := time.Parse("2006-01-02", req.Slot.Date)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid slot date, expected YYYY-MM-DD")
		return
	}

	catalog, err := h.Store.Services().Catalog(ctx)
	if err != nil {
		h.Logger.Printf("Error loading catalog for order: %s", err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not create order")
		return
	}
	duration := scheduling.EstimateDuration(catalog, req.Selections)

	startMinute, ok := parseClock(req.Slot.StartTime)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid slot start time, expected HH:MM")
		return
	}
	endMinute := startMinute + duration

	if h.BusinessHours.ClosedWeekdays[scheduledDate.Weekday()] ||
		startMinute < h.BusinessHours.OpenHour*60 ||
		endMinute > h.BusinessHours.CloseHour*60 {
		respondWithError(w, http.StatusBadRequest, "SLOT_OUTSIDE_HOURS", "Requested slot is outside business hours")
		return
	}
	endTime := formatClock(endMinute)

	// 4. Resolve or create the customer (deduplicated by email) and address

	customer, err := h.resolveCustomer(r, req)
	if err != nil {
		if errors.Is(err, store.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid customer details")
			return
		}
		h.Logger.Printf("Error resolving customer: %s", err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not create order")
		return
	}

	address := &store.Address{
		ID:         uuid.New().String(),
		CustomerID: customer.ID,
		Street:     req.Address.Street,
		City:       req.Address.City,
		State:      req.Address.State,
		ZipCode:    req.Address.ZipCode,
		Country:    "US",
		Latitude:   req.Address.Latitude,
		Longitude:  req.Address.Longitude,
	}
	if err := h.Store.Customers().CreateAddress(ctx, address); err != nil {
		h.Logger.Printf("Error creating address: %s", err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not create order")
		return
	}

	// 5. Persist the order with frozen quote figures

	order := &store.Order{
		ID:         uuid.New().String(),
		CustomerID: customer.ID,
		AddressID:  address.ID,
		Status:     store.OrderStatusDraft,

		Subtotal:      quote.Subtotal,
		Discount:      quote.Discount,
		Tax:           quote.Tax,
		DepositAmount: quote.Deposit,
		Total:         quote.Total,

		ScheduledDate:      scheduledDate,
		ScheduledStartTime: req.Slot.StartTime,
		ScheduledEndTime:   endTime,
		EstimatedDuration:  duration,
	}
	if req.PackageID != "" {
		order.PackageID = &req.PackageID
	}
	if quote.CouponStatus == pricing.CouponStatusApplied {
		order.CouponCode = &req.CouponCode
	}

	serviceNames := make([]string, 0, len(quote.LineItems))
	for i, item := range quote.LineItems {
		size := pricing.Size("")
		if i < len(req.Selections) {
			size = req.Selections[i].Size
		}
		order.Items = append(order.Items, store.OrderItem{
			ID:         uuid.New().String(),
			OrderID:    order.ID,
			ServiceID:  item.ServiceID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
			Frequency:  item.Frequency,
			Size:       size,
		})
		serviceNames = append(serviceNames, item.Name)
	}

	if err := h.Store.Orders().Create(ctx, order); err != nil {
		if errors.Is(err, store.ErrSlotTaken) {
			respondWithError(w, http.StatusConflict, "SLOT_TAKEN", "The requested slot was just booked, please pick another")
			return
		}
		h.Logger.Printf("Error creating order: %s", err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not create order")
		return
	}

	// 6. Redeem the coupon after the order exists; a failed redemption keeps
	// the honored price but is logged for reconciliation

	if quote.CouponStatus == pricing.CouponStatusApplied {
		if err := h.Store.Coupons().Redeem(ctx, req.CouponCode); err != nil {
			h.Logger.Printf("Warning: Failed to redeem coupon %s for order %s: %v", req.CouponCode, order.ID, err)
		}
	}

	// 7. Side effects: confirmation mail and staff notification

	if h.MailService != nil {
		confirmation := mail.BookingConfirmation{
			CustomerEmail: customer.Email,
			CustomerName:  customer.FirstName,
			OrderID:       order.ID,
			ScheduledDate: scheduledDate,
			StartTime:     req.Slot.StartTime,
			EndTime:       endTime,
			ServiceNames:  serviceNames,
			Total:         quote.Total,
			Deposit:       quote.Deposit,
		}
		if err := h.MailService.SendBookingConfirmation(ctx, confirmation); err != nil {
			h.Logger.Printf("Warning: Failed to send booking confirmation for order %s: %v", order.ID, err)
		}
	}

	if h.NotificationService != nil {
		customerName := fmt.Sprintf("%s %s", customer.FirstName, customer.LastName)
		if err := h.NotificationService.NotifyNewOrder(ctx, order.ID, customerName, scheduledDate, req.Slot.StartTime, quote.Total); err != nil {
			h.Logger.Printf("Warning: Failed to send notification for order %s: %v", order.ID, err)
		}
	}

	respondWithJSON(w, http.StatusCreated, orderResponseFrom(order))
}

// resolveCustomer finds the customer by email or creates one, linking the
// portal user when the request is authenticated
func (h *Handler) resolveCustomer(r *http.Request, req createOrderRequest) (*store.Customer, error) {
	ctx := r.Context()

	existing, err := h.Store.Customers().GetByEmail(ctx, req.Customer.Email)
	if err == nil {
		return existing, nil
	}

	customer := &store.Customer{
		ID:        uuid.New().String(),
		FirstName: req.Customer.FirstName,
		LastName:  req.Customer.LastName,
		Email:     req.Customer.Email,
		Phone:     req.Customer.Phone,
	}
	if user := currentUser(r); user != nil {
		customer.UserID = &user.ID
	}

	if err := h.Store.Customers().Create(ctx, customer); err != nil {
		// A concurrent booking may have created the same email first
		if errors.Is(err, store.ErrUniqueViolation) {
			return h.Store.Customers().GetByEmail(ctx, req.Customer.Email)
		}
		return nil, err
	}
	return customer, nil
}

// handleListOrders returns the authenticated customer's orders
func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Sign in to view your orders")
		return
	}

	customer, err := h.Store.Customers().GetByUser(r.Context(), user.ID)
	if err != nil {
		// A signed-in user with no bookings yet has no customer record
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"orders": []orderResponse{}})
		return
	}

	orders, err := h.Store.Orders().GetByCustomer(r.Context(), customer.ID, store.OrderFilters{})
	if err != nil {
		h.Logger.Printf("Error listing orders for customer %s: %s", customer.ID, err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not load orders")
		return
	}

	response := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		response = append(response, orderResponseFrom(order))
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"orders": response})
}

// handleGetOrder returns one order, visible to its customer or an admin
func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Sign in to view your orders")
		return
	}

	orderID := pathParam(r, "orderID")
	order, err := h.Store.Orders().Get(r.Context(), orderID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "NOT_FOUND", "Order not found")
		return
	}

	if !user.IsAdmin() {
		customer, err := h.Store.Customers().GetByUser(r.Context(), user.ID)
		if err != nil || customer.ID != order.CustomerID {
			respondWithError(w, http.StatusForbidden, "FORBIDDEN", "Order belongs to another customer")
			return
		}
	}

	respondWithJSON(w, http.StatusOK, order)
}

func orderResponseFrom(order *store.Order) orderResponse {
	return orderResponse{
		ID:            order.ID,
		Status:        string(order.Status),
		Subtotal:      order.Subtotal,
		Discount:      order.Discount,
		Tax:           order.Tax,
		Deposit:       order.DepositAmount,
		Total:         order.Total,
		ScheduledDate: order.ScheduledDate.Format("2006-01-02"),
		StartTime:     order.ScheduledStartTime,
		EndTime:       order.ScheduledEndTime,
	}
}

// CLOCK HELPERS

func parseClock(value string) (int, bool) {
	var hour, minute int
	if _, err := fmt.Sscanf(value, "%d:%d", &hour, &minute); err != nil {
		return 0, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

func formatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
