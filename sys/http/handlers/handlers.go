package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"shiningstar-api/res/auth"
	"shiningstar-api/res/cache"
	"shiningstar-api/res/geo"
	"shiningstar-api/res/mail"
	"shiningstar-api/res/notification"
	"shiningstar-api/res/payment"
	"shiningstar-api/res/pricing"
	"shiningstar-api/res/scheduling"
	"shiningstar-api/res/storage"
	"shiningstar-api/res/store"
	"shiningstar-api/sys/http/middleware"

	"github.com/go-chi/chi/v5"
)

const (
	contactRateLimit       = 5
	contactRateLimitWindow = 15 * time.Minute
)

// Config carries the wired services the HTTP surface depends on. Optional
// integrations (mail, notification, payment, limiter, storage) may be nil and
// the affected endpoints degrade or refuse accordingly.
type Config struct {
	Logger              *log.Logger
	Store               store.Store
	Auth                auth.Auth
	MailService         mail.MailService
	NotificationService notification.NotificationService
	PaymentService      payment.PaymentService
	RateLimiter         cache.RateLimiter
	Deduper             cache.Deduper
	Storage             *storage.GCSService

	ServiceArea   geo.ServiceArea
	BusinessHours scheduling.BusinessHours
}

// Handler holds the services the route handlers interact with
type Handler struct {
	*Config
	chat *chatHub
}

// NewRouter creates the chi router with the full route table and middleware
// stack. The auth middleware resolves bearer tokens on every route; handlers
// that need a user call requireUser/requireAdmin themselves.
func NewRouter(cfg *Config) *chi.Mux {
	h := &Handler{Config: cfg, chat: newChatHub(cfg.Logger)}
	go h.chat.run()

	r := chi.NewRouter()

	r.Use(middleware.CSPMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.AuthMiddleware(cfg.Logger, cfg.Store, cfg.Auth))

	r.Get("/health", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/services", h.handleListServices)
		r.Get("/packages", h.handleListPackages)
		r.Get("/portfolio", h.handleListPortfolio)

		r.Post("/quote", h.handleQuote)
		r.Post("/quote/verify", h.handleQuoteVerify)
		r.Post("/availability", h.handleAvailability)

		r.Post("/orders", h.handleCreateOrder)
		r.Get("/orders", h.handleListOrders)
		r.Get("/orders/{orderID}", h.handleGetOrder)
		r.Get("/invoices", h.handleListInvoices)

		r.Post("/payment-intent", h.handleCreatePaymentIntent)
		r.Post("/webhooks/stripe", h.handleStripeWebhook)

		r.With(middleware.RateLimitMiddleware(cfg.Logger, cfg.RateLimiter, "contact", contactRateLimit, contactRateLimitWindow)).
			Post("/contact", h.handleContact)

		r.Post("/auth/google", h.handleAuthGoogle)
		r.Post("/auth/refresh", h.handleAuthRefresh)
		r.Post("/auth/logout", h.handleAuthLogout)

		r.Get("/chat/stream", h.handleChatStream)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/orders", h.handleAdminListOrders)
			r.Put("/orders/{orderID}/status", h.handleAdminUpdateOrderStatus)
			r.Get("/customers", h.handleAdminListCustomers)
			r.Post("/services", h.handleAdminCreateService)
			r.Put("/services/{serviceID}", h.handleAdminUpdateService)
			r.Post("/coupons", h.handleAdminCreateCoupon)
			r.Post("/portfolio", h.handleAdminCreatePortfolioItem)
			r.Delete("/portfolio/{itemID}", h.handleAdminDeletePortfolioItem)
		})
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// REQUEST HELPERS

// quoteRequest is the shared cart shape for quote, availability, and order
// endpoints
type quoteRequest struct {
	Selections []pricing.Selection `json:"selections"`
	PackageID  string              `json:"packageId,omitempty"`
	CouponCode string              `json:"couponCode,omitempty"`
	Context    pricing.RuleContext `json:"context"`
}

// buildQuoteInput resolves the cart's package and coupon references into the
// pricing engine's input shape, alongside the active catalog.
func (h *Handler) buildQuoteInput(ctx context.Context, req quoteRequest) (pricing.CatalogMap, pricing.Input, error) {
	catalog, err := h.Store.Services().Catalog(ctx)
	if err != nil {
		return nil, pricing.Input{}, err
	}

	in := pricing.Input{
		Selections: req.Selections,
		CouponCode: req.CouponCode,
		Context:    req.Context,
	}

	if req.PackageID != "" {
		pkg, err := h.Store.Packages().Get(ctx, req.PackageID)
		if err != nil {
			h.Logger.Printf("Unknown package in quote request: %s", req.PackageID)
		} else if pkg.IsActive {
			in.Package = &pricing.Package{
				ID:          pkg.ID,
				Name:        pkg.Name,
				Discount:    pkg.Discount,
				MinServices: pkg.MinServices,
			}
		}
	}

	if req.CouponCode != "" {
		coupon, err := h.Store.Coupons().GetByCode(ctx, req.CouponCode)
		if err == nil {
			in.Coupon = coupon.PricingCoupon()
		}
		// Missing coupon stays nil; the engine reports not_found
	}

	return catalog, in, nil
}

// currentUser returns the authenticated user resolved by the auth middleware
func currentUser(r *http.Request) *store.User {
	return middleware.GetCurrentUser(r.Context())
}

// requireAdmin writes a 403 and returns nil unless the request carries an
// admin user
func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) *store.User {
	user := currentUser(r)
	if user == nil || !user.IsAdmin() {
		respondWithError(w, http.StatusForbidden, "FORBIDDEN", "Admin access required")
		return nil
	}
	return user
}

func pathParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// RESPONSE HELPERS

type errorPayload struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, errorCode, message string) {
	respondWithJSON(w, code, errorPayload{Error: errorBody{Message: message, Code: errorCode}})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return false
	}
	return true
}
