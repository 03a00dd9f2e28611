package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shiningstar-api/res/auth"
	"shiningstar-api/res/geo"
	"shiningstar-api/res/mail"
	"shiningstar-api/res/pricing"
	"shiningstar-api/res/scheduling"
	"shiningstar-api/res/store"
)

// seededFakeStore returns a fake store preloaded with a small catalog the
// tests price against.
func seededFakeStore() *fakeStore {
	f := newFakeStore()

	f.services["window-cleaning"] = &store.Service{
		ID:                  "window-cleaning",
		Category:            store.ServiceCategoryWindowsFloor,
		Name:                "Window Cleaning",
		BasePrice:           15,
		Unit:                "each",
		HasSizes:            true,
		BaseDurationMinutes: 30,
		IsActive:            true,
	}
	f.services["deep-cleaning"] = &store.Service{
		ID:                  "deep-cleaning",
		Category:            store.ServiceCategoryGeneral,
		Name:                "Deep Cleaning",
		BasePrice:           200,
		Unit:                "each",
		HasSizes:            false,
		BaseDurationMinutes: 180,
		IsActive:            true,
		PricingRules: []store.PricingRule{
			{
				ID:            "rule-large-area",
				ServiceID:     "deep-cleaning",
				Name:          "Large Area Surcharge",
				ConditionType: store.RuleConditionSqftRange,
				ConditionMin:  1000,
				ConditionMax:  3000,
				Modifier:      1.2,
				ModifierType:  pricing.ModifierTypeMultiplier,
				Priority:      10,
				IsActive:      true,
			},
		},
	}
	f.services["retired-service"] = &store.Service{
		ID:        "retired-service",
		Name:      "Retired Service",
		BasePrice: 99,
		IsActive:  false,
	}

	f.packages["premium-bundle"] = &store.Package{
		ID:          "premium-bundle",
		Name:        "Premium Bundle",
		Discount:    0.15,
		MinServices: 3,
		IsActive:    true,
	}

	usageLimit := 100
	f.coupons["WELCOME10"] = &store.Coupon{
		Code:          "WELCOME10",
		DiscountType:  pricing.DiscountTypePercentage,
		DiscountValue: 10,
		ValidFrom:     time.Now().Add(-time.Hour),
		ValidUntil:    time.Now().Add(30 * 24 * time.Hour),
		UsageLimit:    &usageLimit,
		IsActive:      true,
	}
	f.coupons["FLAT20"] = &store.Coupon{
		Code:          "FLAT20",
		DiscountType:  pricing.DiscountTypeFixed,
		DiscountValue: 20,
		ValidFrom:     time.Now().Add(-time.Hour),
		ValidUntil:    time.Now().Add(30 * 24 * time.Hour),
		IsActive:      true,
	}

	return f
}

func newTestRouter(f *fakeStore, mutate func(cfg *Config)) http.Handler {
	cfg := &Config{
		Logger: log.New(io.Discard, "", 0),
		Store:  f,
		Auth:   auth.New("test-secret", "client-id", "client-secret", "http://localhost/callback"),
		ServiceArea: geo.ServiceArea{
			Center:      geo.Coordinates{Lat: 39.9526, Lng: -75.1652},
			RadiusMiles: 10,
		},
		BusinessHours: scheduling.DefaultBusinessHours(),
	}
	if mutate != nil {
		mutate(cfg)
	}
	return NewRouter(cfg)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return doJSONAs(t, router, method, path, body, "")
}

func doJSONAs(t *testing.T, router http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

// bearerToken signs an access token with the test router's JWT secret
func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.New("test-secret", "client-id", "client-secret", "http://localhost/callback").GenerateAccessToken(userID)
	if err != nil {
		t.Fatalf("failed to sign access token: %v", err)
	}
	return token
}

// seedUser registers a portal user in the fake store
func seedUser(f *fakeStore, id string, role store.UserRole) *store.User {
	user := &store.User{ID: id, DisplayName: "Test User", Email: id + "@example.com", Role: role}
	f.users[id] = user
	return user
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode response %q: %v", recorder.Body.String(), err)
	}
}

func errorCode(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var payload errorPayload
	decodeBody(t, recorder, &payload)
	return payload.Error.Code
}

// recordingMailService captures outbound mail for assertions
type recordingMailService struct {
	contactMessages []string
	confirmations   []mail.BookingConfirmation
	receipts        []mail.PaymentReceipt
}

func (m *recordingMailService) SendContactMessage(ctx context.Context, name, email, phone, message string) error {
	m.contactMessages = append(m.contactMessages, email)
	return nil
}

func (m *recordingMailService) SendBookingConfirmation(ctx context.Context, confirmation mail.BookingConfirmation) error {
	m.confirmations = append(m.confirmations, confirmation)
	return nil
}

func (m *recordingMailService) SendPaymentReceipt(ctx context.Context, receipt mail.PaymentReceipt) error {
	m.receipts = append(m.receipts, receipt)
	return nil
}

func TestHealth(t *testing.T) {
	router := newTestRouter(seededFakeStore(), nil)

	recorder := doJSON(t, router, http.MethodGet, "/health", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
}
