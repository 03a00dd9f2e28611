package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shiningstar-api/res/pricing"
	"shiningstar-api/res/store"
)

// fakeStore is an in-memory store.Store for handler tests. Only the methods
// the handlers under test reach are meaningfully implemented; the rest error.
type fakeStore struct {
	services    map[string]*store.Service
	packages    map[string]*store.Package
	coupons     map[string]*store.Coupon
	customers   map[string]*store.Customer // keyed by email
	users       map[string]*store.User
	orders      map[string]*store.Order
	sessions    map[string]*store.AuthSession
	booked      map[string]bool // "YYYY-MM-DD HH:MM"
	redeemed    []string
	addresses   []*store.Address
	webhookSeen map[string]bool
	invoices    []*store.Invoice
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		services:    map[string]*store.Service{},
		packages:    map[string]*store.Package{},
		coupons:     map[string]*store.Coupon{},
		customers:   map[string]*store.Customer{},
		users:       map[string]*store.User{},
		orders:      map[string]*store.Order{},
		sessions:    map[string]*store.AuthSession{},
		booked:      map[string]bool{},
		webhookSeen: map[string]bool{},
	}
}

var errFakeNotFound = errors.New("not found")

func (f *fakeStore) AuthSessions() store.AuthSessionStore   { return fakeAuthSessionStore{f} }
func (f *fakeStore) Users() store.UserStore                 { return fakeUserStore{f} }
func (f *fakeStore) Services() store.ServiceStore           { return fakeServiceStore{f} }
func (f *fakeStore) Packages() store.PackageStore           { return fakePackageStore{f} }
func (f *fakeStore) Coupons() store.CouponStore             { return fakeCouponStore{f} }
func (f *fakeStore) Customers() store.CustomerStore         { return fakeCustomerStore{f} }
func (f *fakeStore) Orders() store.OrderStore               { return fakeOrderStore{f} }
func (f *fakeStore) Invoices() store.InvoiceStore           { return fakeInvoiceStore{f} }
func (f *fakeStore) WebhookEvents() store.WebhookEventStore { return fakeWebhookEventStore{f} }
func (f *fakeStore) Portfolio() store.PortfolioStore        { return fakePortfolioStore{} }
func (f *fakeStore) GetDB() interface{}                     { return nil }

// SERVICES

type fakeServiceStore struct{ f *fakeStore }

func (s fakeServiceStore) Get(ctx context.Context, id string) (*store.Service, error) {
	svc, ok := s.f.services[id]
	if !ok {
		return nil, errFakeNotFound
	}
	return svc, nil
}

func (s fakeServiceStore) List(ctx context.Context, activeOnly bool) ([]*store.Service, error) {
	var out []*store.Service
	for _, svc := range s.f.services {
		if activeOnly && !svc.IsActive {
			continue
		}
		out = append(out, svc)
	}
	return out, nil
}

func (s fakeServiceStore) Catalog(ctx context.Context) (pricing.CatalogMap, error) {
	catalog := pricing.CatalogMap{}
	for id, svc := range s.f.services {
		if svc.IsActive {
			catalog[id] = svc.CatalogEntry()
		}
	}
	return catalog, nil
}

func (s fakeServiceStore) Create(ctx context.Context, svc *store.Service) error {
	s.f.services[svc.ID] = svc
	return nil
}

func (s fakeServiceStore) Update(ctx context.Context, svc *store.Service) error {
	s.f.services[svc.ID] = svc
	return nil
}

// PACKAGES

type fakePackageStore struct{ f *fakeStore }

func (s fakePackageStore) Get(ctx context.Context, id string) (*store.Package, error) {
	pkg, ok := s.f.packages[id]
	if !ok {
		return nil, errFakeNotFound
	}
	return pkg, nil
}

func (s fakePackageStore) List(ctx context.Context, activeOnly bool) ([]*store.Package, error) {
	var out []*store.Package
	for _, pkg := range s.f.packages {
		out = append(out, pkg)
	}
	return out, nil
}

func (s fakePackageStore) Create(ctx context.Context, pkg *store.Package) error {
	s.f.packages[pkg.ID] = pkg
	return nil
}

func (s fakePackageStore) Update(ctx context.Context, pkg *store.Package) error {
	s.f.packages[pkg.ID] = pkg
	return nil
}

// COUPONS

type fakeCouponStore struct{ f *fakeStore }

func (s fakeCouponStore) GetByCode(ctx context.Context, code string) (*store.Coupon, error) {
	coupon, ok := s.f.coupons[code]
	if !ok {
		return nil, store.ErrCouponNotFound
	}
	return coupon, nil
}

func (s fakeCouponStore) Redeem(ctx context.Context, code string) error {
	coupon, ok := s.f.coupons[code]
	if !ok {
		return store.ErrCouponNotFound
	}
	if coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit {
		return store.ErrCouponExhausted
	}
	coupon.UsedCount++
	s.f.redeemed = append(s.f.redeemed, code)
	return nil
}

func (s fakeCouponStore) Create(ctx context.Context, coupon *store.Coupon) error {
	if _, exists := s.f.coupons[coupon.Code]; exists {
		return store.ErrUniqueViolation
	}
	s.f.coupons[coupon.Code] = coupon
	return nil
}

func (s fakeCouponStore) Update(ctx context.Context, coupon *store.Coupon) error {
	s.f.coupons[coupon.Code] = coupon
	return nil
}

// CUSTOMERS

type fakeCustomerStore struct{ f *fakeStore }

func (s fakeCustomerStore) Get(ctx context.Context, id string) (*store.Customer, error) {
	for _, c := range s.f.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, errFakeNotFound
}

func (s fakeCustomerStore) GetByEmail(ctx context.Context, email string) (*store.Customer, error) {
	c, ok := s.f.customers[email]
	if !ok {
		return nil, errFakeNotFound
	}
	return c, nil
}

func (s fakeCustomerStore) GetByUser(ctx context.Context, userID string) (*store.Customer, error) {
	for _, c := range s.f.customers {
		if c.UserID != nil && *c.UserID == userID {
			return c, nil
		}
	}
	return nil, errFakeNotFound
}

func (s fakeCustomerStore) Create(ctx context.Context, customer *store.Customer) error {
	if _, exists := s.f.customers[customer.Email]; exists {
		return store.ErrUniqueViolation
	}
	s.f.customers[customer.Email] = customer
	return nil
}

func (s fakeCustomerStore) Update(ctx context.Context, customer *store.Customer) error {
	s.f.customers[customer.Email] = customer
	return nil
}

func (s fakeCustomerStore) CreateAddress(ctx context.Context, address *store.Address) error {
	s.f.addresses = append(s.f.addresses, address)
	return nil
}

func (s fakeCustomerStore) GetAddresses(ctx context.Context, customerID string) ([]*store.Address, error) {
	var out []*store.Address
	for _, a := range s.f.addresses {
		if a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s fakeCustomerStore) ListAll(ctx context.Context, filters store.CustomerFilters) ([]*store.Customer, error) {
	var out []*store.Customer
	for _, c := range s.f.customers {
		out = append(out, c)
	}
	return out, nil
}

// ORDERS

type fakeOrderStore struct{ f *fakeStore }

func slotKey(date time.Time, startTime string) string {
	return fmt.Sprintf("%s %s", date.Format("2006-01-02"), startTime)
}

func (s fakeOrderStore) Create(ctx context.Context, order *store.Order) error {
	key := slotKey(order.ScheduledDate, order.ScheduledStartTime)
	if s.f.booked[key] {
		return store.ErrSlotTaken
	}
	s.f.booked[key] = true
	s.f.orders[order.ID] = order
	return nil
}

func (s fakeOrderStore) Get(ctx context.Context, id string) (*store.Order, error) {
	order, ok := s.f.orders[id]
	if !ok {
		return nil, errFakeNotFound
	}
	return order, nil
}

func (s fakeOrderStore) GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*store.Order, error) {
	for _, order := range s.f.orders {
		if order.StripePaymentIntentID != nil && *order.StripePaymentIntentID == paymentIntentID {
			return order, nil
		}
	}
	return nil, errFakeNotFound
}

func (s fakeOrderStore) GetByCustomer(ctx context.Context, customerID string, filters store.OrderFilters) ([]*store.Order, error) {
	var out []*store.Order
	for _, order := range s.f.orders {
		if order.CustomerID == customerID {
			out = append(out, order)
		}
	}
	return out, nil
}

func (s fakeOrderStore) ListAll(ctx context.Context, filters store.OrderFilters) ([]*store.Order, error) {
	var out []*store.Order
	for _, order := range s.f.orders {
		out = append(out, order)
	}
	return out, nil
}

func (s fakeOrderStore) UpdateStatus(ctx context.Context, orderID string, status store.OrderStatus) error {
	order, ok := s.f.orders[orderID]
	if !ok {
		return errFakeNotFound
	}
	order.Status = status
	if status == store.OrderStatusCancelled {
		// Cancelled orders release their slot
		delete(s.f.booked, slotKey(order.ScheduledDate, order.ScheduledStartTime))
	}
	return nil
}

func (s fakeOrderStore) AttachPaymentIntent(ctx context.Context, orderID, paymentIntentID string) error {
	order, ok := s.f.orders[orderID]
	if !ok {
		return errFakeNotFound
	}
	order.StripePaymentIntentID = &paymentIntentID
	return nil
}

func (s fakeOrderStore) MarkDepositPaid(ctx context.Context, orderID, paymentIntentID string) error {
	order, ok := s.f.orders[orderID]
	if !ok {
		return errFakeNotFound
	}
	order.Status = store.OrderStatusConfirmed
	order.DepositPaid = true
	order.StripePaymentIntentID = &paymentIntentID
	return nil
}

func (s fakeOrderStore) MarkFullyPaid(ctx context.Context, orderID, paymentIntentID string) error {
	order, ok := s.f.orders[orderID]
	if !ok {
		return errFakeNotFound
	}
	order.Status = store.OrderStatusPaid
	order.FullyPaid = true
	order.StripePaymentIntentID = &paymentIntentID
	return nil
}

func (s fakeOrderStore) HasSlotConflict(ctx context.Context, date time.Time, startTime, endTime string) (bool, error) {
	return s.f.booked[slotKey(date, startTime)], nil
}

// USERS

type fakeUserStore struct{ f *fakeStore }

func (s fakeUserStore) Get(ctx context.Context, id string) (*store.User, error) {
	user, ok := s.f.users[id]
	if !ok {
		return nil, errFakeNotFound
	}
	return user, nil
}

func (s fakeUserStore) GetByGoogleIdentity(ctx context.Context, googleIdentity string) (*store.User, error) {
	return nil, errFakeNotFound
}

func (s fakeUserStore) GetByEmail(ctx context.Context, email string) (*store.User, error) {
	return nil, errFakeNotFound
}

func (s fakeUserStore) Create(ctx context.Context, ID, displayName, email string, role store.UserRole, googleIdentity *string) (*store.User, error) {
	user := &store.User{ID: ID, DisplayName: displayName, Email: email, Role: role, GoogleIdentity: googleIdentity}
	s.f.users[ID] = user
	return user, nil
}

func (s fakeUserStore) Update(ctx context.Context, userID string, displayName *string, role *store.UserRole) (*store.User, error) {
	return nil, errFakeNotFound
}

func (s fakeUserStore) Delete(ctx context.Context, userID string) error {
	return errFakeNotFound
}

// UNUSED SUB-STORES

type fakeAuthSessionStore struct{ f *fakeStore }

func (s fakeAuthSessionStore) Get(ctx context.Context, ID string) (*store.AuthSession, error) {
	session, ok := s.f.sessions[ID]
	if !ok {
		return nil, errFakeNotFound
	}
	return session, nil
}
func (s fakeAuthSessionStore) Create(ctx context.Context, ID, userID string) (*store.AuthSession, error) {
	session := &store.AuthSession{ID: ID, UserID: userID}
	s.f.sessions[ID] = session
	return session, nil
}
func (s fakeAuthSessionStore) Delete(ctx context.Context, IDs []string) error {
	for _, id := range IDs {
		delete(s.f.sessions, id)
	}
	return nil
}
func (s fakeAuthSessionStore) DeleteExpired(ctx context.Context, expirationPoint time.Time) error {
	return nil
}
func (s fakeAuthSessionStore) DeleteAllByUser(ctx context.Context, userID string) error {
	for id, session := range s.f.sessions {
		if session.UserID == userID {
			delete(s.f.sessions, id)
		}
	}
	return nil
}

type fakeInvoiceStore struct{ f *fakeStore }

func (s fakeInvoiceStore) Create(ctx context.Context, invoice *store.Invoice) error {
	s.f.invoices = append(s.f.invoices, invoice)
	return nil
}
func (s fakeInvoiceStore) Get(ctx context.Context, id string) (*store.Invoice, error) {
	return nil, errFakeNotFound
}
func (s fakeInvoiceStore) GetByOrder(ctx context.Context, orderID string) ([]*store.Invoice, error) {
	return nil, nil
}
func (s fakeInvoiceStore) GetByCustomer(ctx context.Context, customerID string) ([]*store.Invoice, error) {
	var out []*store.Invoice
	for _, invoice := range s.f.invoices {
		if invoice.CustomerID == customerID {
			out = append(out, invoice)
		}
	}
	return out, nil
}

type fakeWebhookEventStore struct{ f *fakeStore }

func (s fakeWebhookEventStore) Record(ctx context.Context, id, providerEventID, eventType string) (bool, error) {
	if s.f.webhookSeen[providerEventID] {
		return false, nil
	}
	s.f.webhookSeen[providerEventID] = true
	return true, nil
}
func (s fakeWebhookEventStore) Get(ctx context.Context, providerEventID string) (*store.WebhookEvent, error) {
	return nil, errFakeNotFound
}

type fakePortfolioStore struct{}

func (fakePortfolioStore) List(ctx context.Context, publishedOnly bool) ([]*store.PortfolioItem, error) {
	return nil, nil
}
func (fakePortfolioStore) Get(ctx context.Context, id string) (*store.PortfolioItem, error) {
	return nil, errFakeNotFound
}
func (fakePortfolioStore) Create(ctx context.Context, item *store.PortfolioItem) error { return nil }
func (fakePortfolioStore) Delete(ctx context.Context, id string) error                 { return nil }
