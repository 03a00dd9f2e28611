package store

type Store interface {
	AuthSessions() AuthSessionStore
	Users() UserStore
	Services() ServiceStore
	Packages() PackageStore
	Coupons() CouponStore
	Customers() CustomerStore
	Orders() OrderStore
	Invoices() InvoiceStore
	WebhookEvents() WebhookEventStore
	Portfolio() PortfolioStore

	// Database access for advanced operations
	GetDB() interface{} // Returns the underlying database connection
}
