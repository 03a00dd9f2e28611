package postgresql

import (
	"fmt"
	"runtime"

	"shiningstar-api/res/store"

	sqlCommenter "github.com/gouyelliot/gorm-sqlcommenter-plugin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type storeImpl struct {
	db *gorm.DB

	authSessionStore  *authSessionStore
	userStore         *userStore
	serviceStore      *serviceStore
	packageStore      *packageStore
	couponStore       *couponStore
	customerStore     *customerStore
	orderStore        *orderStore
	invoiceStore      *invoiceStore
	webhookEventStore *webhookEventStore
	portfolioStore    *portfolioStore
}

func (sImpl *storeImpl) AuthSessions() store.AuthSessionStore {
	return sImpl.authSessionStore
}

func (sImpl *storeImpl) Users() store.UserStore {
	return sImpl.userStore
}

func (sImpl *storeImpl) Services() store.ServiceStore {
	return sImpl.serviceStore
}

func (sImpl *storeImpl) Packages() store.PackageStore {
	return sImpl.packageStore
}

func (sImpl *storeImpl) Coupons() store.CouponStore {
	return sImpl.couponStore
}

func (sImpl *storeImpl) Customers() store.CustomerStore {
	return sImpl.customerStore
}

func (sImpl *storeImpl) Orders() store.OrderStore {
	return sImpl.orderStore
}

func (sImpl *storeImpl) Invoices() store.InvoiceStore {
	return sImpl.invoiceStore
}

func (sImpl *storeImpl) WebhookEvents() store.WebhookEventStore {
	return sImpl.webhookEventStore
}

func (sImpl *storeImpl) Portfolio() store.PortfolioStore {
	return sImpl.portfolioStore
}

func (sImpl *storeImpl) GetDB() interface{} {
	return sImpl.db
}

func Connect(connectionUrl string) (*storeImpl, error) {
	db, err := gorm.Open(postgres.Open(connectionUrl), &gorm.Config{TranslateError: true, PrepareStmt: false})
	if err != nil {
		return nil, err
	}

	err = db.Use(sqlCommenter.New())
	if err != nil {
		return nil, err
	}

	err = decorateDBOperationsWithAdditionalInfo(db)
	if err != nil {
		return nil, err
	}

	// Auto-migrate all tables
	// err = db.AutoMigrate(
	// 	&store.User{},
	// 	&store.AuthSession{},
	// 	&store.Service{},
	// 	&store.PricingRule{},
	// 	&store.Package{},
	// 	&store.Coupon{},
	// 	&store.Customer{},
	// 	&store.Address{},
	// 	&store.Order{},
	// 	&store.OrderItem{},
	// 	&store.Invoice{},
	// 	&store.WebhookEvent{},
	// 	&store.PortfolioItem{},
	// )
	// if err != nil {
	// 	return nil, fmt.Errorf("failed to auto-migrate tables: %w", err)
	// }

	s := &storeImpl{db: db}

	s.authSessionStore = NewAuthSessionStore(s)
	s.userStore = NewUserStore(s)
	s.serviceStore = NewServiceStore(s)
	s.packageStore = NewPackageStore(s)
	s.couponStore = NewCouponStore(s)
	s.customerStore = NewCustomerStore(s)
	s.orderStore = NewOrderStore(s)
	s.invoiceStore = NewInvoiceStore(s)
	s.webhookEventStore = NewWebhookEventStore(s)
	s.portfolioStore = NewPortfolioStore(s)

	return s, nil
}

// COMMON UTILITIES

func identifyCallee(stackDepth int) string {
	function, _, line, ok := runtime.Caller(stackDepth)
	if !ok {
		return "<missing-runtime-info>"
	}
	return fmt.Sprintf("%s:%d", runtime.FuncForPC(function).Name(), line)
}

func annotateWithInfoHook(db *gorm.DB) {
	info := identifyCallee(4) // Skip the internal gorm calls & the 2 local setup calls
	db.Clauses(sqlCommenter.NewTag("action", info))
}

func decorateDBOperationsWithAdditionalInfo(db *gorm.DB) error {
	return db.Callback().Query().Before("gorm:query").Register("store::annotate_with_info", annotateWithInfoHook)
}
