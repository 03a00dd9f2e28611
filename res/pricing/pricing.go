package pricing

import (
	"math"
	"sort"
	"time"
)

const (
	// TaxRate is the flat sales tax applied to the post-discount amount.
	// Not configurable per jurisdiction.
	TaxRate = 0.08

	// DepositRate is the upfront fraction of the post-discount total collected
	// at booking time. The deposit base excludes tax.
	DepositRate = 0.25
)

// Size represents a size tag on a service selection
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Frequency represents how often a service is booked
type Frequency string

const (
	FrequencyOneTime  Frequency = "one-time"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiWeekly Frequency = "bi-weekly"
	FrequencyMonthly  Frequency = "monthly"
)

// SizeMultiplier returns the price multiplier for a size tag. Unknown tags are
// a no-op (1.0), not an error.
func SizeMultiplier(size Size) float64 {
	switch size {
	case SizeSmall:
		return 1.0
	case SizeMedium:
		return 1.5
	case SizeLarge:
		return 2.0
	}
	return 1.0
}

// FrequencyMultiplier returns the price multiplier for a booking frequency.
// Weekly and bi-weekly bookings earn a recurring discount.
func FrequencyMultiplier(frequency Frequency) float64 {
	switch frequency {
	case FrequencyWeekly:
		return 0.9
	case FrequencyBiWeekly:
		return 0.95
	}
	return 1.0
}

// CatalogService is the immutable reference data the engine prices against
type CatalogService struct {
	ID                  string
	Name                string
	BasePrice           float64
	HasSizes            bool
	BaseDurationMinutes float64 // per unit, used by scheduling estimates
	Rules               []Rule
}

// Catalog resolves service ids to reference data
type Catalog interface {
	Service(id string) (*CatalogService, bool)
}

// CatalogMap is an in-memory Catalog
type CatalogMap map[string]*CatalogService

func (m CatalogMap) Service(id string) (*CatalogService, bool) {
	svc, ok := m[id]
	return svc, ok
}

// Selection is one requested service within a quote. Ephemeral, exists only
// within a quote request.
type Selection struct {
	ServiceID string    `json:"serviceId"`
	Quantity  int       `json:"quantity"`
	Size      Size      `json:"size,omitempty"`
	Frequency Frequency `json:"frequency"`
}

// LineItem is one priced component of a quote
type LineItem struct {
	ServiceID  string    `json:"serviceId"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	UnitPrice  float64   `json:"unitPrice"`
	TotalPrice float64   `json:"totalPrice"`
	Frequency  Frequency `json:"frequency"`
}

// Package represents a bundle discount applied when enough services are selected
type Package struct {
	ID          string
	Name        string
	Discount    float64 // fraction, e.g. 0.15 for 15%
	MinServices int
}

// DiscountType represents how a coupon reduces the subtotal
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Coupon represents a redeemable discount code
type Coupon struct {
	Code           string
	Type           DiscountType
	Value          float64
	MaxDiscount    *float64 // percentage type only; nil = unbounded
	MinOrderAmount *float64
	ValidFrom      time.Time
	ValidUntil     time.Time
	UsageLimit     *int // nil = unlimited
	UsedCount      int
}

// CouponStatus reports why a coupon did or did not contribute a discount.
// Invalid coupons contribute zero discount rather than failing the quote, but
// the reason must be distinguishable downstream.
type CouponStatus string

const (
	CouponStatusNone         CouponStatus = ""
	CouponStatusApplied      CouponStatus = "applied"
	CouponStatusNotFound     CouponStatus = "not_found"
	CouponStatusExpired      CouponStatus = "expired"
	CouponStatusExhausted    CouponStatus = "exhausted"
	CouponStatusBelowMinimum CouponStatus = "below_minimum"
)

// Valid reports whether the coupon can be redeemed at the given instant,
// returning the rejection reason when it cannot.
func (c *Coupon) Valid(now time.Time) CouponStatus {
	if now.Before(c.ValidFrom) || now.After(c.ValidUntil) {
		return CouponStatusExpired
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return CouponStatusExhausted
	}
	return CouponStatusApplied
}

// Quote is a computed, non-persisted price breakdown for a prospective order.
// Immutable once computed; a new quote supersedes rather than mutates.
type Quote struct {
	Subtotal     float64      `json:"subtotal"`
	Discount     float64      `json:"discount"`
	Tax          float64      `json:"tax"`
	Deposit      float64      `json:"deposit"`
	Total        float64      `json:"total"`
	LineItems    []LineItem   `json:"lineItems"`
	AppliedRules []string     `json:"appliedRules"`
	CouponStatus CouponStatus `json:"couponStatus,omitempty"`
}

// Input carries everything a quote computation needs. Package and Coupon are
// pre-resolved reference data; a nil Coupon with a non-empty CouponCode means
// the code was not found.
type Input struct {
	Selections []Selection
	Package    *Package
	Coupon     *Coupon
	CouponCode string
	Context    RuleContext
	Now        time.Time
}

// ComputeQuote prices a cart of selections. In strict mode an unknown service
// id aborts with ErrServiceNotFound; otherwise unknown ids are skipped
// (best-effort preview behavior).
//
// The computation is deterministic: identical input yields identical output.
func ComputeQuote(catalog Catalog, in Input, strict bool) (*Quote, error) {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	quote := &Quote{
		LineItems:    []LineItem{},
		AppliedRules: []string{},
	}

	for _, sel := range in.Selections {
		svc, ok := catalog.Service(sel.ServiceID)
		if !ok {
			if strict {
				return nil, &ServiceNotFoundError{ServiceID: sel.ServiceID}
			}
			continue
		}

		price := svc.BasePrice * float64(sel.Quantity)

		if svc.HasSizes && sel.Size != "" {
			price *= SizeMultiplier(sel.Size)
		}

		price *= FrequencyMultiplier(sel.Frequency)

		price, applied := applyRules(svc.Rules, price, in.Context)
		quote.AppliedRules = append(quote.AppliedRules, applied...)

		lineTotal := roundMoney(price)
		quote.LineItems = append(quote.LineItems, LineItem{
			ServiceID:  svc.ID,
			Name:       svc.Name,
			Quantity:   sel.Quantity,
			UnitPrice:  svc.BasePrice,
			TotalPrice: lineTotal,
			Frequency:  sel.Frequency,
		})

		// Subtotal accumulates the rounded line totals so it always equals
		// the sum of what the customer sees.
		quote.Subtotal += lineTotal
	}

	quote.Subtotal = roundMoney(quote.Subtotal)

	// Discounts apply once to the aggregate subtotal, not per line item.
	// Package and coupon discounts are additive.
	discount := 0.0
	if in.Package != nil && len(in.Selections) >= in.Package.MinServices {
		discount += quote.Subtotal * in.Package.Discount
	}

	if in.Coupon != nil {
		status := in.Coupon.Valid(now)
		if status == CouponStatusApplied && in.Coupon.MinOrderAmount != nil && quote.Subtotal < *in.Coupon.MinOrderAmount {
			status = CouponStatusBelowMinimum
		}
		quote.CouponStatus = status

		if status == CouponStatusApplied {
			switch in.Coupon.Type {
			case DiscountTypePercentage:
				couponDiscount := quote.Subtotal * in.Coupon.Value / 100
				if in.Coupon.MaxDiscount != nil {
					couponDiscount = math.Min(couponDiscount, *in.Coupon.MaxDiscount)
				}
				discount += couponDiscount
			case DiscountTypeFixed:
				// Capped at the remaining subtotal so a fixed-amount coupon
				// can never drive the total negative.
				discount += math.Min(in.Coupon.Value, quote.Subtotal-discount)
			}
		}
	} else if in.CouponCode != "" {
		quote.CouponStatus = CouponStatusNotFound
	}

	// discount <= subtotal, post-discount total clamped at 0 before tax and
	// deposit are derived from it
	discount = math.Min(discount, quote.Subtotal)
	afterDiscount := math.Max(0, quote.Subtotal-discount)

	quote.Discount = roundMoney(discount)
	quote.Tax = roundMoney(afterDiscount * TaxRate)
	quote.Deposit = roundMoney(afterDiscount * DepositRate)
	quote.Total = roundMoney(afterDiscount + quote.Tax)

	return quote, nil
}

// Verified reports whether an independently recomputed total matches a
// client-submitted total within a cent.
func Verified(serverTotal, clientTotal float64) bool {
	return math.Abs(serverTotal-clientTotal) < 0.01
}

func applyRules(rules []Rule, price float64, rctx RuleContext) (float64, []string) {
	if len(rules) == 0 {
		return price, nil
	}

	ordered := make([]Rule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	var applied []string
	for _, rule := range ordered {
		if !rule.IsActive || rule.Condition == nil || !rule.Condition.Matches(rctx) {
			continue
		}
		// Rules are cumulative, not exclusive
		switch rule.ModifierType {
		case ModifierTypeMultiplier:
			price *= rule.Modifier
		case ModifierTypeFixed:
			price += rule.Modifier
		}
		applied = append(applied, rule.Name)
	}

	return price, applied
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
