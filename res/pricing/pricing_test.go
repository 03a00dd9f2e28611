package pricing

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func testCatalog() CatalogMap {
	return CatalogMap{
		"toilet": {ID: "toilet", Name: "Toilet Cleaning", BasePrice: 50},
		"windows": {
			ID: "windows", Name: "Window Cleaning", BasePrice: 8, HasSizes: true,
		},
		"floor-cleaning": {
			ID: "floor-cleaning", Name: "Floor Cleaning", BasePrice: 2,
			Rules: []Rule{
				{
					Name:         "Large Area Discount",
					Condition:    SqftRange{Min: 2000, Max: 10000},
					Modifier:     0.85,
					ModifierType: ModifierTypeMultiplier,
					Priority:     10,
					IsActive:     true,
				},
			},
		},
		"dust": {ID: "dust", Name: "Dusting", BasePrice: 100},
	}
}

func TestComputeQuoteEmptySelections(t *testing.T) {
	quote, err := ComputeQuote(testCatalog(), Input{Now: testNow}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Subtotal != 0 || quote.Total != 0 || quote.Deposit != 0 || quote.Tax != 0 {
		t.Fatalf("expected all-zero quote, got %+v", quote)
	}
	if len(quote.LineItems) != 0 {
		t.Fatalf("expected no line items, got %d", len(quote.LineItems))
	}
}

func TestComputeQuoteBaseCase(t *testing.T) {
	// basePrice=50, quantity=2, no rules -> subtotal 100, tax 8, total 108
	quote, err := ComputeQuote(testCatalog(), Input{
		Selections: []Selection{{ServiceID: "toilet", Quantity: 2, Frequency: FrequencyOneTime}},
		Now:        testNow,
	}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Subtotal != 100 {
		t.Fatalf("expected subtotal 100, got %v", quote.Subtotal)
	}
	if quote.Tax != 8 {
		t.Fatalf("expected tax 8, got %v", quote.Tax)
	}
	if quote.Total != 108 {
		t.Fatalf("expected total 108, got %v", quote.Total)
	}
	if quote.Deposit != 25 {
		t.Fatalf("expected deposit 25, got %v", quote.Deposit)
	}
}

func TestComputeQuoteSizeAndFrequencyMultipliers(t *testing.T) {
	tests := []struct {
		name      string
		selection Selection
		want      float64
	}{
		{"large window", Selection{ServiceID: "windows", Quantity: 1, Size: SizeLarge, Frequency: FrequencyOneTime}, 16},
		{"medium window weekly", Selection{ServiceID: "windows", Quantity: 2, Size: SizeMedium, Frequency: FrequencyWeekly}, 21.6},
		{"unknown size is a no-op", Selection{ServiceID: "windows", Quantity: 1, Size: "gigantic", Frequency: FrequencyOneTime}, 8},
		{"size ignored without HasSizes", Selection{ServiceID: "toilet", Quantity: 1, Size: SizeLarge, Frequency: FrequencyOneTime}, 50},
		{"bi-weekly discount", Selection{ServiceID: "toilet", Quantity: 1, Frequency: FrequencyBiWeekly}, 47.5},
		{"unknown frequency treated as 1.0", Selection{ServiceID: "toilet", Quantity: 1, Frequency: "yearly"}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := ComputeQuote(testCatalog(), Input{Selections: []Selection{tt.selection}, Now: testNow}, true)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if quote.LineItems[0].TotalPrice != tt.want {
				t.Fatalf("expected line total %v, got %v", tt.want, quote.LineItems[0].TotalPrice)
			}
		})
	}
}

func TestComputeQuotePricingRules(t *testing.T) {
	// basePrice=2/sqft, quantity=1, sqft=2500 -> Large Area Discount applies
	quote, err := ComputeQuote(testCatalog(), Input{
		Selections: []Selection{{ServiceID: "floor-cleaning", Quantity: 1, Frequency: FrequencyOneTime}},
		Context:    RuleContext{Sqft: 2500},
		Now:        testNow,
	}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.LineItems[0].TotalPrice != 1.7 {
		t.Fatalf("expected adjusted price 1.7, got %v", quote.LineItems[0].TotalPrice)
	}
	if !reflect.DeepEqual(quote.AppliedRules, []string{"Large Area Discount"}) {
		t.Fatalf("expected applied rules [Large Area Discount], got %v", quote.AppliedRules)
	}
}

func TestComputeQuoteRulesAreCumulative(t *testing.T) {
	catalog := CatalogMap{
		"deep": {
			ID: "deep", Name: "Deep Cleaning", BasePrice: 100,
			Rules: []Rule{
				{Name: "Big Home", Condition: SqftRange{Min: 1000, Max: 5000}, Modifier: 1.2, ModifierType: ModifierTypeMultiplier, Priority: 20, IsActive: true},
				{Name: "Many Rooms Fee", Condition: RoomCountMin{Min: 4}, Modifier: 15, ModifierType: ModifierTypeFixed, Priority: 10, IsActive: true},
				{Name: "Disabled Rule", Condition: RoomCountMin{Min: 1}, Modifier: 999, ModifierType: ModifierTypeFixed, Priority: 5, IsActive: false},
			},
		},
	}

	quote, err := ComputeQuote(catalog, Input{
		Selections: []Selection{{ServiceID: "deep", Quantity: 1, Frequency: FrequencyOneTime}},
		Context:    RuleContext{Sqft: 1500, Rooms: 5},
		Now:        testNow,
	}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 100 * 1.2 + 15 = 135, in priority order
	if quote.LineItems[0].TotalPrice != 135 {
		t.Fatalf("expected line total 135, got %v", quote.LineItems[0].TotalPrice)
	}
	if !reflect.DeepEqual(quote.AppliedRules, []string{"Big Home", "Many Rooms Fee"}) {
		t.Fatalf("unexpected applied rules: %v", quote.AppliedRules)
	}
}

func TestComputeQuoteUnknownService(t *testing.T) {
	in := Input{
		Selections: []Selection{
			{ServiceID: "toilet", Quantity: 1, Frequency: FrequencyOneTime},
			{ServiceID: "chimney", Quantity: 1, Frequency: FrequencyOneTime},
		},
		Now: testNow,
	}

	t.Run("strict mode aborts", func(t *testing.T) {
		_, err := ComputeQuote(testCatalog(), in, true)
		var notFound *ServiceNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected ServiceNotFoundError, got %v", err)
		}
		if notFound.ServiceID != "chimney" {
			t.Fatalf("expected service id chimney, got %s", notFound.ServiceID)
		}
	})

	t.Run("best-effort mode skips", func(t *testing.T) {
		quote, err := ComputeQuote(testCatalog(), in, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(quote.LineItems) != 1 || quote.Subtotal != 50 {
			t.Fatalf("expected single known line item, got %+v", quote)
		}
	})
}

func TestComputeQuotePackageDiscount(t *testing.T) {
	pkg := &Package{ID: "basic", Name: "Basic Bundle", Discount: 0.15, MinServices: 1}

	quote, err := ComputeQuote(testCatalog(), Input{
		Selections: []Selection{{ServiceID: "dust", Quantity: 1, Frequency: FrequencyOneTime}},
		Package:    pkg,
		Now:        testNow,
	}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Discount != 15 {
		t.Fatalf("expected discount 15, got %v", quote.Discount)
	}
	// (100 - 15) * 1.08
	if quote.Total != 91.8 {
		t.Fatalf("expected total 91.8, got %v", quote.Total)
	}

	t.Run("below minimum service count", func(t *testing.T) {
		strictPkg := &Package{ID: "premium", Discount: 0.2, MinServices: 6}
		quote, err := ComputeQuote(testCatalog(), Input{
			Selections: []Selection{{ServiceID: "dust", Quantity: 1, Frequency: FrequencyOneTime}},
			Package:    strictPkg,
			Now:        testNow,
		}, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if quote.Discount != 0 {
			t.Fatalf("expected no discount, got %v", quote.Discount)
		}
	})
}

func TestComputeQuoteCoupons(t *testing.T) {
	maxDiscount := 50.0
	usageLimit := 100
	minOrder := 500.0

	baseSelections := []Selection{{ServiceID: "dust", Quantity: 1, Frequency: FrequencyOneTime}}

	t.Run("percentage with cap", func(t *testing.T) {
		coupon := &Coupon{
			Code: "TEST20", Type: DiscountTypePercentage, Value: 20,
			MaxDiscount: &maxDiscount,
			ValidFrom:   testNow.AddDate(0, -1, 0), ValidUntil: testNow.AddDate(0, 1, 0),
		}
		quote, err := ComputeQuote(testCatalog(), Input{Selections: baseSelections, Coupon: coupon, Now: testNow}, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if quote.Discount != 20 {
			t.Fatalf("expected discount 20, got %v", quote.Discount)
		}
		if quote.Total != 86.4 {
			t.Fatalf("expected total 86.4, got %v", quote.Total)
		}
		if quote.CouponStatus != CouponStatusApplied {
			t.Fatalf("expected applied status, got %q", quote.CouponStatus)
		}
	})

	t.Run("percentage hits max discount cap", func(t *testing.T) {
		smallCap := 5.0
		coupon := &Coupon{
			Code: "CAP5", Type: DiscountTypePercentage, Value: 50,
			MaxDiscount: &smallCap,
			ValidFrom:   testNow.AddDate(0, -1, 0), ValidUntil: testNow.AddDate(0, 1, 0),
		}
		quote, err := ComputeQuote(testCatalog(), Input{Selections: baseSelections, Coupon: coupon, Now: testNow}, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if quote.Discount != 5 {
			t.Fatalf("expected capped discount 5, got %v", quote.Discount)
		}
	})

	t.Run("fixed amount clamped at subtotal", func(t *testing.T) {
		coupon := &Coupon{
			Code: "BIG500", Type: DiscountTypeFixed, Value: 500,
			ValidFrom: testNow.AddDate(0, -1, 0), ValidUntil: testNow.AddDate(0, 1, 0),
		}
		quote, err := ComputeQuote(testCatalog(), Input{Selections: baseSelections, Coupon: coupon, Now: testNow}, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if quote.Discount != 100 {
			t.Fatalf("expected discount clamped to 100, got %v", quote.Discount)
		}
		if quote.Total != 0 || quote.Tax != 0 || quote.Deposit != 0 {
			t.Fatalf("expected zero total/tax/deposit, got %+v", quote)
		}
	})

	t.Run("expired", func(t *testing.T) {
		coupon := &Coupon{
			Code: "OLD", Type: DiscountTypePercentage, Value: 20,
			ValidFrom: testNow.AddDate(0, -2, 0), ValidUntil: testNow.AddDate(0, -1, 0),
		}
		quote, err := ComputeQuote(testCatalog(), Input{Selections: baseSelections, Coupon: coupon, Now: testNow}, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if quote.Discount != 0 {
			t.Fatalf("expected no discount, got %v", quote.Discount)
		}
		if quote.CouponStatus != CouponStatusExpired {
			t.Fatalf("expected expired status, got %q", quote.CouponStatus)
		}
	})

	t.Run("usage limit exhausted", func(t *testing.T) {
		coupon := &Coupon{
			Code: "USEDUP", Type: DiscountTypePercentage, Value: 20,
			ValidFrom: testNow.AddDate(0, -1, 0), ValidUntil: testNow.AddDate(0, 1, 0),
			UsageLimit: &usageLimit, UsedCount: 100,
		}
		quote, err := ComputeQuote(testCatalog(), Input{Selections: baseSelections, Coupon: coupon, Now: testNow}, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if quote.CouponStatus != CouponStatusExhausted || quote.Discount != 0 {
			t.Fatalf("expected exhausted status and zero discount, got %+v", quote)
		}
	})

	t.Run("below minimum order amount", func(t *testing.T) {
		coupon := &Coupon{
			Code: "MIN500", Type: DiscountTypePercentage, Value: 20,
			MinOrderAmount: &minOrder,
			ValidFrom:      testNow.AddDate(0, -1, 0), ValidUntil: testNow.AddDate(0, 1, 0),
		}
		quote, err := ComputeQuote(testCatalog(), Input{Selections: baseSelections, Coupon: coupon, Now: testNow}, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if quote.CouponStatus != CouponStatusBelowMinimum || quote.Discount != 0 {
			t.Fatalf("expected below_minimum status and zero discount, got %+v", quote)
		}
	})

	t.Run("not found", func(t *testing.T) {
		quote, err := ComputeQuote(testCatalog(), Input{Selections: baseSelections, CouponCode: "NOPE", Now: testNow}, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if quote.CouponStatus != CouponStatusNotFound {
			t.Fatalf("expected not_found status, got %q", quote.CouponStatus)
		}
	})

	t.Run("package and coupon are additive", func(t *testing.T) {
		pkg := &Package{ID: "basic", Discount: 0.1, MinServices: 1}
		coupon := &Coupon{
			Code: "TEST20", Type: DiscountTypePercentage, Value: 20,
			MaxDiscount: &maxDiscount,
			ValidFrom:   testNow.AddDate(0, -1, 0), ValidUntil: testNow.AddDate(0, 1, 0),
		}
		quote, err := ComputeQuote(testCatalog(), Input{Selections: baseSelections, Package: pkg, Coupon: coupon, Now: testNow}, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if quote.Discount != 30 {
			t.Fatalf("expected additive discount 30, got %v", quote.Discount)
		}
	})
}

func TestComputeQuoteInvariants(t *testing.T) {
	in := Input{
		Selections: []Selection{
			{ServiceID: "toilet", Quantity: 3, Frequency: FrequencyWeekly},
			{ServiceID: "windows", Quantity: 4, Size: SizeMedium, Frequency: FrequencyBiWeekly},
			{ServiceID: "floor-cleaning", Quantity: 1200, Frequency: FrequencyOneTime},
		},
		Context: RuleContext{Sqft: 1200},
		Now:     testNow,
	}

	quote, err := ComputeQuote(testCatalog(), in, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum := 0.0
	for _, item := range quote.LineItems {
		sum += item.TotalPrice
	}
	if math.Abs(sum-quote.Subtotal) > 0.001 {
		t.Fatalf("subtotal %v does not equal line item sum %v", quote.Subtotal, sum)
	}
	if quote.Discount > quote.Subtotal {
		t.Fatalf("discount %v exceeds subtotal %v", quote.Discount, quote.Subtotal)
	}

	// identical input yields bit-identical output
	again, err := ComputeQuote(testCatalog(), in, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(quote, again) {
		t.Fatalf("quote computation is not deterministic:\n%+v\n%+v", quote, again)
	}
}

func TestVerified(t *testing.T) {
	if !Verified(108.00, 108.005) {
		t.Fatal("expected totals within a cent to verify")
	}
	if Verified(108.00, 108.02) {
		t.Fatal("expected mismatched totals to fail verification")
	}
}
