package pricing

import "github.com/shopspring/decimal"

// Coupon is an absolute discount that applies only while the raw cart
// subtotal is at least MinAmount. Eligibility is re-checked on every
// recomputation; a coupon that was eligible when selected stops applying
// the moment the cart drops below the threshold.
type Coupon struct {
	Code      string          `json:"code"`
	Discount  decimal.Decimal `json:"discount"`
	MinAmount decimal.Decimal `json:"minAmount"`
}

// Coupons is the static coupon catalog.
var Coupons = map[string]Coupon{
	"TASTY50": {
		Code:      "TASTY50",
		Discount:  decimal.NewFromInt(50),
		MinAmount: decimal.NewFromInt(299),
	},
	"SAVE30": {
		Code:      "SAVE30",
		Discount:  decimal.NewFromInt(30),
		MinAmount: decimal.NewFromInt(100),
	},
	"TREAT20": {
		Code:      "TREAT20",
		Discount:  decimal.NewFromInt(20),
		MinAmount: decimal.NewFromInt(149),
	},
}

// LookupCoupon returns the coupon for code, if it exists.
func LookupCoupon(code string) (Coupon, bool) {
	c, ok := Coupons[code]
	return c, ok
}

// Eligible reports whether the coupon applies at the given raw subtotal.
func (c Coupon) Eligible(rawSubtotal decimal.Decimal) bool {
	return rawSubtotal.GreaterThanOrEqual(c.MinAmount)
}
