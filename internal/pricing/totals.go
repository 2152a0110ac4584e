package pricing

import (
	"fmt"

	"github.com/quickbite/backend/internal/database"
	"github.com/shopspring/decimal"
)

// Catalog resolves the authoritative unit price for an item code. Client
// supplied prices are never consulted.
type Catalog interface {
	PriceOf(itemCode string) (decimal.Decimal, bool)
}

// Policy controls how lines referencing unknown item codes are handled.
type Policy int

const (
	// LenientSkip drops unresolved lines and prices the rest, tolerating
	// stale item references in old carts.
	LenientSkip Policy = iota
	// StrictReject fails the whole computation on any unresolved line.
	StrictReject
)

var (
	// DeliveryCharge is the flat per-order delivery surcharge.
	DeliveryCharge = decimal.NewFromInt(40)
	// TaxRate is applied to the discounted subtotal.
	TaxRate = decimal.RequireFromString("0.0925")
)

// PricedLine is a cart line with authoritative pricing attached. Derived
// only; never stored.
type PricedLine struct {
	ItemCode      string          `json:"item_code"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	RawTotal      decimal.Decimal `json:"raw_total"`
	DiscountShare decimal.Decimal `json:"discount_share"`
	Total         decimal.Decimal `json:"total"`
}

type Totals struct {
	Lines          []PricedLine    `json:"lines"`
	RawSubtotal    decimal.Decimal `json:"raw_subtotal"`
	Discount       decimal.Decimal `json:"discount"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
	Tax            decimal.Decimal `json:"tax"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
	CouponApplied  bool            `json:"coupon_applied"`
}

// ComputeTotals derives the full price breakdown for a set of cart lines.
// It is a pure function of its inputs and must be re-run after every cart
// or coupon mutation; nothing is cached.
//
// The coupon discount is prorated across lines in proportion to each line's
// share of the raw subtotal, and each discounted line total is rounded
// half-up to 2 decimals at the line level. Line-level rounding means the sum
// of discounted totals can differ from (raw subtotal - discount) by up to
// len(lines) * 0.005; that drift is accepted and the per-line figures are
// authoritative.
func ComputeTotals(lines []Line, catalog Catalog, coupon *Coupon, policy Policy) (*Totals, error) {
	priced := make([]PricedLine, 0, len(lines))
	rawSubtotal := decimal.Zero

	for _, line := range lines {
		price, ok := catalog.PriceOf(line.ItemCode)
		if !ok {
			if policy == StrictReject {
				return nil, fmt.Errorf("price item %q: %w", line.ItemCode, database.ErrItemNotFound)
			}
			continue
		}

		raw := price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		priced = append(priced, PricedLine{
			ItemCode:  line.ItemCode,
			Quantity:  line.Quantity,
			UnitPrice: price,
			RawTotal:  raw,
		})
		rawSubtotal = rawSubtotal.Add(raw)
	}

	totals := &Totals{
		RawSubtotal:    rawSubtotal,
		Discount:       decimal.Zero,
		DeliveryCharge: DeliveryCharge,
	}

	// Eligibility is decided here, on the current subtotal, regardless of
	// when the coupon was selected.
	if coupon != nil && coupon.Eligible(rawSubtotal) && rawSubtotal.IsPositive() {
		totals.Discount = coupon.Discount
		totals.CouponApplied = true
	}

	subtotal := decimal.Zero
	for i := range priced {
		if totals.CouponApplied {
			priced[i].DiscountShare = priced[i].RawTotal.Mul(totals.Discount).Div(rawSubtotal)
		}
		priced[i].Total = priced[i].RawTotal.Sub(priced[i].DiscountShare).Round(2)
		subtotal = subtotal.Add(priced[i].Total)
	}

	totals.Lines = priced
	totals.Subtotal = subtotal
	totals.Tax = subtotal.Mul(TaxRate).Round(2)
	totals.GrandTotal = subtotal.Add(totals.DeliveryCharge).Add(totals.Tax)

	return totals, nil
}
