package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// FreeShippingThreshold is the discounted subtotal from which shipping is free.
	FreeShippingThreshold = decimal.NewFromInt(50000)
	// FlatShippingFee applies below FreeShippingThreshold.
	FlatShippingFee = decimal.NewFromInt(3990)
)

// CartItem is one line of the cart, keyed by product ID. Quantity is always >= 1.
type CartItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	ImageRef  string          `json:"imageRef"`
	Quantity  int             `json:"quantity"`
}

// LineTotal is quantity × unit price.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// coupons maps accepted coupon codes to their discount percentage.
var coupons = map[string]int64{
	"DESCUENTO10": 10,
}

// CouponDiscount returns the percentage granted by code. Codes are matched
// case-insensitively after trimming.
func CouponDiscount(code string) (decimal.Decimal, bool) {
	pct, ok := coupons[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return decimal.Zero, false
	}
	return decimal.NewFromInt(pct), true
}
