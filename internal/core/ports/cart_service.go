package ports

import (
	"github.com/shopspring/decimal"

	"github.com/tiendademo/storefront/internal/core/domain"
)

// CartService is the in-memory cart aggregate. Totals are recomputed on every call.
type CartService interface {
	AddItem(item domain.CartItem)
	IncrementQuantity(id string)
	DecrementQuantity(id string)
	RemoveItem(id string)
	Clear()
	ApplyDiscount(percent decimal.Decimal)
	Items() []domain.CartItem
	Subtotal() decimal.Decimal
	ShippingCost() decimal.Decimal
	GrandTotal() decimal.Decimal
	// Subscribe calls fn with the items right away and after every change. fn
	// may mutate the cart; those changes are delivered after the current one.
	Subscribe(fn func([]domain.CartItem)) (unsubscribe func())
}
